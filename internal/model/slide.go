package model

import (
	"time"

	"gorm.io/gorm"
)

// Slide represents a homepage carousel entry
type Slide struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Image       string         `json:"image" gorm:"type:text"`
	Color       string         `json:"color" gorm:"type:varchar(100)"` // gradient spec
	Rank        int            `json:"order" gorm:"column:display_rank;default:0;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
