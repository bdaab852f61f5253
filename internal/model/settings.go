package model

import "time"

// SiteSettingsID is the fixed primary key of the singleton settings row
const SiteSettingsID = 1

// SiteSettings is a singleton row holding storefront branding
type SiteSettings struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	LogoURL   string    `json:"logo_url" gorm:"type:text"`
	LogoText  string    `json:"logo_text" gorm:"type:varchar(100)"`
	UpdatedAt time.Time `json:"updated_at"`
}
