package model

import "time"

// Audit event severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidSeverity reports whether the severity is a known level
func ValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// SecurityAuditEvent is an append-only record of security-relevant actions
type SecurityAuditEvent struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Action    string    `json:"action" gorm:"type:varchar(100);not null;index"`
	Resource  string    `json:"resource" gorm:"type:varchar(100)"`
	Details   string    `json:"details" gorm:"type:text"`
	Severity  string    `json:"severity" gorm:"type:varchar(20);not null;index"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	RequestID string    `json:"request_id" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
}
