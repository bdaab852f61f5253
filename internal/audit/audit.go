package audit

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"satshop-api/internal/model"
	"satshop-api/pkg/logger"
)

// Event describes a security-relevant action to append to the audit log
type Event struct {
	Action    string
	Resource  string
	Details   string
	Severity  string
	UserID    *uint
	RequestID string
}

// Record appends an event to the security audit log. Failures are logged and
// swallowed: auditing is best-effort and never blocks the action it records.
func Record(db *gorm.DB, ev Event) {
	if !model.ValidSeverity(ev.Severity) {
		ev.Severity = model.SeverityLow
	}
	row := model.SecurityAuditEvent{
		Action:    ev.Action,
		Resource:  ev.Resource,
		Details:   ev.Details,
		Severity:  ev.Severity,
		UserID:    ev.UserID,
		RequestID: ev.RequestID,
	}
	if err := db.Create(&row).Error; err != nil {
		logger.GetLogger().Error("Failed to record audit event",
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}
