package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// ListAuditEvents returns the security audit log, newest first, with an
// optional severity filter
func ListAuditEvents(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	if severity := c.QueryParam("severity"); severity != "" {
		if !model.ValidSeverity(severity) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown severity"})
		}
		query = query.Where("severity = ?", severity)
	}

	var events []model.SecurityAuditEvent
	if result := query.Order("created_at DESC").Limit(500).Find(&events); result.Error != nil {
		log.Error("Failed to list audit events", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve audit log"})
	}
	return c.JSON(http.StatusOK, events)
}

// SecurityIntrospection returns combined security posture counts: events per
// severity and recent access denials
func SecurityIntrospection(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	type severityCount struct {
		Severity string `json:"severity"`
		Count    int64  `json:"count"`
	}
	var bySeverity []severityCount
	if err := db.Model(&model.SecurityAuditEvent{}).
		Select("severity, count(*) as count").
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		log.Error("Failed to aggregate audit events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to run introspection"})
	}

	var deniedCount int64
	if err := db.Model(&model.SecurityAuditEvent{}).
		Where("action = ?", "admin_access_denied").
		Count(&deniedCount).Error; err != nil {
		log.Error("Failed to count denials", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to run introspection"})
	}

	var adminCount int64
	db.Model(&model.AdminUser{}).Count(&adminCount)

	return c.JSON(http.StatusOK, echo.Map{
		"events_by_severity":   bySeverity,
		"admin_access_denials": deniedCount,
		"admin_users":          adminCount,
	})
}
