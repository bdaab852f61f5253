package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// GetSiteSettings returns the singleton settings row, defaulting when none
// has been saved yet
func GetSiteSettings(c echo.Context) error {
	var settings model.SiteSettings
	result := database.GetDB().First(&settings, model.SiteSettingsID)
	if result.Error != nil {
		settings = model.SiteSettings{ID: model.SiteSettingsID, LogoText: "Sat-shop"}
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSiteSettings upserts the singleton settings row
func UpdateSiteSettings(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		LogoURL  string `json:"logo_url"`
		LogoText string `json:"logo_text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	settings := model.SiteSettings{
		ID:       model.SiteSettingsID,
		LogoURL:  req.LogoURL,
		LogoText: req.LogoText,
	}
	result := database.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settings)
	if result.Error != nil {
		log.Error("Failed to update site settings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
	}

	log.Info("Site settings updated", zap.String("logo_text", settings.LogoText))
	return c.JSON(http.StatusOK, settings)
}
