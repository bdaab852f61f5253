package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// SlideRequest defines the structure for slide creation/update requests
type SlideRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Color       string `json:"color"`
	Rank        int    `json:"order"`
}

// ListSlides returns all slides ordered by display rank
func ListSlides(c echo.Context) error {
	log := logger.FromContext(c)

	var slides []model.Slide
	if result := database.GetDB().Order("display_rank ASC").Find(&slides); result.Error != nil {
		log.Error("Failed to list slides", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve slides"})
	}
	return c.JSON(http.StatusOK, slides)
}

// CreateSlide handles creating a new slide
func CreateSlide(c echo.Context) error {
	log := logger.FromContext(c)

	var req SlideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slide := model.Slide{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Color:       req.Color,
		Rank:        req.Rank,
	}
	if result := database.GetDB().Create(&slide); result.Error != nil {
		log.Error("Failed to create slide", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create slide"})
	}

	log.Info("Slide created", zap.Uint("slide_id", slide.ID), zap.String("title", slide.Title))
	return c.JSON(http.StatusCreated, slide)
}

// UpdateSlide handles updating an existing slide
func UpdateSlide(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req SlideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var slide model.Slide
	if result := database.GetDB().First(&slide, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Slide not found"})
	}

	slide.Title = req.Title
	slide.Description = req.Description
	slide.Image = req.Image
	slide.Color = req.Color
	slide.Rank = req.Rank

	if result := database.GetDB().Save(&slide); result.Error != nil {
		log.Error("Failed to update slide", zap.String("slide_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update slide"})
	}
	return c.JSON(http.StatusOK, slide)
}

// DeleteSlide handles deleting a slide
func DeleteSlide(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Slide{}, id)
	if result.Error != nil {
		log.Error("Failed to delete slide", zap.String("slide_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete slide"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Slide not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Slide deleted successfully"})
}
