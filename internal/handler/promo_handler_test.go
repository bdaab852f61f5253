package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
)

func TestValidatePromoCodeEndpoint(t *testing.T) {
	e := setupTest(t)
	now := time.Now()

	require.NoError(t, database.GetDB().Create(&model.PromoCode{
		Code:               "WELCOME10",
		DiscountPercentage: 10,
		StartDate:          now.Add(-24 * time.Hour),
		EndDate:            now.Add(24 * time.Hour),
		MaxUses:            100,
	}).Error)

	c, rec := postJSON(e, "/api/promos/validate", `{"code": "welcome10", "subtotal": 2000}`)
	require.NoError(t, ValidatePromoCode(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid    bool    `json:"valid"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.InDelta(t, 200.0, resp.Discount, 0.001)
	assert.InDelta(t, 1800.0, resp.Total, 0.001)
}

func TestValidatePromoCodeExpired(t *testing.T) {
	e := setupTest(t)
	now := time.Now()

	require.NoError(t, database.GetDB().Create(&model.PromoCode{
		Code:           "OLD",
		DiscountAmount: 500,
		StartDate:      now.Add(-48 * time.Hour),
		EndDate:        now.Add(-24 * time.Hour),
		MaxUses:        100,
	}).Error)

	c, rec := postJSON(e, "/api/promos/validate", `{"code": "OLD", "subtotal": 2000}`)
	require.NoError(t, ValidatePromoCode(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePromoCodeUnknown(t *testing.T) {
	e := setupTest(t)

	c, rec := postJSON(e, "/api/promos/validate", `{"code": "NOPE", "subtotal": 100}`)
	require.NoError(t, ValidatePromoCode(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
