package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
)

func TestAdjustStockAppendsHistory(t *testing.T) {
	e := setupTest(t)
	product := seedProduct(t, model.Product{
		Name: "Receiver X", Price: "9000 DA", Category: model.CategoryOther,
		IsAvailable: true, IsPhysical: true, StockQuantity: 10,
	})

	c, rec := postJSON(e, "/api/admin/stock/1/adjust", `{"change": -3, "notes": "sold at shop"}`)
	c.SetParamNames("productID")
	c.SetParamValues(jsonID(product.ID))
	c.Set("user_id", uint(1))

	require.NoError(t, AdjustStock(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Product
	require.NoError(t, database.GetDB().First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.StockQuantity)

	var history model.StockHistory
	require.NoError(t, database.GetDB().Where("product_id = ?", product.ID).First(&history).Error)
	assert.Equal(t, 10, history.PreviousQuantity)
	assert.Equal(t, 7, history.NewQuantity)
	assert.Equal(t, model.StockChangeDecrease, history.ChangeType)
	assert.Equal(t, "sold at shop", history.Notes)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	e := setupTest(t)
	product := seedProduct(t, model.Product{
		Name: "Receiver X", Price: "9000 DA", Category: model.CategoryOther,
		IsAvailable: true, IsPhysical: true, StockQuantity: 2,
	})

	c, rec := postJSON(e, "/api/admin/stock/1/adjust", `{"change": -5}`)
	c.SetParamNames("productID")
	c.SetParamValues(jsonID(product.ID))

	require.NoError(t, AdjustStock(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	database.GetDB().Model(&model.StockHistory{}).Count(&count)
	assert.Zero(t, count, "rejected adjustment must not append history")
}

func TestAdjustStockSequentialAdjustmentsChainHistory(t *testing.T) {
	e := setupTest(t)
	product := seedProduct(t, model.Product{
		Name: "Receiver X", Price: "9000 DA", Category: model.CategoryOther,
		IsAvailable: true, IsPhysical: true, StockQuantity: 10,
	})

	for _, change := range []string{`{"change": -3}`, `{"change": -2}`} {
		c, rec := postJSON(e, "/api/admin/stock/1/adjust", change)
		c.SetParamNames("productID")
		c.SetParamValues(jsonID(product.ID))
		require.NoError(t, AdjustStock(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var updated model.Product
	require.NoError(t, database.GetDB().First(&updated, product.ID).Error)
	assert.Equal(t, 5, updated.StockQuantity)

	// Each history row records the quantity it actually saw, so the trail
	// chains without gaps
	var history []model.StockHistory
	require.NoError(t, database.GetDB().
		Where("product_id = ?", product.ID).Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, 10, history[0].PreviousQuantity)
	assert.Equal(t, 7, history[0].NewQuantity)
	assert.Equal(t, 7, history[1].PreviousQuantity)
	assert.Equal(t, 5, history[1].NewQuantity)
}

func TestProfitReportSkipsUnparseablePrices(t *testing.T) {
	e := setupTest(t)
	seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV,
		PurchasePrice: 1200, StockQuantity: 5,
	})
	seedProduct(t, model.Product{
		Name: "Mystery", Price: "contactez-nous", Category: model.CategoryOther,
		PurchasePrice: 100, StockQuantity: 1,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stock/profit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, ProfitReport(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []struct {
			Name        string  `json:"name"`
			UnitMargin  float64 `json:"unit_margin"`
			PriceParsed bool    `json:"price_parsed"`
		} `json:"products"`
		ProjectedTotalMargin float64 `json:"projected_total_margin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 2)

	byName := map[string]struct {
		margin float64
		parsed bool
	}{}
	for _, p := range resp.Products {
		byName[p.Name] = struct {
			margin float64
			parsed bool
		}{p.UnitMargin, p.PriceParsed}
	}

	assert.True(t, byName["FUNCAM"].parsed)
	assert.InDelta(t, 600.0, byName["FUNCAM"].margin, 0.001)
	assert.False(t, byName["Mystery"].parsed)
	assert.InDelta(t, 3000.0, resp.ProjectedTotalMargin, 0.001)
}
