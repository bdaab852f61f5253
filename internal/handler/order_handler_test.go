package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/internal/notify"
	"satshop-api/pkg/config"
	"satshop-api/pkg/database"
)

// newTestOrderHandler builds an order handler with unconfigured notification
// clients: deliveries fail and that must not affect order persistence
func newTestOrderHandler() *OrderHandler {
	log := zap.NewNop()
	return NewOrderHandler(
		notify.NewTelegramClient(&config.TelegramConfig{}, log),
		notify.NewEmailClient(&config.EmailConfig{}, log),
	)
}

func seedProduct(t *testing.T, product model.Product) model.Product {
	t.Helper()
	require.NoError(t, database.GetDB().Create(&product).Error)
	return product
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateGuestOrder(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com",
		"guest_phone": "0550 12 34 56"
	}`)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, order.OrderToken, 8)
	assert.Equal(t, "FUNCAM", order.ProductName)
	assert.Equal(t, "1800 DA", order.Amount)
	assert.Equal(t, "ali@example.com", order.GuestEmail)
	assert.Nil(t, order.UserID, "guest order must not carry a user id")
}

func TestCreateOrderThenTrackByToken(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com"
	}`)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	trackReq := httptest.NewRequest(http.MethodGet, "/api/orders/track/"+created.OrderToken, nil)
	trackRec := httptest.NewRecorder()
	trackCtx := e.NewContext(trackReq, trackRec)
	trackCtx.SetParamNames("token")
	trackCtx.SetParamValues(created.OrderToken)

	require.NoError(t, h.TrackOrder(trackCtx))
	require.Equal(t, http.StatusOK, trackRec.Code)

	var tracked model.Order
	require.NoError(t, json.Unmarshal(trackRec.Body.Bytes(), &tracked))
	assert.Equal(t, "FUNCAM", tracked.ProductName)
	assert.Equal(t, created.ID, tracked.ID)
}

func TestTrackOrderRejectsMalformedToken(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()

	for _, bad := range []string{"ab12cd34", "AB12CD3", "AB12CD345"} {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/track/"+bad, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("token")
		c.SetParamValues(bad)

		require.NoError(t, h.TrackOrder(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "token %q should be rejected", bad)
	}
}

func TestCreateGuestOrderRequiresEmail(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali"
	}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	database.GetDB().Model(&model.Order{}).Count(&count)
	assert.Zero(t, count, "invalid submission must not persist an order")
}

func TestCreateOrderUnavailableProduct(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "Old pack", Price: "900 DA", Category: model.CategoryVOD, IsAvailable: false,
	})

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com"
	}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})

	body := `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com",
		"idempotency_key": "submit-1"
	}`

	c1, rec1 := postJSON(e, "/api/orders", body)
	require.NoError(t, h.CreateOrder(c1))
	require.Equal(t, http.StatusCreated, rec1.Code)
	var first model.Order
	require.NoError(t, json.Unmarshal(rec1.Body.Bytes(), &first))

	c2, rec2 := postJSON(e, "/api/orders", body)
	require.NoError(t, h.CreateOrder(c2))
	require.Equal(t, http.StatusOK, rec2.Code, "duplicate submission returns the existing order")
	var second model.Order
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &second))
	assert.Equal(t, first.ID, second.ID)

	var count int64
	database.GetDB().Model(&model.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateOrderRedeemsPromoCode(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})
	now := time.Now()
	require.NoError(t, database.GetDB().Create(&model.PromoCode{
		Code:               "WELCOME10",
		DiscountPercentage: 10,
		StartDate:          now.Add(-time.Hour),
		EndDate:            now.Add(time.Hour),
		MaxUses:            2,
	}).Error)

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com",
		"promo_code": "welcome10"
	}`)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "WELCOME10", order.PromoCode)

	var code model.PromoCode
	require.NoError(t, database.GetDB().Where("code = ?", "WELCOME10").First(&code).Error)
	assert.Equal(t, 1, code.CurrentUses, "checkout consumes one use of the budget")
}

func TestCreateOrderExhaustedPromoRejected(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()
	product := seedProduct(t, model.Product{
		Name: "FUNCAM", Price: "1800 DA", Category: model.CategoryIPTV, IsAvailable: true,
	})
	now := time.Now()
	require.NoError(t, database.GetDB().Create(&model.PromoCode{
		Code:           "LAST1",
		DiscountAmount: 200,
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		MaxUses:        1,
		CurrentUses:    1,
	}).Error)

	c, rec := postJSON(e, "/api/orders", `{
		"product_id": ` + jsonID(product.ID) + `,
		"customer_name": "Ali",
		"guest_email": "ali@example.com",
		"promo_code": "LAST1"
	}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	database.GetDB().Model(&model.Order{}).Count(&count)
	assert.Zero(t, count, "rejected promo must not persist an order")

	var code model.PromoCode
	require.NoError(t, database.GetDB().Where("code = ?", "LAST1").First(&code).Error)
	assert.Equal(t, 1, code.CurrentUses, "exhausted budget must not advance")
}

func TestListMyOrdersNewestFirst(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()

	userID := uint(7)
	for _, name := range []string{"first", "second"} {
		require.NoError(t, database.GetDB().Create(&model.Order{
			ProductID:   1,
			ProductName: name,
			Status:      model.OrderStatusPending,
			OrderToken:  strings.ToUpper(name[:1]) + "B12CD3" + strings.ToUpper(name[:1]),
			UserID:      &userID,
		}).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)

	require.NoError(t, h.ListMyOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	e := setupTest(t)
	h := newTestOrderHandler()

	require.NoError(t, database.GetDB().Create(&model.Order{
		ProductID: 1, ProductName: "FUNCAM", Status: model.OrderStatusPending,
		OrderToken: "AB12CD34", GuestEmail: "ali@example.com",
	}).Error)

	c, rec := postJSON(e, "/api/admin/orders/1/status", `{"status": "shipped"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateOrderStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
