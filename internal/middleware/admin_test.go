package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"satshop-api/internal/model"
	"satshop-api/internal/ratelimit"
	"satshop-api/pkg/config"
	"satshop-api/pkg/database"
	"satshop-api/prometheus"
)

var metricsOnce sync.Once

func setupGateTest(t *testing.T) *echo.Echo {
	t.Helper()

	metricsOnce.Do(func() {
		cfg, err := config.Load()
		require.NoError(t, err)
		prometheus.InitMetrics(cfg)
	})

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	return echo.New()
}

func gateContext(e *echo.Echo, userID *uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", *userID)
	}
	return c, rec
}

func TestAdminGateDeniesNonAdmin(t *testing.T) {
	e := setupGateTest(t)
	gate := AdminGate(ratelimit.New(100, time.Minute))

	userID := uint(42)
	protected := false
	handler := gate(func(c echo.Context) error {
		protected = true
		return c.NoContent(http.StatusOK)
	})

	// Repeated checks must resolve to denied every time
	for i := 0; i < 3; i++ {
		c, rec := gateContext(e, &userID)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
	assert.False(t, protected, "protected handler must never run for a non-admin")

	// Every denial lands in the audit log
	var count int64
	database.GetDB().Model(&model.SecurityAuditEvent{}).
		Where("action = ?", "admin_access_denied").Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestAdminGateAllowsListedUser(t *testing.T) {
	e := setupGateTest(t)
	gate := AdminGate(ratelimit.New(100, time.Minute))

	userID := uint(7)
	require.NoError(t, database.GetDB().Create(&model.AdminUser{UserID: userID}).Error)

	handler := gate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, rec := gateContext(e, &userID)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGateRequiresSession(t *testing.T) {
	e := setupGateTest(t)
	gate := AdminGate(ratelimit.New(100, time.Minute))

	handler := gate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, rec := gateContext(e, nil)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGateRateLimitsRepeatedAttempts(t *testing.T) {
	e := setupGateTest(t)
	gate := AdminGate(ratelimit.New(3, 10*time.Minute))

	userID := uint(13)
	handler := gate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		c, rec := gateContext(e, &userID)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code, "attempt %d hits the allow-list check", i+1)
	}

	c, rec := gateContext(e, &userID)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "4th attempt within the window is locked out")
}
