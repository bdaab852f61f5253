package handler

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"satshop-api/pkg/config"
	"satshop-api/pkg/database"
	"satshop-api/prometheus"
)

var metricsOnce sync.Once

// setupTest points the handlers at a fresh in-memory database and returns
// an echo instance with the request validator wired
func setupTest(t *testing.T) *echo.Echo {
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

	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

// jsonID renders a record id for embedding in a JSON request body
func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
