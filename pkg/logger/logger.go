package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"satshop-api/pkg/config"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// InitLogger initializes the global logger with configuration
func InitLogger(appConfig *config.Config) {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}

		if level, err := zapcore.ParseLevel(appConfig.Log.Level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
		if appConfig.Server.Env == "development" {
			cfg = zap.NewDevelopmentConfig()
		}

		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
	})
}

// GetLogger returns the global logger, initializing a default one if needed
func GetLogger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
	})
	return instance
}
