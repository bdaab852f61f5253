package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"satshop-api/internal/handler"
	mid "satshop-api/internal/middleware"
	"satshop-api/internal/notify"
	"satshop-api/internal/payment"
	"satshop-api/internal/ratelimit"
	"satshop-api/pkg/config"
	"satshop-api/pkg/database"
	"satshop-api/pkg/jwtutil"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

func main() {
	// Load .env file; environments with real env vars set don't need one
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting satshop-api",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	jwtutil.Initialize(&appConfig.JWT)

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Rate limiter presets: general auth and the stricter admin gate.
	// Both are in-process only; a multi-replica deployment needs these
	// backed by a shared store.
	authLimiter := ratelimit.New(appConfig.RateLimit.AuthMaxAttempts, appConfig.RateLimit.AuthWindow)
	adminLimiter := ratelimit.New(appConfig.RateLimit.AdminMaxAttempts, appConfig.RateLimit.AdminWindow)

	telegramClient := notify.NewTelegramClient(&appConfig.Telegram, log)
	emailClient := notify.NewEmailClient(&appConfig.Email, log)
	paymentClient := payment.NewClient(&appConfig.Payment, log)

	authHandler := handler.NewAuthHandler(authLimiter, emailClient)
	orderHandler := handler.NewOrderHandler(telegramClient, emailClient)
	paymentHandler := handler.NewPaymentHandler(paymentClient)
	webhookHandler := handler.NewWebhookHandler(telegramClient, emailClient, appConfig)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	// Public storefront API
	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/password-reset", authHandler.PasswordReset)

	api.GET("/products", handler.ListProducts)
	api.GET("/products/:id", handler.GetProduct)
	api.GET("/slides", handler.ListSlides)
	api.GET("/settings", handler.GetSiteSettings)

	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders/track/:token", orderHandler.TrackOrder)
	api.POST("/promos/validate", handler.ValidatePromoCode)

	api.POST("/chat/messages", handler.PostChatMessage)
	api.GET("/chat/messages", handler.ListChatMessages)

	api.POST("/payments/checkout", paymentHandler.CreateCheckout)

	// Authenticated customer API
	userAPI := e.Group("/api", mid.AuthMiddleware)
	userAPI.GET("/auth/me", authHandler.Me)
	userAPI.GET("/orders", orderHandler.ListMyOrders)
	userAPI.GET("/wishlist", handler.ListWishlist)
	userAPI.POST("/wishlist", handler.AddToWishlist)
	userAPI.DELETE("/wishlist/:productID", handler.RemoveFromWishlist)
	userAPI.GET("/loyalty", handler.GetLoyaltyAccount)
	userAPI.GET("/loyalty/transactions", handler.ListLoyaltyTransactions)

	// Admin back office: every request re-checks the allow-list
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware, mid.AdminGate(adminLimiter))
	adminAPI.POST("/products", handler.CreateProduct)
	adminAPI.PUT("/products/:id", handler.UpdateProduct)
	adminAPI.DELETE("/products/:id", handler.DeleteProduct)

	adminAPI.POST("/slides", handler.CreateSlide)
	adminAPI.PUT("/slides/:id", handler.UpdateSlide)
	adminAPI.DELETE("/slides/:id", handler.DeleteSlide)

	adminAPI.GET("/promos", handler.ListPromoCodes)
	adminAPI.POST("/promos", handler.CreatePromoCode)
	adminAPI.PUT("/promos/:id", handler.UpdatePromoCode)
	adminAPI.DELETE("/promos/:id", handler.DeletePromoCode)

	adminAPI.GET("/orders", orderHandler.AdminListOrders)
	adminAPI.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	adminAPI.PUT("/orders/:id/delivery", orderHandler.UpdateDeliveryStatus)

	adminAPI.POST("/stock/:productID/adjust", handler.AdjustStock)
	adminAPI.GET("/stock/history", handler.ListStockHistory)
	adminAPI.GET("/stock/profit", handler.ProfitReport)

	adminAPI.POST("/loyalty/:userID/adjust", handler.AdminAdjustLoyalty)

	adminAPI.PUT("/settings", handler.UpdateSiteSettings)
	adminAPI.GET("/audit", handler.ListAuditEvents)
	adminAPI.GET("/security/introspection", handler.SecurityIntrospection)

	// Endpoints external systems call back into
	webhooks := e.Group("/webhooks")
	webhooks.POST("/payment", webhookHandler.PaymentWebhook)
	webhooks.POST("/telegram-notify", webhookHandler.TelegramNotify)
	webhooks.POST("/email-notify", webhookHandler.EmailNotify)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
