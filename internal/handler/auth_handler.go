package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"satshop-api/internal/audit"
	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/internal/notify"
	"satshop-api/internal/ratelimit"
	"satshop-api/internal/sanitize"
	"satshop-api/pkg/database"
	"satshop-api/pkg/jwtutil"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// AuthHandler handles registration, login and password reset requests.
// Login attempts share one rate limiter keyed by client fingerprint.
type AuthHandler struct {
	Limiter *ratelimit.Limiter
	Email   *notify.EmailClient
}

// NewAuthHandler creates the auth handler with its limiter and email client
func NewAuthHandler(limiter *ratelimit.Limiter, email *notify.EmailClient) *AuthHandler {
	return &AuthHandler{Limiter: limiter, Email: email}
}

// Register creates a new customer account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := sanitize.Email(req.Email)
	if err != nil {
		return respondError(c, err)
	}
	phone := ""
	if req.Phone != "" {
		if phone, err = sanitize.Phone(req.Phone); err != nil {
			return respondError(c, err)
		}
	}

	var count int64
	database.GetDB().Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Warn("Registration with existing email", zap.String("email", email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "an account with this email already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
	}

	user := model.User{Email: email, Password: string(hash), Name: req.Name, Phone: phone}
	if err := database.GetDB().Create(&user).Error; err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", email))
	return c.JSON(http.StatusCreated, echo.Map{
		"user": echo.Map{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

// Login authenticates a user and issues a JWT. Attempts are rate limited per
// client fingerprint; a denial reports the remaining lockout duration.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	key := middleware.ClientFingerprint(c)
	if !h.Limiter.IsAllowed(key) {
		remaining := h.Limiter.RemainingLockTime(key)
		log.Warn("Login rate limited", zap.Duration("remaining", remaining))
		prometheus.RecordRateLimitDenial("auth")
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":               "too many login attempts",
			"retry_after_seconds": int(remaining.Seconds()),
		})
	}

	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := sanitize.Email(req.Email)
	if err != nil {
		prometheus.RecordAuthError("invalid_email")
		return respondError(c, err)
	}

	var user model.User
	result := database.GetDB().Where("email = ?", email).First(&user)
	if result.Error != nil {
		log.Warn("Login for unknown email", zap.String("email", email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", email))
		prometheus.RecordAuthError("invalid_password")
		audit.Record(database.GetDB(), audit.Event{
			Action:    "login_failed",
			Resource:  "auth",
			Details:   fmt.Sprintf("wrong password for %s", email),
			Severity:  model.SeverityMedium,
			RequestID: middleware.RequestIDFromContext(c),
		})
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	// Successful login stops earlier failures counting against the client
	h.Limiter.Reset(key)

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  echo.Map{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

// PasswordReset sends a reset email. The response is identical whether or
// not the account exists, so the endpoint cannot be used to probe emails.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email string `json:"email" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := sanitize.Email(req.Email)
	if err != nil {
		return respondError(c, err)
	}

	var user model.User
	if result := database.GetDB().Where("email = ?", email).First(&user); result.Error == nil {
		resetLink := fmt.Sprintf("https://sat-shop.example/reset?email=%s&ts=%d", email, time.Now().Unix())
		if err := h.Email.SendPasswordReset(email, resetLink); err != nil {
			// Best-effort: the caller still gets the generic response
			log.Error("Failed to send reset email", zap.Error(err))
			prometheus.RecordNotification("email", "error")
		} else {
			prometheus.RecordNotification("email", "sent")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "if an account exists for this email, a reset link has been sent",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}
