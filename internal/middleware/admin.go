package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/audit"
	"satshop-api/internal/model"
	"satshop-api/internal/ratelimit"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// AdminGate re-checks the allow-list on every protected request. There is no
// cached admin flag: revoking a row in admin_users takes effect on the next
// request. Access attempts are rate-limited per client fingerprint and every
// decision lands in the security audit log.
func AdminGate(limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			requestID := RequestIDFromContext(c)

			key := ClientFingerprint(c)
			if !limiter.IsAllowed(key) {
				remaining := limiter.RemainingLockTime(key)
				log.Warn("Admin access rate limited",
					zap.String("fingerprint", key),
					zap.Duration("remaining", remaining))
				prometheus.RecordRateLimitDenial("admin")
				audit.Record(database.GetDB(), audit.Event{
					Action:    "admin_access_rate_limited",
					Resource:  c.Path(),
					Details:   fmt.Sprintf("locked for %s", remaining),
					Severity:  model.SeverityHigh,
					RequestID: requestID,
				})
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":               "too many attempts",
					"retry_after_seconds": int(remaining.Seconds()),
				})
			}

			userID, ok := UserIDFromContext(c)
			if !ok {
				log.Warn("Admin access without session")
				prometheus.RecordAdminDecision("denied_no_session")
				audit.Record(database.GetDB(), audit.Event{
					Action:    "admin_access_denied",
					Resource:  c.Path(),
					Details:   "no authenticated session",
					Severity:  model.SeverityMedium,
					RequestID: requestID,
				})
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			var adminUser model.AdminUser
			result := database.GetDB().Where("user_id = ?", userID).First(&adminUser)
			if result.Error != nil {
				log.Warn("Admin access denied",
					zap.Uint("user_id", userID),
					zap.Error(result.Error))
				prometheus.RecordAdminDecision("denied_not_admin")
				audit.Record(database.GetDB(), audit.Event{
					Action:    "admin_access_denied",
					Resource:  c.Path(),
					Details:   "user not on admin allow-list",
					Severity:  model.SeverityHigh,
					UserID:    &userID,
					RequestID: requestID,
				})
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}

			prometheus.RecordAdminDecision("authorized")
			return next(c)
		}
	}
}
