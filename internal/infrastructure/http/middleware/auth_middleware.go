package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/pkg/jwt"
)

const (
	// ServiceContextKey is the echo context key for the calling service name
	ServiceContextKey = "service"
	// ClaimsContextKey is the echo context key for the validated claims
	ClaimsContextKey = "claims"
)

// TokenValidator validates service tokens
type TokenValidator interface {
	ValidateServiceToken(token string) (*jwt.Claims, error)
}

// EchoServiceAuth returns an Echo middleware that validates the service JWT
// and sets "service" and "claims" into the Echo context
func EchoServiceAuth(validator TokenValidator, scope string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if token == "" {
				return respondError(c, apperrors.ErrUnauthenticated())
			}

			claims, err := validator.ValidateServiceToken(token)
			if err != nil {
				logger.Warn("🔒 Rejected service token",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				return respondError(c, apperrors.ErrUnauthenticated().WithDetail("reason", "invalid or expired token"))
			}

			if scope != "" && claims.Scope != scope {
				return respondError(c, apperrors.ErrPermissionDenied(scope))
			}

			c.Set(ServiceContextKey, claims.Subject)
			c.Set(ClaimsContextKey, claims)

			return next(c)
		}
	}
}

// GetService retrieves the calling service from the Echo context
func GetService(c echo.Context) (string, bool) {
	service, ok := c.Get(ServiceContextKey).(string)
	return service, ok
}

// Helper functions

func extractToken(r *http.Request) string {
	// Expected format: "Bearer <token>"
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// respondError writes the same body shape as the API handlers
func respondError(c echo.Context, appErr apperrors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code.String(),
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
