package middleware

import (
	"context"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	jsonres "marketingCRM/pkg/response"

	"github.com/labstack/echo/v4"
)

// SessionValidator resolves a session cookie value to its live session.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (domain.Session, error)
}

// SessionAuth requires a valid session cookie and exposes the session owner
// as user_id, role and session_id on the echo context.
func SessionAuth(validator SessionValidator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Authentication required", nil,
				))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			session, err := validator.ValidateSession(ctx, cookie.Value)
			if err != nil {
				logger.Warn("Rejected session", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Session expired or invalid", nil,
				))
			}

			c.Set("user_id", session.UserID)
			c.Set("role", session.Role)
			c.Set("session_id", session.ID)

			return next(c)
		}
	}
}
