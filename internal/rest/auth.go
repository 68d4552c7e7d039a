package rest

import (
	"context"
	"errors"
	"marketingCRM/business/user"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.User, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
}

// CookieConfig describes the session cookie handed out at login.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService AuthService
	validator   *validator.Validate
	timeout     time.Duration
	cookie      CookieConfig
}

func NewAuthHandler(authService AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
		cookie:      cookie,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, u, err := h.authService.Login(ctx, req.Username, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to login", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	c.SetCookie(h.sessionCookie(token, int(h.cookie.TTL.Seconds())))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    u,
	})
}

// Logout ends the current session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if cookie, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.authService.Logout(ctx, cookie.Value); err != nil {
			logger.Error("Failed to logout", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	c.SetCookie(h.sessionCookie("", -1))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.authService.GetUserByID(ctx, userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
