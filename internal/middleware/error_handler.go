package middleware

import (
	"errors"
	"marketingCRM/pkg/logger"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// ErrorHandler answers errors that escaped the handlers. Echo's own HTTP
// errors keep their status; anything else is an internal error.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := he.Message
		if m, ok := message.(string); ok {
			message = map[string]string{"message": m}
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, message)
		}
		if err != nil {
			logger.Error("Failed to write error response", err)
		}
		return
	}

	logger.Error("Unhandled error", err, "path", c.Path())
	if err := c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
