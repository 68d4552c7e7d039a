package rest

import (
	"context"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type DemoService interface {
	Initialize(ctx context.Context) (bool, error)
}

type DemoHandler struct {
	demoService DemoService
	timeout     time.Duration
}

func NewDemoHandler(demoService DemoService) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
		timeout:     30 * time.Second,
	}
}

func (h *DemoHandler) Initialize(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.demoService.Initialize(ctx)
	if err != nil {
		logger.Error("Failed to initialize demo data", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if !created {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Demo data already exists",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Demo data initialized successfully",
	})
}
