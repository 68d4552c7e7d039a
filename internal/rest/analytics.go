package rest

import (
	"context"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	GetOverview(ctx context.Context) (domain.AnalyticsOverview, error)
	GetROIReport(ctx context.Context) ([]domain.CampaignROI, error)
	GetFunnel(ctx context.Context) (domain.Funnel, error)
	GetSegmentPerformance(ctx context.Context) ([]domain.SegmentPerformance, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          10 * time.Second,
	}
}

func (h *AnalyticsHandler) GetOverview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	overview, err := h.analyticsService.GetOverview(ctx)
	if err != nil {
		logger.Error("Failed to build analytics overview", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetROIReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.analyticsService.GetROIReport(ctx)
	if err != nil {
		logger.Error("Failed to build ROI report", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"campaigns": report,
	})
}

func (h *AnalyticsHandler) GetFunnel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	funnel, err := h.analyticsService.GetFunnel(ctx)
	if err != nil {
		logger.Error("Failed to build funnel", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, funnel)
}

func (h *AnalyticsHandler) GetSegmentPerformance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segments, err := h.analyticsService.GetSegmentPerformance(ctx)
	if err != nil {
		logger.Error("Failed to build segment performance", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"segments": segments,
	})
}
