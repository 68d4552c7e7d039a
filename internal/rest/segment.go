package rest

import (
	"context"
	"encoding/json"
	"marketingCRM/business/segment"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

// maxSegmentCustomers caps the members listed by GET /segments/:id/customers.
const maxSegmentCustomers = 100

type SegmentService interface {
	CreateSegment(ctx context.Context, segment *domain.Segment) (*domain.Segment, error)
	GetAllSegments(ctx context.Context) ([]domain.Segment, error)
	GetSegmentByID(ctx context.Context, id uint) (domain.Segment, error)
	UpdateSegment(ctx context.Context, id uint, patch domain.SegmentPatch) (domain.Segment, error)
	GetSegmentCustomers(ctx context.Context, id uint) ([]domain.Customer, error)
	RefreshSegment(ctx context.Context, id uint) (domain.Segment, error)
}

type SegmentHandler struct {
	segmentService SegmentService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewSegmentHandler(segmentService SegmentService) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type SegmentCreateRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Criteria    json.RawMessage `json:"criteria"`
	SegmentType string          `json:"segment_type"`
}

type SegmentUpdateRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Criteria    json.RawMessage `json:"criteria"`
	SegmentType *string         `json:"segment_type"`
	IsActive    *bool           `json:"is_active"`
}

func (h *SegmentHandler) CreateSegment(c echo.Context) error {
	var req SegmentCreateRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate segment", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.segmentService.CreateSegment(ctx, &domain.Segment{
		Name:        req.Name,
		Description: req.Description,
		Criteria:    datatypes.NewJSONType(segment.ParseCriteria(req.Criteria)),
		SegmentType: req.SegmentType,
		IsActive:    true,
	})
	if err != nil {
		logger.Error("Failed to create segment", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *SegmentHandler) GetAllSegments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segments, err := h.segmentService.GetAllSegments(ctx)
	if err != nil {
		logger.Error("Failed to get segments", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, segments)
}

func (h *SegmentHandler) GetSegmentByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid segment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	s, err := h.segmentService.GetSegmentByID(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SegmentHandler) UpdateSegment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid segment ID"})
	}

	var req SegmentUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	patch := domain.SegmentPatch{
		Name:        req.Name,
		Description: req.Description,
		SegmentType: req.SegmentType,
		IsActive:    req.IsActive,
	}
	if len(req.Criteria) > 0 {
		criteria := segment.ParseCriteria(req.Criteria)
		patch.Criteria = &criteria
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.segmentService.UpdateSegment(ctx, id, patch)
	if err != nil {
		logger.Error("Failed to update segment", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// GetSegmentCustomers lists live members. An unknown segment has none.
func (h *SegmentHandler) GetSegmentCustomers(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid segment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	customers, err := h.segmentService.GetSegmentCustomers(ctx, id)
	if err != nil {
		logger.Error("Failed to evaluate segment", err)
		return errorJSON(c, err)
	}

	count := len(customers)
	if count > maxSegmentCustomers {
		customers = customers[:maxSegmentCustomers]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"segment_id": id,
		"count":      count,
		"customers":  customers,
	})
}

func (h *SegmentHandler) RefreshSegment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid segment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	s, err := h.segmentService.RefreshSegment(ctx, id)
	if err != nil {
		logger.Error("Failed to refresh segment", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, s)
}
