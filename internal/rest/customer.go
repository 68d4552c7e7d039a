package rest

import (
	"context"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type CustomerService interface {
	GetCustomers(ctx context.Context, filter domain.CustomerFilter) (domain.CustomerPage, error)
	GetCustomerByID(ctx context.Context, id uint) (domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, patch domain.CustomerPatch) (domain.Customer, error)
}

type CustomerHandler struct {
	customerService CustomerService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type CustomerCreateRequest struct {
	Name           string         `json:"name" validate:"required"`
	Email          string         `json:"email" validate:"required,email"`
	Phone          *string        `json:"phone"`
	Demographics   map[string]any `json:"demographics"`
	BehavioralData map[string]any `json:"behavioral_data"`
	Status         string         `json:"status"`
	LeadSource     *string        `json:"lead_source"`
}

type CustomerUpdateRequest struct {
	Name            *string            `json:"name"`
	Email           *string            `json:"email"`
	Phone           *string            `json:"phone"`
	Demographics    *map[string]any    `json:"demographics"`
	PurchaseHistory *[]domain.Purchase `json:"purchase_history"`
	BehavioralData  *map[string]any    `json:"behavioral_data"`
	TotalSpent      *float64           `json:"total_spent"`
	LifetimeValue   *float64           `json:"lifetime_value"`
	EngagementScore *int               `json:"engagement_score"`
	Status          *string            `json:"status"`
	LeadSource      *string            `json:"lead_source"`
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}

func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.customerService.GetCustomers(ctx, domain.CustomerFilter{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 0),
		Status:  c.QueryParam("status"),
		Search:  c.QueryParam("search"),
	})
	if err != nil {
		logger.Error("Failed to get customers", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

func (h *CustomerHandler) GetCustomerByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid customer ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	customer, err := h.customerService.GetCustomerByID(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req CustomerCreateRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate customer", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "name and email are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	customer := &domain.Customer{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Demographics:   datatypes.JSONMap(req.Demographics),
		BehavioralData: datatypes.JSONMap(req.BehavioralData),
		Status:         req.Status,
		LeadSource:     req.LeadSource,
	}

	created, err := h.customerService.CreateCustomer(ctx, customer)
	if err != nil {
		logger.Error("Failed to create customer", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid customer ID"})
	}

	var req CustomerUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	customer, err := h.customerService.UpdateCustomer(ctx, id, domain.CustomerPatch{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Demographics:    req.Demographics,
		PurchaseHistory: req.PurchaseHistory,
		BehavioralData:  req.BehavioralData,
		TotalSpent:      req.TotalSpent,
		LifetimeValue:   req.LifetimeValue,
		EngagementScore: req.EngagementScore,
		Status:          req.Status,
		LeadSource:      req.LeadSource,
	})
	if err != nil {
		logger.Error("Failed to update customer", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}
