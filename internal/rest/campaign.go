package rest

import (
	"context"
	"marketingCRM/business/campaign"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type CampaignService interface {
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	GetAllCampaigns(ctx context.Context, status string) ([]domain.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id uint, patch domain.CampaignPatch) (domain.Campaign, error)
	LaunchCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	PauseCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	ResumeCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	CompleteCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	GetCampaignStats(ctx context.Context, id uint) (domain.CampaignMetrics, error)
}

type CampaignHandler struct {
	campaignService    CampaignService
	validator          *validator.Validate
	timeout            time.Duration
	defaultCostPerSend float64
}

func NewCampaignHandler(campaignService CampaignService, defaultCostPerSend float64) *CampaignHandler {
	return &CampaignHandler{
		campaignService:    campaignService,
		validator:          validator.New(),
		timeout:            10 * time.Second,
		defaultCostPerSend: defaultCostPerSend,
	}
}

type CampaignCreateRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   string                `json:"description"`
	CampaignType  string                `json:"campaign_type" validate:"omitempty,oneof=email social ads sms"`
	Subject       string                `json:"subject"`
	Content       string                `json:"content"`
	SegmentID     uint                  `json:"segment_id" validate:"required"`
	ScheduleTime  *string               `json:"schedule_time"`
	Budget        float64               `json:"budget" validate:"min=0"`
	CostPerSend   *float64              `json:"cost_per_send" validate:"omitempty,min=0"`
	WorkflowSteps []domain.WorkflowStep `json:"workflow_steps" validate:"dive"`
}

type CampaignUpdateRequest struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	CampaignType  *string                `json:"campaign_type"`
	Subject       *string                `json:"subject"`
	Content       *string                `json:"content"`
	SegmentID     *uint                  `json:"segment_id"`
	Status        *string                `json:"status"`
	ScheduleTime  *string                `json:"schedule_time"`
	Budget        *float64               `json:"budget"`
	CostPerSend   *float64               `json:"cost_per_send"`
	WorkflowSteps *[]domain.WorkflowStep `json:"workflow_steps"`
}

// CampaignResponse is a campaign with the name of the segment it targets.
type CampaignResponse struct {
	domain.Campaign
	SegmentName *string `json:"segment_name"`
}

func toCampaignResponse(c domain.Campaign) CampaignResponse {
	return CampaignResponse{Campaign: c, SegmentName: c.SegmentName()}
}

func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	var req CampaignCreateRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate campaign", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var schedule *time.Time
	if req.ScheduleTime != nil {
		var err error
		if schedule, err = campaign.ParseScheduleTime(*req.ScheduleTime); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
	}

	costPerSend := h.defaultCostPerSend
	if req.CostPerSend != nil {
		costPerSend = *req.CostPerSend
	}

	steps := req.WorkflowSteps
	if steps == nil {
		steps = []domain.WorkflowStep{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.campaignService.CreateCampaign(ctx, &domain.Campaign{
		Name:          req.Name,
		Description:   req.Description,
		CampaignType:  req.CampaignType,
		Subject:       req.Subject,
		Content:       req.Content,
		SegmentID:     req.SegmentID,
		ScheduleTime:  schedule,
		Budget:        req.Budget,
		CostPerSend:   costPerSend,
		WorkflowSteps: datatypes.NewJSONSlice(steps),
	})
	if err != nil {
		logger.Error("Failed to create campaign", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, toCampaignResponse(*created))
}

func (h *CampaignHandler) GetAllCampaigns(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaigns, err := h.campaignService.GetAllCampaigns(ctx, c.QueryParam("status"))
	if err != nil {
		logger.Error("Failed to get campaigns", err)
		return errorJSON(c, err)
	}

	res := make([]CampaignResponse, 0, len(campaigns))
	for _, cp := range campaigns {
		res = append(res, toCampaignResponse(cp))
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CampaignHandler) GetCampaignByID(c echo.Context) error {
	return h.byID(c, h.campaignService.GetCampaignByID)
}

func (h *CampaignHandler) UpdateCampaign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign ID"})
	}

	var req CampaignUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	patch := domain.CampaignPatch{
		Name:          req.Name,
		Description:   req.Description,
		CampaignType:  req.CampaignType,
		Subject:       req.Subject,
		Content:       req.Content,
		SegmentID:     req.SegmentID,
		Status:        req.Status,
		Budget:        req.Budget,
		CostPerSend:   req.CostPerSend,
		WorkflowSteps: req.WorkflowSteps,
	}
	if req.ScheduleTime != nil {
		if patch.ScheduleTime, err = campaign.ParseScheduleTime(*req.ScheduleTime); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.campaignService.UpdateCampaign(ctx, id, patch)
	if err != nil {
		logger.Error("Failed to update campaign", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, toCampaignResponse(updated))
}

func (h *CampaignHandler) LaunchCampaign(c echo.Context) error {
	return h.byID(c, h.campaignService.LaunchCampaign)
}

func (h *CampaignHandler) PauseCampaign(c echo.Context) error {
	return h.byID(c, h.campaignService.PauseCampaign)
}

func (h *CampaignHandler) ResumeCampaign(c echo.Context) error {
	return h.byID(c, h.campaignService.ResumeCampaign)
}

func (h *CampaignHandler) CompleteCampaign(c echo.Context) error {
	return h.byID(c, h.campaignService.CompleteCampaign)
}

func (h *CampaignHandler) GetCampaignStats(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.campaignService.GetCampaignStats(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// byID runs a single-campaign action and answers with the resulting campaign.
func (h *CampaignHandler) byID(c echo.Context, action func(context.Context, uint) (domain.Campaign, error)) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cp, err := action(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, toCampaignResponse(cp))
}
