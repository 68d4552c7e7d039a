package campaign

import (
	"context"
	"errors"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"marketingCRM/pkg/metrics"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

var tracer = otel.Tracer("marketingCRM/business/campaign")

var validCampaignTypes = map[string]bool{
	domain.CampaignTypeEmail:  true,
	domain.CampaignTypeSocial: true,
	domain.CampaignTypeAds:    true,
	domain.CampaignTypeSMS:    true,
}

var validStatuses = map[string]bool{
	domain.CampaignStatusDraft:     true,
	domain.CampaignStatusScheduled: true,
	domain.CampaignStatusActive:    true,
	domain.CampaignStatusPaused:    true,
	domain.CampaignStatusCompleted: true,
}

// CampaignRepository contract interface
type CampaignRepository interface {
	// CreateWithResult stores the campaign and its empty result together.
	CreateWithResult(ctx context.Context, campaign *domain.Campaign) error
	// FindByID loads the campaign with its segment and result.
	FindByID(ctx context.Context, id uint) (domain.Campaign, error)
	FindAll(ctx context.Context, status string) ([]domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	// SaveLaunch writes the launch only while the campaign is still a draft
	// and reports whether it did.
	SaveLaunch(ctx context.Context, campaign *domain.Campaign, result *domain.CampaignResult, activities []domain.CampaignActivity) (bool, error)
	// Transition moves the campaign to a new status when its current status
	// is from, or unconditionally when from is empty.
	Transition(ctx context.Context, id uint, from, to string, fields map[string]any) (bool, error)
}

type SegmentFinder interface {
	GetSegmentByID(ctx context.Context, id uint) (domain.Segment, error)
}

type AudienceCounter interface {
	CountMembers(ctx context.Context, segmentID uint) (int, error)
}

// EventPublisher hands domain events to the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type campaignService struct {
	campaignRepo CampaignRepository
	segments     SegmentFinder
	audience     AudienceCounter
	simulator    *Simulator
	publisher    EventPublisher
}

func NewCampaignService(
	campaignRepo CampaignRepository,
	segments SegmentFinder,
	audience AudienceCounter,
	simulator *Simulator,
	publisher EventPublisher,
) *campaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		segments:     segments,
		audience:     audience,
		simulator:    simulator,
		publisher:    publisher,
	}
}

func (s *campaignService) CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create campaign")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if strings.TrimSpace(campaign.Name) == "" {
		logger.Error("Invalid campaign data: name is required")
		return nil, domain.Invalid("campaign name is required")
	}
	if campaign.SegmentID == 0 {
		logger.Error("Invalid campaign data: segment_id is required")
		return nil, domain.Invalid("segment_id is required")
	}
	if campaign.CampaignType == "" {
		campaign.CampaignType = domain.CampaignTypeEmail
	}
	if !validCampaignTypes[campaign.CampaignType] {
		return nil, domain.Invalid("invalid campaign type")
	}
	if campaign.Budget < 0 {
		return nil, domain.Invalid("budget cannot be negative")
	}
	if campaign.CostPerSend < 0 {
		return nil, domain.Invalid("cost_per_send cannot be negative")
	}

	segment, err := s.checkSegment(ctx, campaign.SegmentID)
	if err != nil {
		return nil, err
	}

	campaign.Status = domain.CampaignStatusDraft
	if campaign.WorkflowSteps == nil {
		campaign.WorkflowSteps = datatypes.NewJSONSlice([]domain.WorkflowStep{})
	}

	if err := s.campaignRepo.CreateWithResult(ctx, campaign); err != nil {
		logger.Error("failed to create new campaign", err)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	campaign.Segment = &segment

	s.publish(ctx, domain.NewEvent(domain.EventCampaignCreated, map[string]any{
		"campaign_id": campaign.ID,
		"name":        campaign.Name,
		"type":        campaign.CampaignType,
		"budget":      campaign.Budget,
		"segment_id":  campaign.SegmentID,
	}))

	logger.Info("campaign created successfully", "campaign_id", campaign.ID)

	return campaign, nil
}

func (s *campaignService) GetAllCampaigns(ctx context.Context, status string) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all campaigns")
		return nil, fmt.Errorf("context error: %w", err)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, status)
	if err != nil {
		logger.Error("Failed to find all campaigns", err)
		return nil, err
	}

	return campaigns, nil
}

func (s *campaignService) GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get campaign by id")
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find campaign by id", err)
		return domain.Campaign{}, err
	}

	return campaign, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, id uint, patch domain.CampaignPatch) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating campaign")
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("campaign not found", err)
		return domain.Campaign{}, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Campaign{}, domain.Invalid("campaign name is required")
	}
	if patch.CampaignType != nil && !validCampaignTypes[*patch.CampaignType] {
		return domain.Campaign{}, domain.Invalid("invalid campaign type")
	}
	if patch.Status != nil && !validStatuses[*patch.Status] {
		return domain.Campaign{}, domain.Invalid("invalid campaign status")
	}
	// a launched campaign back in draft would be launched and simulated again
	if patch.Status != nil && *patch.Status == domain.CampaignStatusDraft &&
		campaign.Status != domain.CampaignStatusDraft && campaign.Result != nil && campaign.Result.TotalSent > 0 {
		return domain.Campaign{}, domain.Invalid("a launched campaign cannot return to draft")
	}
	if patch.Budget != nil && *patch.Budget < 0 {
		return domain.Campaign{}, domain.Invalid("budget cannot be negative")
	}
	if patch.CostPerSend != nil && *patch.CostPerSend < 0 {
		return domain.Campaign{}, domain.Invalid("cost_per_send cannot be negative")
	}
	if patch.SegmentID != nil && *patch.SegmentID != campaign.SegmentID {
		segment, err := s.checkSegment(ctx, *patch.SegmentID)
		if err != nil {
			return domain.Campaign{}, err
		}
		campaign.Segment = &segment
	}

	patch.Apply(&campaign)

	if err := s.campaignRepo.Update(ctx, &campaign); err != nil {
		logger.Error("failed to update campaign", err)
		return domain.Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}

	s.publish(ctx, domain.NewEvent(domain.EventCampaignUpdated, map[string]any{
		"campaign_id": campaign.ID,
		"name":        campaign.Name,
		"status":      campaign.Status,
		"updated_at":  campaign.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}))

	logger.Info("campaign updated success", "campaign_id", id)

	return campaign, nil
}

// LaunchCampaign activates a draft campaign and simulates its result.
// Launching anything but a draft returns the campaign unchanged.
func (s *campaignService) LaunchCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	ctx, span := tracer.Start(ctx, "campaign.Launch", trace.WithAttributes(attribute.Int("campaign.id", int(id))))
	defer span.End()

	if err := ctx.Err(); err != nil {
		logger.Error("context error when launching campaign")
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("campaign not found", err)
		return domain.Campaign{}, err
	}

	if campaign.Status != domain.CampaignStatusDraft {
		metrics.CampaignTransitions.WithLabelValues("launch", "noop").Inc()
		return campaign, nil
	}

	members, err := s.audience.CountMembers(ctx, campaign.SegmentID)
	if err != nil {
		logger.Error("failed to size campaign audience", err)
		return domain.Campaign{}, fmt.Errorf("failed to launch campaign: %w", err)
	}
	audience := s.simulator.Audience(members)

	result := domain.CampaignResult{CampaignID: campaign.ID}
	if campaign.Result != nil {
		result = *campaign.Result
	}
	s.simulator.Simulate(campaign, audience, &result)

	now := time.Now()
	campaign.Status = domain.CampaignStatusActive
	campaign.StartDate = &now

	applied, err := s.campaignRepo.SaveLaunch(ctx, &campaign, &result, launchActivities(campaign.ID, result))
	if err != nil {
		logger.Error("failed to save campaign launch", err)
		return domain.Campaign{}, fmt.Errorf("failed to launch campaign: %w", err)
	}

	if !applied {
		metrics.CampaignTransitions.WithLabelValues("launch", "noop").Inc()
		return s.campaignRepo.FindByID(ctx, id)
	}

	metrics.CampaignTransitions.WithLabelValues("launch", "applied").Inc()
	metrics.SimulatedAudience.Observe(float64(audience))
	span.SetAttributes(attribute.Int("campaign.audience", audience))

	logger.Info("campaign launched", "campaign_id", id, "audience", audience)

	return s.campaignRepo.FindByID(ctx, id)
}

func (s *campaignService) PauseCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	return s.transition(ctx, "pause", id, domain.CampaignStatusActive, domain.CampaignStatusPaused, nil)
}

// ResumeCampaign reactivates a paused campaign without simulating again.
func (s *campaignService) ResumeCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	return s.transition(ctx, "resume", id, domain.CampaignStatusPaused, domain.CampaignStatusActive, nil)
}

// CompleteCampaign ends a campaign from any state.
func (s *campaignService) CompleteCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	return s.transition(ctx, "complete", id, "", domain.CampaignStatusCompleted, map[string]any{
		"end_date": time.Now(),
	})
}

func (s *campaignService) GetCampaignStats(ctx context.Context, id uint) (domain.CampaignMetrics, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get campaign stats")
		return domain.CampaignMetrics{}, fmt.Errorf("context error: %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("campaign not found", err)
		return domain.CampaignMetrics{}, err
	}

	if campaign.Result == nil {
		logger.Error("campaign has no result row", "campaign_id", id)
		return domain.CampaignMetrics{}, domain.ErrResultNotFound
	}

	return campaign.Result.Metrics(), nil
}

func (s *campaignService) transition(ctx context.Context, action string, id uint, from, to string, fields map[string]any) (domain.Campaign, error) {
	ctx, span := tracer.Start(ctx, "campaign."+action, trace.WithAttributes(attribute.Int("campaign.id", int(id))))
	defer span.End()

	if err := ctx.Err(); err != nil {
		logger.Error("context error on campaign " + action)
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	if _, err := s.campaignRepo.FindByID(ctx, id); err != nil {
		logger.Error("campaign not found", err)
		return domain.Campaign{}, err
	}

	applied, err := s.campaignRepo.Transition(ctx, id, from, to, fields)
	if err != nil {
		logger.Error("failed to "+action+" campaign", err)
		return domain.Campaign{}, fmt.Errorf("failed to %s campaign: %w", action, err)
	}

	outcome := "noop"
	if applied {
		outcome = "applied"
		logger.Info("campaign "+action+" applied", "campaign_id", id, "status", to)
	}
	metrics.CampaignTransitions.WithLabelValues(action, outcome).Inc()

	return s.campaignRepo.FindByID(ctx, id)
}

func (s *campaignService) checkSegment(ctx context.Context, segmentID uint) (domain.Segment, error) {
	segment, err := s.segments.GetSegmentByID(ctx, segmentID)
	if err != nil {
		if errors.Is(err, domain.ErrSegmentNotFound) {
			return domain.Segment{}, domain.Invalid(fmt.Sprintf("segment %d does not exist", segmentID))
		}
		return domain.Segment{}, err
	}
	return segment, nil
}

// publish never fails the caller; broker problems are logged and counted.
func (s *campaignService) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", err, "event", event.Event)
		metrics.EventsPublished.WithLabelValues(event.Event, "error").Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues(event.Event, "ok").Inc()
}

func launchActivities(campaignID uint, r domain.CampaignResult) []domain.CampaignActivity {
	counts := []struct {
		activity string
		count    int
	}{
		{domain.ActivitySent, r.TotalSent},
		{domain.ActivityOpened, r.Opens},
		{domain.ActivityClicked, r.Clicks},
		{domain.ActivityConverted, r.Conversions},
	}

	activities := make([]domain.CampaignActivity, 0, len(counts))
	for _, c := range counts {
		activities = append(activities, domain.CampaignActivity{
			CampaignID:   campaignID,
			ActivityType: c.activity,
			ActivityData: datatypes.JSONMap{"count": c.count},
		})
	}
	return activities
}
