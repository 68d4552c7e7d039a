package segment

import (
	"context"
	"errors"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"marketingCRM/pkg/metrics"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

var tracer = otel.Tracer("marketingCRM/business/segment")

var validSegmentTypes = map[string]bool{
	domain.SegmentTypeManual:      true,
	domain.SegmentTypeDemographic: true,
	domain.SegmentTypeBehavioral:  true,
	domain.SegmentTypePurchase:    true,
}

// SegmentRepository contract interface
type SegmentRepository interface {
	Create(ctx context.Context, segment *domain.Segment) error
	FindByID(ctx context.Context, id uint) (domain.Segment, error)
	FindAllActive(ctx context.Context) ([]domain.Segment, error)
	Update(ctx context.Context, segment *domain.Segment) error
	UpdateCustomerCount(ctx context.Context, id uint, count int) error
}

// CustomerRepository is the read side the evaluator scans.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]domain.Customer, error)
}

type segmentService struct {
	segmentRepo  SegmentRepository
	customerRepo CustomerRepository
}

func NewSegmentService(segmentRepo SegmentRepository, customerRepo CustomerRepository) *segmentService {
	return &segmentService{
		segmentRepo:  segmentRepo,
		customerRepo: customerRepo,
	}
}

func (s *segmentService) CreateSegment(ctx context.Context, segment *domain.Segment) (*domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create segment")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if segment.Name == "" {
		logger.Error("Invalid segment data: name is required")
		return nil, domain.Invalid("segment name is required")
	}

	if segment.SegmentType == "" {
		segment.SegmentType = domain.SegmentTypeManual
	}
	if !validSegmentTypes[segment.SegmentType] {
		return nil, domain.Invalid("invalid segment type")
	}

	segment.IsActive = true
	segment.Criteria = datatypes.NewJSONType(normalize(segment.Criteria.Data()))

	if err := s.segmentRepo.Create(ctx, segment); err != nil {
		logger.Error("failed to create new segment", err)
		return nil, fmt.Errorf("failed to create segment: %w", err)
	}

	refreshed, err := s.RefreshSegment(ctx, segment.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("segment created successfully", "segment_id", segment.ID, "customer_count", refreshed.CustomerCount)

	return &refreshed, nil
}

func (s *segmentService) GetAllSegments(ctx context.Context) ([]domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all segments")
		return nil, fmt.Errorf("context error: %w", err)
	}

	segments, err := s.segmentRepo.FindAllActive(ctx)
	if err != nil {
		logger.Error("Failed to find all segments", err)
		return nil, err
	}

	return segments, nil
}

func (s *segmentService) GetSegmentByID(ctx context.Context, id uint) (domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get segment by id")
		return domain.Segment{}, fmt.Errorf("context error: %w", err)
	}

	segment, err := s.segmentRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find segment", err)
		return domain.Segment{}, err
	}

	return segment, nil
}

func (s *segmentService) UpdateSegment(ctx context.Context, id uint, patch domain.SegmentPatch) (domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating segment")
		return domain.Segment{}, fmt.Errorf("context error: %w", err)
	}

	segment, err := s.segmentRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("segment not found", err)
		return domain.Segment{}, err
	}

	if patch.Name != nil && *patch.Name == "" {
		return domain.Segment{}, domain.Invalid("segment name is required")
	}
	if patch.SegmentType != nil && !validSegmentTypes[*patch.SegmentType] {
		return domain.Segment{}, domain.Invalid("invalid segment type")
	}

	patch.Apply(&segment)

	if err := s.segmentRepo.Update(ctx, &segment); err != nil {
		logger.Error("failed to update segment", err)
		return domain.Segment{}, fmt.Errorf("failed to update segment: %w", err)
	}

	return s.RefreshSegment(ctx, id)
}

// GetSegmentCustomers evaluates every customer against the segment criteria.
// An unknown segment has no members.
func (s *segmentService) GetSegmentCustomers(ctx context.Context, id uint) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	segment, err := s.segmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSegmentNotFound) {
			return []domain.Customer{}, nil
		}
		logger.Error("Failed to find segment", err)
		return nil, err
	}

	return s.members(ctx, segment)
}

// CountMembers is the audience size of a segment.
func (s *segmentService) CountMembers(ctx context.Context, id uint) (int, error) {
	customers, err := s.GetSegmentCustomers(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(customers), nil
}

// RefreshSegment recomputes and stores the customer_count snapshot only.
func (s *segmentService) RefreshSegment(ctx context.Context, id uint) (domain.Segment, error) {
	ctx, span := tracer.Start(ctx, "segment.Refresh")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return domain.Segment{}, fmt.Errorf("context error: %w", err)
	}

	segment, err := s.segmentRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("segment not found", err)
		return domain.Segment{}, err
	}

	start := time.Now()
	customers, err := s.members(ctx, segment)
	if err != nil {
		return domain.Segment{}, err
	}
	metrics.SegmentRefreshDuration.Observe(time.Since(start).Seconds())

	if err := s.segmentRepo.UpdateCustomerCount(ctx, id, len(customers)); err != nil {
		logger.Error("failed to store segment customer count", err)
		return domain.Segment{}, fmt.Errorf("failed to refresh segment: %w", err)
	}

	segment.CustomerCount = len(customers)
	span.SetAttributes(
		attribute.Int("segment.id", int(id)),
		attribute.Int("segment.customer_count", segment.CustomerCount),
	)

	return segment, nil
}

func (s *segmentService) members(ctx context.Context, segment domain.Segment) ([]domain.Customer, error) {
	all, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load customers for segment evaluation", err)
		return nil, err
	}

	criteria := segment.Criteria.Data()
	matching := make([]domain.Customer, 0)
	for _, c := range all {
		if Matches(c, criteria) {
			matching = append(matching, c)
		}
	}

	return matching, nil
}
