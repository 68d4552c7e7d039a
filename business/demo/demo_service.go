package demo

import (
	"context"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"marketingCRM/pkg/random"

	"gorm.io/datatypes"
)

type CustomerRepository interface {
	Exists(ctx context.Context) (bool, error)
	CreateBatch(ctx context.Context, customers []domain.Customer) error
}

type UserService interface {
	UserExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, username, password string, email *string, role string) (domain.User, error)
}

type SegmentService interface {
	CreateSegment(ctx context.Context, segment *domain.Segment) (*domain.Segment, error)
}

type CampaignService interface {
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	LaunchCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	CompleteCampaign(ctx context.Context, id uint) (domain.Campaign, error)
}

// Credentials of the demo administrator.
type Credentials struct {
	Username string
	Password string
}

type demoService struct {
	customerRepo CustomerRepository
	users        UserService
	segments     SegmentService
	campaigns    CampaignService
	rng          random.Source
	fixture      Fixture
	admin        Credentials
	costPerSend  float64
}

func NewDemoService(
	customerRepo CustomerRepository,
	users UserService,
	segments SegmentService,
	campaigns CampaignService,
	rng random.Source,
	fixture Fixture,
	admin Credentials,
	costPerSend float64,
) *demoService {
	return &demoService{
		customerRepo: customerRepo,
		users:        users,
		segments:     segments,
		campaigns:    campaigns,
		rng:          rng,
		fixture:      fixture,
		admin:        admin,
		costPerSend:  costPerSend,
	}
}

// Initialize seeds the demo data set into an empty database and reports
// whether it did. Any existing customer means the data is already there.
func (s *demoService) Initialize(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when initializing demo data")
		return false, fmt.Errorf("context error: %w", err)
	}

	exists, err := s.customerRepo.Exists(ctx)
	if err != nil {
		logger.Error("Failed to check for existing customers", err)
		return false, err
	}
	if exists {
		logger.Info("demo data already present")
		return false, nil
	}

	if err := s.seedAdmin(ctx); err != nil {
		return false, err
	}

	customers := GenerateCustomers(s.rng, s.fixture.Customers, s.fixture.Customers.Count)
	if err := s.customerRepo.CreateBatch(ctx, customers); err != nil {
		logger.Error("Failed to create sample customers", err)
		return false, fmt.Errorf("failed to create sample customers: %w", err)
	}

	segmentIDs := make(map[string]uint, len(s.fixture.Segments))
	for _, sf := range s.fixture.Segments {
		created, err := s.segments.CreateSegment(ctx, &domain.Segment{
			Name:        sf.Name,
			Description: sf.Description,
			SegmentType: sf.SegmentType,
			Criteria:    datatypes.NewJSONType(sf.Criteria),
		})
		if err != nil {
			logger.Error("Failed to create sample segment", err, "segment", sf.Name)
			return false, fmt.Errorf("failed to create segment %q: %w", sf.Name, err)
		}
		segmentIDs[sf.Key] = created.ID
	}

	for _, cf := range s.fixture.Campaigns {
		if err := s.seedCampaign(ctx, cf, segmentIDs[cf.Segment]); err != nil {
			return false, err
		}
	}

	logger.Info("demo data initialized", "customers", len(customers), "segments", len(segmentIDs), "campaigns", len(s.fixture.Campaigns))

	return true, nil
}

func (s *demoService) seedAdmin(ctx context.Context) error {
	exists, err := s.users.UserExists(ctx, s.admin.Username)
	if err != nil {
		logger.Error("Failed to look up demo admin", err)
		return err
	}
	if exists {
		return nil
	}

	email := s.fixture.Admin.Email
	if _, err := s.users.CreateUser(ctx, s.admin.Username, s.admin.Password, &email, s.fixture.Admin.Role); err != nil {
		logger.Error("Failed to create demo admin", err)
		return fmt.Errorf("failed to create demo admin: %w", err)
	}
	return nil
}

func (s *demoService) seedCampaign(ctx context.Context, cf CampaignFixture, segmentID uint) error {
	campaign, err := s.campaigns.CreateCampaign(ctx, &domain.Campaign{
		Name:         cf.Name,
		Description:  cf.Description,
		CampaignType: cf.CampaignType,
		Subject:      cf.Subject,
		Content:      cf.Content,
		SegmentID:    segmentID,
		Budget:       cf.Budget,
		CostPerSend:  s.costPerSend,
	})
	if err != nil {
		logger.Error("Failed to create sample campaign", err, "campaign", cf.Name)
		return fmt.Errorf("failed to create campaign %q: %w", cf.Name, err)
	}

	for _, step := range cf.Lifecycle {
		switch step {
		case "launch":
			_, err = s.campaigns.LaunchCampaign(ctx, campaign.ID)
		case "complete":
			_, err = s.campaigns.CompleteCampaign(ctx, campaign.ID)
		default:
			err = fmt.Errorf("unknown lifecycle step %q", step)
		}
		if err != nil {
			logger.Error("Failed to advance sample campaign", err, "campaign", cf.Name, "step", step)
			return fmt.Errorf("failed to %s campaign %q: %w", step, cf.Name, err)
		}
	}

	return nil
}
