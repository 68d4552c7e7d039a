package customer

import (
	"context"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var validate = validator.New()

var validStatuses = map[string]bool{
	domain.CustomerStatusLead:     true,
	domain.CustomerStatusProspect: true,
	domain.CustomerStatusCustomer: true,
	domain.CustomerStatusChurned:  true,
}

// CustomerRepository contract interface
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id uint) (domain.Customer, error)
	FindPage(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int64, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type customerService struct {
	customerRepo CustomerRepository
}

func NewCustomerService(customerRepo CustomerRepository) *customerService {
	return &customerService{
		customerRepo: customerRepo,
	}
}

func (s *customerService) GetCustomers(ctx context.Context, filter domain.CustomerFilter) (domain.CustomerPage, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing customers")
		return domain.CustomerPage{}, fmt.Errorf("context error: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = DefaultPerPage
	}
	if filter.PerPage > MaxPerPage {
		filter.PerPage = MaxPerPage
	}
	filter.Search = strings.TrimSpace(filter.Search)

	customers, total, err := s.customerRepo.FindPage(ctx, filter)
	if err != nil {
		logger.Error("Failed to list customers", err)
		return domain.CustomerPage{}, err
	}

	return domain.CustomerPage{
		Customers:   customers,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(filter.PerPage))),
		CurrentPage: filter.Page,
	}, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id uint) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get customer by id")
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find customer by id", err)
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create customer")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateCustomer(customer); err != nil {
		logger.Error("Invalid customer data", err)
		return nil, err
	}

	if customer.Status == "" {
		customer.Status = domain.CustomerStatusLead
	}
	if customer.Demographics == nil {
		customer.Demographics = datatypes.JSONMap{}
	}
	if customer.BehavioralData == nil {
		customer.BehavioralData = datatypes.JSONMap{}
	}
	if customer.PurchaseHistory == nil {
		customer.PurchaseHistory = datatypes.NewJSONSlice([]domain.Purchase{})
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		logger.Error("failed to create new customer", err)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	logger.Info("customer created successfully", "customer_id", customer.ID)

	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, patch domain.CustomerPatch) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating customer")
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("customer not found", err)
		return domain.Customer{}, err
	}

	patch.Apply(&customer)

	if err := validateCustomer(&customer); err != nil {
		logger.Error("Invalid customer update", err)
		return domain.Customer{}, err
	}

	if err := s.customerRepo.Update(ctx, &customer); err != nil {
		logger.Error("failed to update customer", err)
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	logger.Info("customer updated success", "customer_id", id)

	return customer, nil
}

func validateCustomer(c *domain.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Invalid("customer name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return domain.Invalid("customer email is required")
	}
	if err := validate.Var(c.Email, "email"); err != nil {
		return domain.Invalid("invalid email address")
	}
	if c.Status != "" && !validStatuses[c.Status] {
		return domain.Invalid("invalid customer status")
	}
	if c.EngagementScore < 0 || c.EngagementScore > 100 {
		return domain.Invalid("engagement score must be between 0 and 100")
	}
	return nil
}
