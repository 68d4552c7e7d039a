//go:build !integration

package customer

import (
	"context"
	"errors"
	"marketingCRM/domain"
	"testing"
)

type fakeCustomerRepo struct {
	customers  map[uint]domain.Customer
	nextID     uint
	lastFilter domain.CustomerFilter
	total      int64
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uint]domain.Customer{}}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	for _, c := range f.customers {
		if c.Email == customer.Email {
			return domain.ErrEmailTaken
		}
	}
	f.nextID++
	customer.ID = f.nextID
	f.customers[customer.ID] = *customer
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id uint) (domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) FindPage(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int64, error) {
	f.lastFilter = filter
	return []domain.Customer{}, f.total, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	f.customers[customer.ID] = *customer
	return nil
}

func TestCreateCustomerDefaults(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.CreateCustomer(context.Background(), &domain.Customer{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an id to be assigned")
	}
	if created.Status != domain.CustomerStatusLead {
		t.Errorf("status = %q, want lead", created.Status)
	}
	if created.Demographics == nil || created.BehavioralData == nil || created.PurchaseHistory == nil {
		t.Error("JSON bags should default to empty values")
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	cases := []struct {
		name     string
		customer domain.Customer
	}{
		{"missing name", domain.Customer{Email: "a@example.com"}},
		{"missing email", domain.Customer{Name: "A"}},
		{"bad email", domain.Customer{Name: "A", Email: "not-an-email"}},
		{"display name email", domain.Customer{Name: "A", Email: "Ann Lee <ann@example.com>"}},
		{"bad status", domain.Customer{Name: "A", Email: "a@example.com", Status: "vip"}},
		{"engagement out of range", domain.Customer{Name: "A", Email: "a@example.com", EngagementScore: 101}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.customer
			_, err := svc.CreateCustomer(context.Background(), &c)
			if !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	if _, err := svc.CreateCustomer(context.Background(), &domain.Customer{Name: "A", Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.CreateCustomer(context.Background(), &domain.Customer{Name: "B", Email: "a@example.com"})
	if !errors.Is(err, domain.ErrEmailTaken) || !domain.IsValidation(err) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.CreateCustomer(context.Background(), &domain.Customer{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := domain.CustomerStatusCustomer
	demographics := map[string]any{"age": float64(30)}
	updated, err := svc.UpdateCustomer(context.Background(), created.ID, domain.CustomerPatch{Status: &status, Demographics: &demographics})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != status || updated.Demographics["age"] != float64(30) || updated.Name != "A" {
		t.Errorf("updated = %+v", updated)
	}

	bad := "gold"
	if _, err := svc.UpdateCustomer(context.Background(), created.ID, domain.CustomerPatch{Status: &bad}); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if repo.customers[created.ID].Status != status {
		t.Error("rejected update must not be stored")
	}

	display := "A <a@example.com>"
	if _, err := svc.UpdateCustomer(context.Background(), created.ID, domain.CustomerPatch{Email: &display}); !domain.IsValidation(err) {
		t.Errorf("expected validation error for display name email, got %v", err)
	}
	if repo.customers[created.ID].Email != "a@example.com" {
		t.Errorf("stored email = %q", repo.customers[created.ID].Email)
	}

	if _, err := svc.UpdateCustomer(context.Background(), 99, domain.CustomerPatch{Status: &status}); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestGetCustomersPagination(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.total = 41
	svc := NewCustomerService(repo)

	page, err := svc.GetCustomers(context.Background(), domain.CustomerFilter{Search: "  smith "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.PerPage != DefaultPerPage || repo.lastFilter.Search != "smith" {
		t.Errorf("filter = %+v", repo.lastFilter)
	}
	if page.Pages != 3 || page.Total != 41 || page.CurrentPage != 1 {
		t.Errorf("page = %+v", page)
	}

	if _, err := svc.GetCustomers(context.Background(), domain.CustomerFilter{Page: 2, PerPage: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.PerPage != MaxPerPage {
		t.Errorf("per_page = %d, want %d", repo.lastFilter.PerPage, MaxPerPage)
	}

	repo.total = 0
	page, _ = svc.GetCustomers(context.Background(), domain.CustomerFilter{})
	if page.Pages != 0 {
		t.Errorf("pages = %d for an empty table, want 0", page.Pages)
	}
}
