//go:build !integration

package segment

import (
	"context"
	"errors"
	"marketingCRM/domain"
	"testing"

	"gorm.io/datatypes"
)

type fakeSegmentRepo struct {
	segments map[uint]domain.Segment
	nextID   uint
	counts   map[uint]int
}

func newFakeSegmentRepo() *fakeSegmentRepo {
	return &fakeSegmentRepo{segments: map[uint]domain.Segment{}, counts: map[uint]int{}}
}

func (f *fakeSegmentRepo) Create(ctx context.Context, segment *domain.Segment) error {
	f.nextID++
	segment.ID = f.nextID
	f.segments[segment.ID] = *segment
	return nil
}

func (f *fakeSegmentRepo) FindByID(ctx context.Context, id uint) (domain.Segment, error) {
	s, ok := f.segments[id]
	if !ok {
		return domain.Segment{}, domain.ErrSegmentNotFound
	}
	return s, nil
}

func (f *fakeSegmentRepo) FindAllActive(ctx context.Context) ([]domain.Segment, error) {
	var out []domain.Segment
	for id := uint(1); id <= f.nextID; id++ {
		if s, ok := f.segments[id]; ok && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSegmentRepo) Update(ctx context.Context, segment *domain.Segment) error {
	if _, ok := f.segments[segment.ID]; !ok {
		return domain.ErrSegmentNotFound
	}
	f.segments[segment.ID] = *segment
	return nil
}

func (f *fakeSegmentRepo) UpdateCustomerCount(ctx context.Context, id uint, count int) error {
	s, ok := f.segments[id]
	if !ok {
		return domain.ErrSegmentNotFound
	}
	s.CustomerCount = count
	f.segments[id] = s
	f.counts[id]++
	return nil
}

type fakeCustomerRepo struct {
	customers []domain.Customer
	err       error
}

func (f *fakeCustomerRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	return f.customers, f.err
}

func customersWithStatuses(statuses ...string) []domain.Customer {
	out := make([]domain.Customer, 0, len(statuses))
	for i, st := range statuses {
		out = append(out, domain.Customer{ID: uint(i + 1), Name: "c", Email: "c@example.com", Status: st})
	}
	return out
}

func leadCriteria() domain.SegmentCriteria {
	return domain.SegmentCriteria{
		Rules: []domain.Rule{{Field: "status", Operator: OpEq, Value: "lead"}},
		Match: domain.MatchAll,
	}
}

func TestCreateSegmentStoresCustomerCount(t *testing.T) {
	segRepo := newFakeSegmentRepo()
	custRepo := &fakeCustomerRepo{customers: customersWithStatuses("lead", "customer", "lead")}
	svc := NewSegmentService(segRepo, custRepo)

	created, err := svc.CreateSegment(context.Background(), &domain.Segment{
		Name:     "Leads",
		Criteria: datatypes.NewJSONType(leadCriteria()),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.CustomerCount != 2 {
		t.Errorf("customer_count = %d, want 2", created.CustomerCount)
	}
	if !created.IsActive {
		t.Error("new segment must be active")
	}
	if created.SegmentType != domain.SegmentTypeManual {
		t.Errorf("segment_type = %q, want manual", created.SegmentType)
	}
	if stored := segRepo.segments[created.ID]; stored.CustomerCount != 2 {
		t.Errorf("stored customer_count = %d, want 2", stored.CustomerCount)
	}
}

func TestCreateSegmentWithoutRulesCountsEveryone(t *testing.T) {
	svc := NewSegmentService(newFakeSegmentRepo(), &fakeCustomerRepo{customers: customersWithStatuses("lead", "customer", "prospect")})

	created, err := svc.CreateSegment(context.Background(), &domain.Segment{Name: "Everyone"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.CustomerCount != 3 {
		t.Errorf("customer_count = %d, want 3", created.CustomerCount)
	}
	if created.Criteria.Data().Match != domain.MatchAll || created.Criteria.Data().Rules == nil {
		t.Errorf("criteria not normalised: %+v", created.Criteria.Data())
	}
}

func TestCreateSegmentValidation(t *testing.T) {
	svc := NewSegmentService(newFakeSegmentRepo(), &fakeCustomerRepo{})

	if _, err := svc.CreateSegment(context.Background(), &domain.Segment{}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := svc.CreateSegment(context.Background(), &domain.Segment{Name: "x", SegmentType: "psychic"}); err == nil {
		t.Error("expected error for unknown segment type")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.CreateSegment(ctx, &domain.Segment{Name: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGetSegmentCustomersUnknownSegmentIsEmpty(t *testing.T) {
	svc := NewSegmentService(newFakeSegmentRepo(), &fakeCustomerRepo{customers: customersWithStatuses("lead")})

	customers, err := svc.GetSegmentCustomers(context.Background(), 404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customers == nil || len(customers) != 0 {
		t.Errorf("expected empty non-nil list, got %v", customers)
	}

	n, err := svc.CountMembers(context.Background(), 404)
	if err != nil || n != 0 {
		t.Errorf("CountMembers = %d, %v; want 0, nil", n, err)
	}
}

func TestSegmentMembershipIsLive(t *testing.T) {
	segRepo := newFakeSegmentRepo()
	custRepo := &fakeCustomerRepo{customers: customersWithStatuses("lead", "customer")}
	svc := NewSegmentService(segRepo, custRepo)

	created, err := svc.CreateSegment(context.Background(), &domain.Segment{
		Name:     "Leads",
		Criteria: datatypes.NewJSONType(leadCriteria()),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	custRepo.customers = customersWithStatuses("lead", "lead", "lead")

	members, err := svc.GetSegmentCustomers(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 3 {
		t.Errorf("live membership = %d, want 3", len(members))
	}

	// the snapshot only moves on refresh
	if got := segRepo.segments[created.ID].CustomerCount; got != 1 {
		t.Errorf("snapshot = %d before refresh, want 1", got)
	}
	refreshed, err := svc.RefreshSegment(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.CustomerCount != 3 {
		t.Errorf("refreshed count = %d, want 3", refreshed.CustomerCount)
	}
}

func TestUpdateSegmentRecountsWithNewCriteria(t *testing.T) {
	segRepo := newFakeSegmentRepo()
	svc := NewSegmentService(segRepo, &fakeCustomerRepo{customers: customersWithStatuses("lead", "customer", "customer")})

	created, err := svc.CreateSegment(context.Background(), &domain.Segment{
		Name:     "Leads",
		Criteria: datatypes.NewJSONType(leadCriteria()),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "Customers"
	criteria := domain.SegmentCriteria{
		Rules: []domain.Rule{{Field: "status", Operator: OpEq, Value: "customer"}},
		Match: domain.MatchAll,
	}
	updated, err := svc.UpdateSegment(context.Background(), created.ID, domain.SegmentPatch{Name: &name, Criteria: &criteria})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Customers" || updated.CustomerCount != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.UpdateSegment(context.Background(), 99, domain.SegmentPatch{Name: &name}); !errors.Is(err, domain.ErrSegmentNotFound) {
		t.Errorf("expected ErrSegmentNotFound, got %v", err)
	}

	empty := ""
	if _, err := svc.UpdateSegment(context.Background(), created.ID, domain.SegmentPatch{Name: &empty}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestGetAllSegmentsOnlyActive(t *testing.T) {
	segRepo := newFakeSegmentRepo()
	svc := NewSegmentService(segRepo, &fakeCustomerRepo{})

	for _, name := range []string{"a", "b"} {
		if _, err := svc.CreateSegment(context.Background(), &domain.Segment{Name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	inactive := false
	if _, err := svc.UpdateSegment(context.Background(), 2, domain.SegmentPatch{IsActive: &inactive}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments, err := svc.GetAllSegments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 || segments[0].Name != "a" {
		t.Errorf("segments = %+v", segments)
	}
}

func TestRefreshPropagatesCustomerLoadError(t *testing.T) {
	segRepo := newFakeSegmentRepo()
	segRepo.segments[1] = domain.Segment{ID: 1, Name: "x"}
	segRepo.nextID = 1

	svc := NewSegmentService(segRepo, &fakeCustomerRepo{err: errors.New("db down")})
	if _, err := svc.RefreshSegment(context.Background(), 1); err == nil {
		t.Error("expected error from customer repository")
	}
}
