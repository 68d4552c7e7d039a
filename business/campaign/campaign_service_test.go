//go:build !integration

package campaign

import (
	"context"
	"errors"
	"marketingCRM/domain"
	"testing"
	"time"
)

type fakeCampaignRepo struct {
	campaigns  map[uint]domain.Campaign
	results    map[uint]domain.CampaignResult
	activities []domain.CampaignActivity
	nextID     uint
	segments   map[uint]domain.Segment
}

func newFakeCampaignRepo(segments map[uint]domain.Segment) *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[uint]domain.Campaign{},
		results:   map[uint]domain.CampaignResult{},
		segments:  segments,
	}
}

func (f *fakeCampaignRepo) CreateWithResult(ctx context.Context, campaign *domain.Campaign) error {
	f.nextID++
	campaign.ID = f.nextID
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	stored := *campaign
	stored.Segment, stored.Result = nil, nil
	f.campaigns[campaign.ID] = stored
	f.results[campaign.ID] = domain.CampaignResult{ID: campaign.ID, CampaignID: campaign.ID}
	return nil
}

func (f *fakeCampaignRepo) FindByID(ctx context.Context, id uint) (domain.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	if r, ok := f.results[id]; ok {
		c.Result = &r
	}
	if s, ok := f.segments[c.SegmentID]; ok {
		c.Segment = &s
	}
	return c, nil
}

func (f *fakeCampaignRepo) FindAll(ctx context.Context, status string) ([]domain.Campaign, error) {
	var out []domain.Campaign
	for id := f.nextID; id > 0; id-- {
		if c, ok := f.campaigns[id]; ok && (status == "" || c.Status == status) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) Update(ctx context.Context, campaign *domain.Campaign) error {
	campaign.UpdatedAt = time.Now()
	stored := *campaign
	stored.Segment, stored.Result = nil, nil
	f.campaigns[campaign.ID] = stored
	return nil
}

func (f *fakeCampaignRepo) SaveLaunch(ctx context.Context, campaign *domain.Campaign, result *domain.CampaignResult, activities []domain.CampaignActivity) (bool, error) {
	current := f.campaigns[campaign.ID]
	if current.Status != domain.CampaignStatusDraft {
		return false, nil
	}
	current.Status = campaign.Status
	current.StartDate = campaign.StartDate
	f.campaigns[campaign.ID] = current
	f.results[campaign.ID] = *result
	f.activities = append(f.activities, activities...)
	return true, nil
}

func (f *fakeCampaignRepo) Transition(ctx context.Context, id uint, from, to string, fields map[string]any) (bool, error) {
	c := f.campaigns[id]
	if from != "" && c.Status != from {
		return false, nil
	}
	c.Status = to
	if end, ok := fields["end_date"].(time.Time); ok {
		c.EndDate = &end
	}
	f.campaigns[id] = c
	return true, nil
}

type fakeSegments map[uint]domain.Segment

func (f fakeSegments) GetSegmentByID(ctx context.Context, id uint) (domain.Segment, error) {
	s, ok := f[id]
	if !ok {
		return domain.Segment{}, domain.ErrSegmentNotFound
	}
	return s, nil
}

type fakeAudience struct {
	members int
	err     error
}

func (f fakeAudience) CountMembers(ctx context.Context, segmentID uint) (int, error) {
	return f.members, f.err
}

type fakePublisher struct {
	events []domain.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	f.events = append(f.events, event)
	return f.err
}

type fixture struct {
	svc       *campaignService
	repo      *fakeCampaignRepo
	publisher *fakePublisher
}

func newFixture(t *testing.T, members int) fixture {
	t.Helper()
	segments := fakeSegments{1: {ID: 1, Name: "Leads"}}
	repo := newFakeCampaignRepo(segments)
	publisher := &fakePublisher{}
	sim := NewSimulator(&fixedSource{ints: []int{200}}, EmptyAudienceFallback)
	svc := NewCampaignService(repo, segments, fakeAudience{members: members}, sim, publisher)
	return fixture{svc: svc, repo: repo, publisher: publisher}
}

func (f fixture) create(t *testing.T) domain.Campaign {
	t.Helper()
	c, err := f.svc.CreateCampaign(context.Background(), &domain.Campaign{
		Name:        "Spring",
		SegmentID:   1,
		Budget:      100,
		CostPerSend: domain.DefaultCostPerSend,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return *c
}

func TestCreateCampaign(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)

	if c.Status != domain.CampaignStatusDraft || c.CampaignType != domain.CampaignTypeEmail {
		t.Errorf("defaults not applied: %+v", c)
	}
	if name := c.SegmentName(); name == nil || *name != "Leads" {
		t.Errorf("segment name = %v", name)
	}
	if _, ok := f.repo.results[c.ID]; !ok {
		t.Error("result row must be created with the campaign")
	}

	if len(f.publisher.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.publisher.events))
	}
	ev := f.publisher.events[0]
	if ev.Event != domain.EventCampaignCreated || ev.Data["campaign_id"] != c.ID || ev.Data["segment_id"] != uint(1) || ev.Data["type"] != "email" {
		t.Errorf("event = %+v", ev)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	f := newFixture(t, 10)

	cases := []struct {
		name     string
		campaign domain.Campaign
	}{
		{"missing name", domain.Campaign{SegmentID: 1}},
		{"missing segment", domain.Campaign{Name: "x"}},
		{"unknown segment", domain.Campaign{Name: "x", SegmentID: 9}},
		{"bad type", domain.Campaign{Name: "x", SegmentID: 1, CampaignType: "fax"}},
		{"negative budget", domain.Campaign{Name: "x", SegmentID: 1, Budget: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.campaign
			if _, err := f.svc.CreateCampaign(context.Background(), &c); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if len(f.publisher.events) != 0 {
		t.Errorf("rejected creates must not publish, got %d events", len(f.publisher.events))
	}
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t, 10)
	f.publisher.err = errors.New("broker down")

	c := f.create(t)
	if c.ID == 0 {
		t.Error("campaign must still be stored")
	}
}

func TestLaunchLifecycle(t *testing.T) {
	f := newFixture(t, 40)
	c := f.create(t)
	ctx := context.Background()

	launched, err := f.svc.LaunchCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if launched.Status != domain.CampaignStatusActive || launched.StartDate == nil {
		t.Errorf("launched = %+v", launched)
	}
	if launched.Result == nil || launched.Result.TotalSent != 40 {
		t.Fatalf("result = %+v", launched.Result)
	}
	if len(f.repo.activities) != 4 {
		t.Errorf("activities = %d, want 4", len(f.repo.activities))
	}

	first := *launched.Result
	again, err := f.svc.LaunchCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("relaunch: %v", err)
	}
	if *again.Result != first || again.Status != domain.CampaignStatusActive {
		t.Error("second launch must be a no-op")
	}
	if len(f.repo.activities) != 4 {
		t.Error("second launch must not append activities")
	}

	resumed, _ := f.svc.ResumeCampaign(ctx, c.ID)
	if resumed.Status != domain.CampaignStatusActive {
		t.Errorf("resume on active changed status to %q", resumed.Status)
	}

	paused, err := f.svc.PauseCampaign(ctx, c.ID)
	if err != nil || paused.Status != domain.CampaignStatusPaused {
		t.Fatalf("pause = %q, %v", paused.Status, err)
	}

	pausedAgain, _ := f.svc.PauseCampaign(ctx, c.ID)
	if pausedAgain.Status != domain.CampaignStatusPaused {
		t.Errorf("pause on paused changed status to %q", pausedAgain.Status)
	}

	resumed, err = f.svc.ResumeCampaign(ctx, c.ID)
	if err != nil || resumed.Status != domain.CampaignStatusActive {
		t.Fatalf("resume = %q, %v", resumed.Status, err)
	}
	if *resumed.Result != first {
		t.Error("resume must not simulate again")
	}

	completed, err := f.svc.CompleteCampaign(ctx, c.ID)
	if err != nil || completed.Status != domain.CampaignStatusCompleted || completed.EndDate == nil {
		t.Fatalf("complete = %+v, %v", completed, err)
	}

	if len(f.publisher.events) != 1 {
		t.Errorf("lifecycle actions must not publish, got %d events", len(f.publisher.events))
	}
}

func TestPauseRequiresActive(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)

	paused, err := f.svc.PauseCampaign(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paused.Status != domain.CampaignStatusDraft {
		t.Errorf("pause on draft changed status to %q", paused.Status)
	}
}

func TestCompleteDraftKeepsZeroCounters(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)

	completed, err := f.svc.CompleteCampaign(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != domain.CampaignStatusCompleted || completed.EndDate == nil {
		t.Errorf("completed = %+v", completed)
	}
	if completed.Result.TotalSent != 0 || completed.Result.Conversions != 0 {
		t.Errorf("counters must stay zero: %+v", completed.Result)
	}

	launched, _ := f.svc.LaunchCampaign(context.Background(), c.ID)
	if launched.Status != domain.CampaignStatusCompleted {
		t.Error("launch after complete must be a no-op")
	}
}

func TestLaunchEmptySegmentUsesFallbackAudience(t *testing.T) {
	f := newFixture(t, 0)
	c := f.create(t)

	launched, err := f.svc.LaunchCampaign(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := launched.Result
	if r.TotalSent != 300 {
		t.Errorf("sent = %d, want 300", r.TotalSent)
	}
	if r.Delivered > r.TotalSent || r.Bounced != r.TotalSent-r.Delivered {
		t.Errorf("result = %+v", r)
	}
}

func TestLifecycleUnknownCampaign(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	actions := map[string]func(context.Context, uint) (domain.Campaign, error){
		"launch":   f.svc.LaunchCampaign,
		"pause":    f.svc.PauseCampaign,
		"resume":   f.svc.ResumeCampaign,
		"complete": f.svc.CompleteCampaign,
	}
	for name, action := range actions {
		if _, err := action(ctx, 77); !errors.Is(err, domain.ErrCampaignNotFound) {
			t.Errorf("%s: expected ErrCampaignNotFound, got %v", name, err)
		}
	}
}

func TestLaunchAudienceError(t *testing.T) {
	segments := fakeSegments{1: {ID: 1, Name: "Leads"}}
	repo := newFakeCampaignRepo(segments)
	svc := NewCampaignService(repo, segments, fakeAudience{err: errors.New("db down")}, NewSimulator(&fixedSource{}, ""), nil)

	c, err := svc.CreateCampaign(context.Background(), &domain.Campaign{Name: "x", SegmentID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.LaunchCampaign(context.Background(), c.ID); err == nil {
		t.Error("expected audience error")
	}
	if repo.campaigns[c.ID].Status != domain.CampaignStatusDraft {
		t.Error("failed launch must leave the campaign a draft")
	}
}

func TestUpdateCampaignPublishes(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)

	name := "Autumn"
	status := domain.CampaignStatusScheduled
	updated, err := f.svc.UpdateCampaign(context.Background(), c.ID, domain.CampaignPatch{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != name || updated.Status != status {
		t.Errorf("updated = %+v", updated)
	}

	ev := f.publisher.events[len(f.publisher.events)-1]
	if ev.Event != domain.EventCampaignUpdated || ev.Data["name"] != name || ev.Data["status"] != status {
		t.Errorf("event = %+v", ev)
	}
	if _, ok := ev.Data["updated_at"].(string); !ok {
		t.Error("updated_at must be an RFC 3339 string")
	}

	bad := "archived"
	if _, err := f.svc.UpdateCampaign(context.Background(), c.ID, domain.CampaignPatch{Status: &bad}); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	missing := uint(9)
	if _, err := f.svc.UpdateCampaign(context.Background(), c.ID, domain.CampaignPatch{SegmentID: &missing}); !domain.IsValidation(err) {
		t.Errorf("expected validation error for unknown segment, got %v", err)
	}
	if _, err := f.svc.UpdateCampaign(context.Background(), 55, domain.CampaignPatch{Name: &name}); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Errorf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestUpdateCampaignStatusOverride(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)
	ctx := context.Background()

	// manual overrides outside the launch/pause/resume/complete flow are applied
	paused := domain.CampaignStatusPaused
	updated, err := f.svc.UpdateCampaign(ctx, c.ID, domain.CampaignPatch{Status: &paused})
	if err != nil || updated.Status != paused {
		t.Fatalf("override to paused = %+v, %v", updated, err)
	}
	draft := domain.CampaignStatusDraft
	if _, err := f.svc.UpdateCampaign(ctx, c.ID, domain.CampaignPatch{Status: &draft}); err != nil {
		t.Fatalf("unlaunched campaign back to draft: %v", err)
	}

	launched, err := f.svc.LaunchCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	first := *launched.Result

	completed := domain.CampaignStatusCompleted
	if _, err := f.svc.UpdateCampaign(ctx, c.ID, domain.CampaignPatch{Status: &completed}); err != nil {
		t.Fatalf("override to completed: %v", err)
	}
	if _, err := f.svc.UpdateCampaign(ctx, c.ID, domain.CampaignPatch{Status: &draft}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for launched campaign back to draft, got %v", err)
	}
	if f.repo.campaigns[c.ID].Status != completed {
		t.Errorf("status = %q, want completed", f.repo.campaigns[c.ID].Status)
	}

	again, err := f.svc.LaunchCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("relaunch: %v", err)
	}
	if *again.Result != first {
		t.Error("results must not be simulated twice")
	}
}

func TestGetCampaignStats(t *testing.T) {
	f := newFixture(t, 10)
	c := f.create(t)

	f.repo.results[c.ID] = domain.CampaignResult{CampaignID: c.ID, TotalSent: 100, Delivered: 90, Opens: 45, Clicks: 9}
	stats, err := f.svc.GetCampaignStats(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DeliveryRate != 90 || stats.OpenRate != 50 || stats.ClickRate != 20 || stats.ConversionRate != 0 {
		t.Errorf("stats = %+v", stats)
	}

	delete(f.repo.results, c.ID)
	if _, err := f.svc.GetCampaignStats(context.Background(), c.ID); !errors.Is(err, domain.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound, got %v", err)
	}
	if _, err := f.svc.GetCampaignStats(context.Background(), 404); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Errorf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestGetAllCampaignsFiltersByStatus(t *testing.T) {
	f := newFixture(t, 10)
	first := f.create(t)
	f.create(t)

	if _, err := f.svc.LaunchCampaign(context.Background(), first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := f.svc.GetAllCampaigns(context.Background(), domain.CampaignStatusActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].ID != first.ID {
		t.Errorf("active = %+v", active)
	}

	all, _ := f.svc.GetAllCampaigns(context.Background(), "")
	if len(all) != 2 || all[0].ID != 2 {
		t.Errorf("all campaigns must be newest first: %+v", all)
	}
}
