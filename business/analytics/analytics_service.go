package analytics

import (
	"context"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"sort"
)

// CampaignRepository must return campaigns with their results loaded.
type CampaignRepository interface {
	FindAll(ctx context.Context, status string) ([]domain.Campaign, error)
}

type CustomerRepository interface {
	// Count counts customers with the given status, or all of them when status is empty.
	Count(ctx context.Context, status string) (int64, error)
}

type SegmentRepository interface {
	FindAllActive(ctx context.Context) ([]domain.Segment, error)
}

type analyticsService struct {
	campaignRepo CampaignRepository
	customerRepo CustomerRepository
	segmentRepo  SegmentRepository
}

func NewAnalyticsService(campaignRepo CampaignRepository, customerRepo CustomerRepository, segmentRepo SegmentRepository) *analyticsService {
	return &analyticsService{
		campaignRepo: campaignRepo,
		customerRepo: customerRepo,
		segmentRepo:  segmentRepo,
	}
}

type totals struct {
	sent, delivered, opens, clicks, leads, conversions int
	revenue, cost                                      float64
}

func sum(campaigns []domain.Campaign) totals {
	var t totals
	for _, c := range campaigns {
		r := c.Result
		if r == nil {
			continue
		}
		t.sent += r.TotalSent
		t.delivered += r.Delivered
		t.opens += r.Opens
		t.clicks += r.Clicks
		t.leads += r.LeadsGenerated
		t.conversions += r.Conversions
		t.revenue += r.RevenueAttributed
		t.cost += r.TotalCost
	}
	return t
}

func (s *analyticsService) GetOverview(ctx context.Context) (domain.AnalyticsOverview, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when building analytics overview")
		return domain.AnalyticsOverview{}, fmt.Errorf("context error: %w", err)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, "")
	if err != nil {
		logger.Error("Failed to load campaigns for overview", err)
		return domain.AnalyticsOverview{}, err
	}

	totalCustomers, err := s.customerRepo.Count(ctx, "")
	if err != nil {
		logger.Error("Failed to count customers", err)
		return domain.AnalyticsOverview{}, err
	}

	totalLeads, err := s.customerRepo.Count(ctx, domain.CustomerStatusLead)
	if err != nil {
		logger.Error("Failed to count leads", err)
		return domain.AnalyticsOverview{}, err
	}

	segments, err := s.segmentRepo.FindAllActive(ctx)
	if err != nil {
		logger.Error("Failed to load segments for overview", err)
		return domain.AnalyticsOverview{}, err
	}

	overview := domain.AnalyticsOverview{
		TotalCampaigns: len(campaigns),
		TotalCustomers: totalCustomers,
		TotalLeads:     totalLeads,
		TotalSegments:  len(segments),
	}

	for _, c := range campaigns {
		switch c.Status {
		case domain.CampaignStatusActive:
			overview.ActiveCampaigns++
		case domain.CampaignStatusCompleted:
			overview.CompletedCampaigns++
		case domain.CampaignStatusDraft:
			overview.DraftCampaigns++
		}
	}

	t := sum(campaigns)
	overview.TotalSent = t.sent
	overview.TotalOpens = t.opens
	overview.TotalClicks = t.clicks
	overview.TotalConversions = t.conversions
	overview.TotalRevenue = t.revenue
	overview.TotalCost = t.cost

	overview.OverallOpenRate = domain.Percent(float64(t.opens), float64(t.sent))
	overview.OverallClickRate = domain.Percent(float64(t.clicks), float64(t.opens))
	overview.OverallConversionRate = domain.Percent(float64(t.conversions), float64(t.clicks))
	overview.OverallROI = domain.Percent(t.revenue-t.cost, t.cost)

	return overview, nil
}

// GetROIReport ranks active and completed campaigns by ROI, best first.
func (s *analyticsService) GetROIReport(ctx context.Context) ([]domain.CampaignROI, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when building roi report")
		return nil, fmt.Errorf("context error: %w", err)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, "")
	if err != nil {
		logger.Error("Failed to load campaigns for roi report", err)
		return nil, err
	}

	report := make([]domain.CampaignROI, 0)
	for _, c := range campaigns {
		if c.Result == nil {
			continue
		}
		if c.Status != domain.CampaignStatusActive && c.Status != domain.CampaignStatusCompleted {
			continue
		}

		m := c.Result.Metrics()
		report = append(report, domain.CampaignROI{
			CampaignID:   c.ID,
			CampaignName: c.Name,
			CampaignType: c.CampaignType,
			Status:       c.Status,
			Revenue:      m.RevenueAttributed,
			Cost:         m.TotalCost,
			ROI:          m.ROI,
			Conversions:  m.Conversions,
		})
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].ROI > report[j].ROI
	})

	return report, nil
}

func (s *analyticsService) GetFunnel(ctx context.Context) (domain.Funnel, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when building funnel")
		return domain.Funnel{}, fmt.Errorf("context error: %w", err)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, "")
	if err != nil {
		logger.Error("Failed to load campaigns for funnel", err)
		return domain.Funnel{}, err
	}

	t := sum(campaigns)
	sent := float64(t.sent)

	stage := func(name string, count int) domain.FunnelStage {
		return domain.FunnelStage{Name: name, Count: count, Percentage: domain.Percent(float64(count), sent)}
	}

	return domain.Funnel{Stages: []domain.FunnelStage{
		{Name: "Sent", Count: t.sent, Percentage: 100},
		stage("Delivered", t.delivered),
		stage("Opened", t.opens),
		stage("Clicked", t.clicks),
		stage("Leads", t.leads),
		stage("Converted", t.conversions),
	}}, nil
}

// GetSegmentPerformance attributes campaign results to the segment each
// campaign targeted, highest revenue first.
func (s *analyticsService) GetSegmentPerformance(ctx context.Context) ([]domain.SegmentPerformance, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when building segment performance")
		return nil, fmt.Errorf("context error: %w", err)
	}

	segments, err := s.segmentRepo.FindAllActive(ctx)
	if err != nil {
		logger.Error("Failed to load segments for performance", err)
		return nil, err
	}

	campaigns, err := s.campaignRepo.FindAll(ctx, "")
	if err != nil {
		logger.Error("Failed to load campaigns for segment performance", err)
		return nil, err
	}

	bySegment := make(map[uint][]domain.Campaign)
	for _, c := range campaigns {
		bySegment[c.SegmentID] = append(bySegment[c.SegmentID], c)
	}

	performance := make([]domain.SegmentPerformance, 0, len(segments))
	for _, seg := range segments {
		targeted := bySegment[seg.ID]
		t := sum(targeted)
		performance = append(performance, domain.SegmentPerformance{
			SegmentID:        seg.ID,
			SegmentName:      seg.Name,
			CustomerCount:    seg.CustomerCount,
			TotalCampaigns:   len(targeted),
			TotalConversions: t.conversions,
			TotalRevenue:     t.revenue,
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].TotalRevenue > performance[j].TotalRevenue
	})

	return performance, nil
}
