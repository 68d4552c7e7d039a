package domain

type AnalyticsOverview struct {
	TotalCampaigns     int `json:"total_campaigns"`
	ActiveCampaigns    int `json:"active_campaigns"`
	CompletedCampaigns int `json:"completed_campaigns"`
	DraftCampaigns     int `json:"draft_campaigns"`

	TotalSent        int `json:"total_sent"`
	TotalOpens       int `json:"total_opens"`
	TotalClicks      int `json:"total_clicks"`
	TotalConversions int `json:"total_conversions"`

	OverallOpenRate       float64 `json:"overall_open_rate"`
	OverallClickRate      float64 `json:"overall_click_rate"`
	OverallConversionRate float64 `json:"overall_conversion_rate"`

	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`
	OverallROI   float64 `json:"overall_roi"`

	TotalCustomers int64 `json:"total_customers"`
	TotalSegments  int   `json:"total_segments"`
	TotalLeads     int64 `json:"total_leads"`
}

type CampaignROI struct {
	CampaignID   uint    `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	CampaignType string  `json:"campaign_type"`
	Status       string  `json:"status"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost"`
	ROI          float64 `json:"roi"`
	Conversions  int     `json:"conversions"`
}

type FunnelStage struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Funnel struct {
	Stages []FunnelStage `json:"stages"`
}

type SegmentPerformance struct {
	SegmentID        uint    `json:"segment_id"`
	SegmentName      string  `json:"segment_name"`
	CustomerCount    int     `json:"customer_count"`
	TotalCampaigns   int     `json:"total_campaigns"`
	TotalConversions int     `json:"total_conversions"`
	TotalRevenue     float64 `json:"total_revenue"`
}
