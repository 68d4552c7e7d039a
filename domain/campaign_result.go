package domain

import "time"

type CampaignResult struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CampaignID        uint      `gorm:"column:campaign_id;uniqueIndex;not null" json:"campaign_id"`
	TotalSent         int       `gorm:"column:total_sent;default:0" json:"total_sent"`
	Delivered         int       `gorm:"column:delivered;default:0" json:"delivered"`
	Bounced           int       `gorm:"column:bounced;default:0" json:"bounced"`
	Opens             int       `gorm:"column:opens;default:0" json:"opens"`
	Clicks            int       `gorm:"column:clicks;default:0" json:"clicks"`
	Unsubscribes      int       `gorm:"column:unsubscribes;default:0" json:"unsubscribes"`
	Impressions       int       `gorm:"column:impressions;default:0" json:"impressions"`
	Conversions       int       `gorm:"column:conversions;default:0" json:"conversions"`
	LeadsGenerated    int       `gorm:"column:leads_generated;default:0" json:"leads_generated"`
	LeadsConverted    int       `gorm:"column:leads_converted;default:0" json:"leads_converted"`
	RevenueAttributed float64   `gorm:"column:revenue_attributed;default:0" json:"revenue_attributed"`
	TotalCost         float64   `gorm:"column:total_cost;default:0" json:"total_cost"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (CampaignResult) TableName() string {
	return "campaign_results"
}

// Percent returns num/den as a percentage, or 0 when den is 0.
func Percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// CampaignMetrics is a CampaignResult plus the rates derived from it.
type CampaignMetrics struct {
	CampaignID        uint    `json:"campaign_id"`
	TotalSent         int     `json:"total_sent"`
	Delivered         int     `json:"delivered"`
	Bounced           int     `json:"bounced"`
	Opens             int     `json:"opens"`
	Clicks            int     `json:"clicks"`
	Conversions       int     `json:"conversions"`
	LeadsGenerated    int     `json:"leads_generated"`
	LeadsConverted    int     `json:"leads_converted"`
	RevenueAttributed float64 `json:"revenue_attributed"`
	TotalCost         float64 `json:"total_cost"`

	DeliveryRate   float64 `json:"delivery_rate"`
	OpenRate       float64 `json:"open_rate"`
	ClickRate      float64 `json:"click_rate"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	ROI            float64 `json:"roi"`
}

func (r CampaignResult) Metrics() CampaignMetrics {
	return CampaignMetrics{
		CampaignID:        r.CampaignID,
		TotalSent:         r.TotalSent,
		Delivered:         r.Delivered,
		Bounced:           r.Bounced,
		Opens:             r.Opens,
		Clicks:            r.Clicks,
		Conversions:       r.Conversions,
		LeadsGenerated:    r.LeadsGenerated,
		LeadsConverted:    r.LeadsConverted,
		RevenueAttributed: r.RevenueAttributed,
		TotalCost:         r.TotalCost,

		DeliveryRate:   Percent(float64(r.Delivered), float64(r.TotalSent)),
		OpenRate:       Percent(float64(r.Opens), float64(r.Delivered)),
		ClickRate:      Percent(float64(r.Clicks), float64(r.Opens)),
		CTR:            Percent(float64(r.Clicks), float64(r.Delivered)),
		ConversionRate: Percent(float64(r.Conversions), float64(r.Clicks)),
		ROI:            Percent(r.RevenueAttributed-r.TotalCost, r.TotalCost),
	}
}
