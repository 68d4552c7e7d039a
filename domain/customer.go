package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CustomerStatusLead     = "lead"
	CustomerStatusProspect = "prospect"
	CustomerStatusCustomer = "customer"
	CustomerStatusChurned  = "churned"
)

type Purchase struct {
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
	Date    string  `json:"date"`
}

type Customer struct {
	ID              uint                          `gorm:"primaryKey" json:"id"`
	Name            string                        `gorm:"column:name;not null" json:"name"`
	Email           string                        `gorm:"column:email;unique;not null" json:"email"`
	Phone           *string                       `gorm:"column:phone" json:"phone"`
	Demographics    datatypes.JSONMap             `gorm:"column:demographics;type:jsonb" json:"demographics"`
	PurchaseHistory datatypes.JSONSlice[Purchase] `gorm:"column:purchase_history;type:jsonb" json:"purchase_history"`
	BehavioralData  datatypes.JSONMap             `gorm:"column:behavioral_data;type:jsonb" json:"behavioral_data"`
	TotalSpent      float64                       `gorm:"column:total_spent;default:0" json:"total_spent"`
	LifetimeValue   float64                       `gorm:"column:lifetime_value;default:0" json:"lifetime_value"`
	EngagementScore int                           `gorm:"column:engagement_score;default:0" json:"engagement_score"`
	Status          string                        `gorm:"column:status;default:lead" json:"status"`
	LeadSource      *string                       `gorm:"column:lead_source" json:"lead_source"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerPatch lists the fields a customer update may touch. Nil means unchanged.
type CustomerPatch struct {
	Name            *string
	Email           *string
	Phone           *string
	Demographics    *map[string]any
	PurchaseHistory *[]Purchase
	BehavioralData  *map[string]any
	TotalSpent      *float64
	LifetimeValue   *float64
	EngagementScore *int
	Status          *string
	LeadSource      *string
}

// Apply copies the set fields onto c.
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Demographics != nil {
		c.Demographics = datatypes.JSONMap(*p.Demographics)
	}
	if p.PurchaseHistory != nil {
		c.PurchaseHistory = datatypes.NewJSONSlice(*p.PurchaseHistory)
	}
	if p.BehavioralData != nil {
		c.BehavioralData = datatypes.JSONMap(*p.BehavioralData)
	}
	if p.TotalSpent != nil {
		c.TotalSpent = *p.TotalSpent
	}
	if p.LifetimeValue != nil {
		c.LifetimeValue = *p.LifetimeValue
	}
	if p.EngagementScore != nil {
		c.EngagementScore = *p.EngagementScore
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.LeadSource != nil {
		c.LeadSource = p.LeadSource
	}
}

type CustomerFilter struct {
	Page    int
	PerPage int
	Status  string
	Search  string
}

type CustomerPage struct {
	Customers   []Customer `json:"customers"`
	Total       int64      `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}
