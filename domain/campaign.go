package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CampaignTypeEmail  = "email"
	CampaignTypeSocial = "social"
	CampaignTypeAds    = "ads"
	CampaignTypeSMS    = "sms"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

const DefaultCostPerSend = 0.01

// WorkflowStep describes one automation step. Steps are stored and returned
// but not executed.
type WorkflowStep struct {
	Action     string         `json:"action" validate:"required"`
	DelayHours int            `json:"delay_hours,omitempty" validate:"min=0"`
	Params     map[string]any `json:"params,omitempty"`
}

type Campaign struct {
	ID            uint                              `gorm:"primaryKey" json:"id"`
	Name          string                            `gorm:"column:name;not null" json:"name"`
	Description   string                            `gorm:"column:description" json:"description"`
	CampaignType  string                            `gorm:"column:campaign_type;default:email" json:"campaign_type"`
	Subject       string                            `gorm:"column:subject" json:"subject"`
	Content       string                            `gorm:"column:content" json:"content"`
	SegmentID     uint                              `gorm:"column:segment_id;not null" json:"segment_id"`
	Status        string                            `gorm:"column:status;default:draft" json:"status"`
	ScheduleTime  *time.Time                        `gorm:"column:schedule_time" json:"schedule_time"`
	StartDate     *time.Time                        `gorm:"column:start_date" json:"start_date"`
	EndDate       *time.Time                        `gorm:"column:end_date" json:"end_date"`
	Budget        float64                           `gorm:"column:budget;default:0" json:"budget"`
	CostPerSend   float64                           `gorm:"column:cost_per_send;default:0.01" json:"cost_per_send"`
	WorkflowSteps datatypes.JSONSlice[WorkflowStep] `gorm:"column:workflow_steps;type:jsonb" json:"workflow_steps"`
	CreatedAt     time.Time                         `json:"created_at"`
	UpdatedAt     time.Time                         `json:"updated_at"`

	Segment *Segment        `gorm:"foreignKey:SegmentID" json:"-"`
	Result  *CampaignResult `gorm:"foreignKey:CampaignID" json:"-"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// SegmentName is the owning segment's name, nil when it was not loaded.
func (c Campaign) SegmentName() *string {
	if c.Segment == nil {
		return nil
	}
	name := c.Segment.Name
	return &name
}

type CampaignPatch struct {
	Name          *string
	Description   *string
	CampaignType  *string
	Subject       *string
	Content       *string
	SegmentID     *uint
	Status        *string
	ScheduleTime  *time.Time
	Budget        *float64
	CostPerSend   *float64
	WorkflowSteps *[]WorkflowStep
}

func (p CampaignPatch) Apply(c *Campaign) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.CampaignType != nil {
		c.CampaignType = *p.CampaignType
	}
	if p.Subject != nil {
		c.Subject = *p.Subject
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.SegmentID != nil {
		c.SegmentID = *p.SegmentID
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.ScheduleTime != nil {
		c.ScheduleTime = p.ScheduleTime
	}
	if p.Budget != nil {
		c.Budget = *p.Budget
	}
	if p.CostPerSend != nil {
		c.CostPerSend = *p.CostPerSend
	}
	if p.WorkflowSteps != nil {
		c.WorkflowSteps = datatypes.NewJSONSlice(*p.WorkflowSteps)
	}
}

const (
	ActivitySent      = "sent"
	ActivityOpened    = "opened"
	ActivityClicked   = "clicked"
	ActivityConverted = "converted"
)

// CampaignActivity is an append-only log row.
type CampaignActivity struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CampaignID   uint              `gorm:"column:campaign_id;not null" json:"campaign_id"`
	CustomerID   *uint             `gorm:"column:customer_id" json:"customer_id"`
	ActivityType string            `gorm:"column:activity_type;not null" json:"activity_type"`
	ActivityData datatypes.JSONMap `gorm:"column:activity_data;type:jsonb" json:"activity_data"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (CampaignActivity) TableName() string {
	return "campaign_activities"
}
