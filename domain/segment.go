package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SegmentTypeManual      = "manual"
	SegmentTypeDemographic = "demographic"
	SegmentTypeBehavioral  = "behavioral"
	SegmentTypePurchase    = "purchase"
)

const (
	MatchAll = "all"
	MatchAny = "any"
)

// Rule is a single field-operator-value test against a customer.
type Rule struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
}

// SegmentCriteria combines rules with "all" (AND) or "any" (OR).
type SegmentCriteria struct {
	Rules       []Rule `json:"rules" yaml:"rules"`
	Match       string `json:"match" yaml:"match"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Segment struct {
	ID            uint                                 `gorm:"primaryKey" json:"id"`
	Name          string                               `gorm:"column:name;not null" json:"name"`
	Description   string                               `gorm:"column:description" json:"description"`
	Criteria      datatypes.JSONType[SegmentCriteria]  `gorm:"column:criteria;type:jsonb;not null" json:"criteria"`
	SegmentType   string                               `gorm:"column:segment_type;default:manual" json:"segment_type"`
	CustomerCount int                                  `gorm:"column:customer_count;default:0" json:"customer_count"`
	IsActive      bool                                 `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt     time.Time                            `json:"created_at"`
	UpdatedAt     time.Time                            `json:"updated_at"`
}

func (Segment) TableName() string {
	return "segments"
}

type SegmentPatch struct {
	Name        *string
	Description *string
	Criteria    *SegmentCriteria
	SegmentType *string
	IsActive    *bool
}

func (p SegmentPatch) Apply(s *Segment) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Criteria != nil {
		s.Criteria = datatypes.NewJSONType(*p.Criteria)
	}
	if p.SegmentType != nil {
		s.SegmentType = *p.SegmentType
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}
