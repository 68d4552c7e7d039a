package demo

import (
	_ "embed"
	"fmt"
	"marketingCRM/domain"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type Fixture struct {
	Admin     AdminFixture      `yaml:"admin"`
	Customers CustomerPools     `yaml:"customers"`
	Segments  []SegmentFixture  `yaml:"segments"`
	Campaigns []CampaignFixture `yaml:"campaigns"`
}

type AdminFixture struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// CustomerPools are the value pools sample customers are drawn from.
type CustomerPools struct {
	Count          int      `yaml:"count"`
	FirstNames     []string `yaml:"first_names"`
	LastNames      []string `yaml:"last_names"`
	Locations      []string `yaml:"locations"`
	LeadSources    []string `yaml:"lead_sources"`
	Statuses       []string `yaml:"statuses"`
	IncomeBrackets []string `yaml:"income_brackets"`
	Genders        []string `yaml:"genders"`
	PurchaseDate   string   `yaml:"purchase_date"`
}

type SegmentFixture struct {
	Key         string                 `yaml:"key"`
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	SegmentType string                 `yaml:"segment_type"`
	Criteria    domain.SegmentCriteria `yaml:"criteria"`
}

type CampaignFixture struct {
	Name         string   `yaml:"name"`
	Segment      string   `yaml:"segment"`
	CampaignType string   `yaml:"campaign_type"`
	Subject      string   `yaml:"subject"`
	Content      string   `yaml:"content"`
	Budget       float64  `yaml:"budget"`
	Description  string   `yaml:"description"`
	Lifecycle    []string `yaml:"lifecycle"`
}

// LoadFixture parses the embedded seed file.
func LoadFixture() (Fixture, error) {
	return ParseFixture(seedYAML)
}

func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse demo fixture: %w", err)
	}

	p := f.Customers
	if len(p.FirstNames) == 0 || len(p.LastNames) == 0 || len(p.Locations) == 0 || len(p.LeadSources) == 0 ||
		len(p.Statuses) == 0 || len(p.IncomeBrackets) == 0 || len(p.Genders) == 0 {
		return Fixture{}, fmt.Errorf("demo fixture has an empty customer pool")
	}

	keys := make(map[string]bool, len(f.Segments))
	for _, s := range f.Segments {
		keys[s.Key] = true
	}
	for _, c := range f.Campaigns {
		if !keys[c.Segment] {
			return Fixture{}, fmt.Errorf("demo campaign %q targets unknown segment %q", c.Name, c.Segment)
		}
	}

	return f, nil
}
