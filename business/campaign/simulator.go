package campaign

import (
	"marketingCRM/domain"
	"marketingCRM/pkg/random"
	"math"
)

// EmptyAudiencePolicy decides how many sends a launch simulates for a
// segment that currently has no members.
type EmptyAudiencePolicy string

const (
	// EmptyAudienceFallback draws a demo audience of 100 to 500.
	EmptyAudienceFallback EmptyAudiencePolicy = "fallback"
	EmptyAudienceZero     EmptyAudiencePolicy = "zero"
)

const (
	fallbackAudienceMin = 100
	fallbackAudienceMax = 500
)

// Simulator fills a campaign result with plausible numbers at launch.
type Simulator struct {
	rng    random.Source
	policy EmptyAudiencePolicy
}

func NewSimulator(rng random.Source, policy EmptyAudiencePolicy) *Simulator {
	if policy == "" {
		policy = EmptyAudienceFallback
	}
	return &Simulator{rng: rng, policy: policy}
}

// Audience applies the empty audience policy to a segment member count.
func (s *Simulator) Audience(members int) int {
	if members > 0 {
		return members
	}
	if s.policy == EmptyAudienceZero {
		return 0
	}
	return random.IntBetween(s.rng, fallbackAudienceMin, fallbackAudienceMax)
}

// Simulate overwrites the counters of result for a launch of c to audience
// recipients. The draw order is fixed so a seeded source reproduces a run.
func (s *Simulator) Simulate(c domain.Campaign, audience int, result *domain.CampaignResult) {
	sent := audience
	delivered := int(float64(sent) * random.Uniform(s.rng, 0.92, 0.98))

	var opens, clicks, impressions int
	switch c.CampaignType {
	case domain.CampaignTypeEmail:
		opens = int(float64(delivered) * random.Uniform(s.rng, 0.15, 0.35))
		clicks = int(float64(opens) * random.Uniform(s.rng, 0.10, 0.25))
	case domain.CampaignTypeSocial:
		impressions = audience * random.IntBetween(s.rng, 2, 5)
		opens = int(float64(impressions) * random.Uniform(s.rng, 0.02, 0.08))
		clicks = int(float64(opens) * random.Uniform(s.rng, 0.20, 0.40))
	default:
		impressions = audience * random.IntBetween(s.rng, 5, 15)
		clicks = int(float64(impressions) * random.Uniform(s.rng, 0.01, 0.05))
		opens = clicks
	}

	conversions := s.conversions(clicks)
	leadsGenerated := int(math.Ceil(float64(clicks) * random.Uniform(s.rng, 0.10, 0.30)))
	leadsConverted := int(math.Ceil(float64(leadsGenerated) * random.Uniform(s.rng, 0.20, 0.40)))
	revenue := float64(conversions) * random.Uniform(s.rng, 50, 200)

	result.TotalSent = sent
	result.Delivered = delivered
	result.Bounced = sent - delivered
	result.Opens = opens
	result.Clicks = clicks
	result.Impressions = impressions
	result.Conversions = conversions
	result.LeadsGenerated = leadsGenerated
	result.LeadsConverted = leadsConverted
	result.RevenueAttributed = revenue
	result.TotalCost = float64(sent)*c.CostPerSend + c.Budget*0.5
}

func (s *Simulator) conversions(clicks int) int {
	raw := float64(clicks) * random.Uniform(s.rng, 0.05, 0.20)
	if raw < 1 && clicks > 0 && s.rng.Float64() > 0.5 {
		return 1
	}
	return int(math.Ceil(raw))
}
