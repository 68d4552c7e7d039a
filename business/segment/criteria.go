package segment

import (
	"bytes"
	"encoding/json"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
)

// MatchEverything is the criteria used for absent or unreadable input.
func MatchEverything() domain.SegmentCriteria {
	return domain.SegmentCriteria{Rules: []domain.Rule{}, Match: domain.MatchAll}
}

// ParseCriteria decodes criteria as received over the wire.
//
// Input that cannot be read as a criteria object falls back to matching every
// customer instead of failing, so a malformed payload never blocks segment
// creation. A plain JSON string is kept as the description of an empty rule set.
func ParseCriteria(raw json.RawMessage) domain.SegmentCriteria {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return MatchEverything()
	}

	switch trimmed[0] {
	case '"':
		var description string
		if err := json.Unmarshal(trimmed, &description); err != nil {
			logger.Warn("Unreadable segment criteria, matching all customers", err)
			return MatchEverything()
		}
		c := MatchEverything()
		c.Description = description
		return c
	case '{':
		var c domain.SegmentCriteria
		if err := json.Unmarshal(trimmed, &c); err != nil {
			logger.Warn("Malformed segment criteria, matching all customers", err)
			return MatchEverything()
		}
		return normalize(c)
	default:
		logger.Warn("Segment criteria is not an object, matching all customers", "criteria", string(trimmed))
		return MatchEverything()
	}
}

func normalize(c domain.SegmentCriteria) domain.SegmentCriteria {
	if c.Rules == nil {
		c.Rules = []domain.Rule{}
	}
	if c.Match == "" {
		c.Match = domain.MatchAll
	}
	for i := range c.Rules {
		if c.Rules[i].Operator == "" {
			c.Rules[i].Operator = OpEq
		}
	}
	return c
}
