package domain

import "time"

const (
	EventCampaignCreated = "CampaignCreated"
	EventCampaignUpdated = "CampaignUpdated"
)

// Event is the envelope broadcast on the CRM event channel.
type Event struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

func NewEvent(name string, data map[string]any) Event {
	return Event{
		Event:     name,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Data:      data,
	}
}
