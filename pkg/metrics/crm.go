package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Lifecycle actions by outcome: "applied" or "noop".
	CampaignTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_campaign_transitions_total",
		Help: "Campaign lifecycle actions by action and outcome",
	}, []string{"action", "outcome"})

	// Audience size used by the launch simulation
	SimulatedAudience = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crm_campaign_simulated_audience",
		Help:    "Audience size of simulated campaign launches",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_events_published_total",
		Help: "Domain events handed to the event broker by event name and outcome",
	}, []string{"event", "outcome"})

	SegmentRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crm_segment_refresh_seconds",
		Help:    "Time spent evaluating segment criteria over all customers",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		CampaignTransitions,
		SimulatedAudience,
		EventsPublished,
		SegmentRefreshDuration,
	)
}
