package demo

import (
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/random"
	"math"
	"strings"

	"gorm.io/datatypes"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GenerateCustomers draws count sample customers from the pools. Emails carry
// the index so they stay unique within one run.
func GenerateCustomers(rng random.Source, pools CustomerPools, count int) []domain.Customer {
	customers := make([]domain.Customer, 0, count)

	for i := 0; i < count; i++ {
		first := random.Choice(rng, pools.FirstNames)
		last := random.Choice(rng, pools.LastNames)

		demographics := datatypes.JSONMap{
			"age":            random.IntBetween(rng, 22, 65),
			"income_bracket": random.Choice(rng, pools.IncomeBrackets),
			"gender":         random.Choice(rng, pools.Genders),
			"location":       random.Choice(rng, pools.Locations),
		}

		totalSpent := 0.0
		if rng.Float64() > 0.3 {
			totalSpent = random.Uniform(rng, 0, 5000)
		}

		phone := fmt.Sprintf("+1-555-%d-%d", random.IntBetween(rng, 100, 999), random.IntBetween(rng, 1000, 9999))
		status := random.Choice(rng, pools.Statuses)
		leadSource := random.Choice(rng, pools.LeadSources)
		lifetimeValue := round2(totalSpent * random.Uniform(rng, 1.2, 2.5))
		engagement := random.IntBetween(rng, 10, 100)

		behavioral := datatypes.JSONMap{
			"website_visits":     random.IntBetween(rng, 1, 50),
			"email_opens":        random.IntBetween(rng, 0, 20),
			"last_activity_days": random.IntBetween(rng, 1, 90),
		}

		n := random.IntBetween(rng, 0, 5)
		purchases := make([]domain.Purchase, 0, n)
		for j := 0; j < n; j++ {
			purchases = append(purchases, domain.Purchase{
				Product: fmt.Sprintf("Product %d", j),
				Amount:  random.Uniform(rng, 10, 200),
				Date:    pools.PurchaseDate,
			})
		}

		customers = append(customers, domain.Customer{
			Name:            first + " " + last,
			Email:           fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Phone:           &phone,
			Demographics:    demographics,
			BehavioralData:  behavioral,
			PurchaseHistory: datatypes.NewJSONSlice(purchases),
			TotalSpent:      round2(totalSpent),
			LifetimeValue:   lifetimeValue,
			EngagementScore: engagement,
			Status:          status,
			LeadSource:      &leadSource,
		})
	}

	return customers
}
