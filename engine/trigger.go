package engine

import (
	"fmt"
	"time"
)

const (
	TriggerRandom  = "RANDOM"
	TriggerVolume  = "VOLUME"
	TriggerTime    = "TIME"
	TriggerCounter = "COUNTER"
)

// neverCountedHours stands in for "maximally stale" when a product has
// no recorded count yet.
const neverCountedHours = 999

// Config holds the trigger policy thresholds. The defaults mirror the
// pilot deployment and can be overridden per shop via env.
type Config struct {
	RandomProbability     float64
	VolumeMultiplier      float64
	TimeThresholdHours    float64
	SalesCounterThreshold int
}

func DefaultConfig() Config {
	return Config{
		RandomProbability:     0.20,
		VolumeMultiplier:      2.0,
		TimeThresholdHours:    4,
		SalesCounterThreshold: 3,
	}
}

// VelocitySnapshot is the sales-behaviour report card for one SKU,
// computed from the movement log at evaluation time.
type VelocitySnapshot struct {
	SkuID           uint       `json:"sku_id"`
	Brand           string     `json:"brand"`
	Size            string     `json:"size"`
	CurrentStock    int        `json:"current_stock"`
	LastHourSales   int        `json:"last_hour_sales"`
	SevenDayAvg     float64    `json:"seven_day_avg"`
	SalesSinceCount int        `json:"sales_since_count"`
	Last24hSales    int        `json:"last_24h_sales"`
	LastCountAt     *time.Time `json:"last_count_at"`
}

type Trigger struct {
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

// Decision is the ephemeral result of one evaluation. It carries no
// identity across calls; two devices polling concurrently may each get
// their own decision for the same SKU.
type Decision struct {
	ShouldTrigger   bool
	Winner          Trigger
	Fired           []Trigger
	HoursSinceCount float64
}

// HoursSinceCount treats never-counted products as maximally stale.
func HoursSinceCount(lastCountAt *time.Time, now time.Time) float64 {
	if lastCountAt == nil {
		return neverCountedHours
	}
	return now.Sub(*lastCountAt).Hours()
}

// Evaluate runs every rule against the snapshot and picks the highest
// priority one that fired. The random sample is injected so the caller
// (and tests) control the coin flip; rules are independent and
// non-exclusive. Ties resolve to the rule evaluated first; the order
// RANDOM, VOLUME, TIME, COUNTER is fixed, not configurable.
func Evaluate(cfg Config, v VelocitySnapshot, now time.Time, randomSample float64) Decision {
	hours := HoursSinceCount(v.LastCountAt, now)
	decision := Decision{HoursSinceCount: hours}

	// Products with no sales signal in the last 24h never trigger,
	// not even on the random draw.
	if v.Last24hSales <= 0 {
		return decision
	}

	if randomSample < cfg.RandomProbability {
		decision.Fired = append(decision.Fired, Trigger{
			Type:     TriggerRandom,
			Priority: 2,
			Reason:   "Random security check",
		})
	}

	volumeThreshold := v.SevenDayAvg * cfg.VolumeMultiplier
	if v.SevenDayAvg > 0 && float64(v.LastHourSales) > volumeThreshold {
		decision.Fired = append(decision.Fired, Trigger{
			Type:     TriggerVolume,
			Priority: 3,
			Reason:   fmt.Sprintf("Sales spike: %d vs %.1f avg", v.LastHourSales, v.SevenDayAvg),
		})
	}

	if hours >= cfg.TimeThresholdHours {
		decision.Fired = append(decision.Fired, Trigger{
			Type:     TriggerTime,
			Priority: 2,
			Reason:   fmt.Sprintf("%.1f hours since last count", hours),
		})
	}

	if v.SalesSinceCount >= cfg.SalesCounterThreshold {
		decision.Fired = append(decision.Fired, Trigger{
			Type:     TriggerCounter,
			Priority: 1,
			Reason:   fmt.Sprintf("%d sales since last count", v.SalesSinceCount),
		})
	}

	if len(decision.Fired) == 0 {
		return decision
	}

	winner := decision.Fired[0]
	for _, t := range decision.Fired[1:] {
		if t.Priority > winner.Priority {
			winner = t
		}
	}

	decision.ShouldTrigger = true
	decision.Winner = winner
	return decision
}
