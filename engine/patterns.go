package engine

import (
	"fmt"
	"sort"
	"time"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// PatternConfig holds the suspicious-behaviour thresholds.
type PatternConfig struct {
	ShiftWindowMinutes int
	SuspiciousSales    int
	GapThresholdMin    float64
}

func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		ShiftWindowMinutes: 30,
		SuspiciousSales:    10,
		GapThresholdMin:    240,
	}
}

type Pattern struct {
	Pattern     string `json:"pattern"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type PatternReport struct {
	HasSuspiciousActivity bool      `json:"has_suspicious_activity"`
	Patterns              []Pattern `json:"patterns"`
	RiskLevel             string    `json:"risk_level"`
}

// DetectTheftPatterns scans one day's sale timestamps for behaviours
// that tend to precede shortages: a burst of sales right before shift
// end, and long dead windows with no sales at all.
func DetectTheftPatterns(cfg PatternConfig, saleTimes []time.Time, shiftEnd time.Time) PatternReport {
	report := PatternReport{RiskLevel: RiskLow}

	windowStart := shiftEnd.Add(-time.Duration(cfg.ShiftWindowMinutes) * time.Minute)
	spikeSales := 0
	for _, ts := range saleTimes {
		if !ts.Before(windowStart) && !ts.After(shiftEnd) {
			spikeSales++
		}
	}
	if spikeSales >= cfg.SuspiciousSales {
		report.Patterns = append(report.Patterns, Pattern{
			Pattern:     "end_of_shift_spike",
			Severity:    RiskHigh,
			Description: fmt.Sprintf("%d sales in final %d min", spikeSales, cfg.ShiftWindowMinutes),
		})
	}

	if len(saleTimes) > 1 {
		sorted := make([]time.Time, len(saleTimes))
		copy(sorted, saleTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

		maxGap := 0.0
		for i := 1; i < len(sorted); i++ {
			gap := sorted[i].Sub(sorted[i-1]).Minutes()
			if gap > maxGap {
				maxGap = gap
			}
		}
		if maxGap > cfg.GapThresholdMin {
			report.Patterns = append(report.Patterns, Pattern{
				Pattern:     "extended_gap",
				Severity:    RiskMedium,
				Description: fmt.Sprintf("%.0f min gap between sales", maxGap),
			})
		}
	}

	for _, p := range report.Patterns {
		if p.Severity == RiskHigh {
			report.RiskLevel = RiskHigh
			break
		}
		report.RiskLevel = RiskMedium
	}
	report.HasSuspiciousActivity = len(report.Patterns) > 0

	return report
}
