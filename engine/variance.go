package engine

import "math"

const (
	SeverityNormal   = "NORMAL"
	SeverityMinor    = "MINOR"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

const (
	StatusShortage = "SHORTAGE"
	StatusSurplus  = "SURPLUS"
	StatusMatch    = "MATCH"
)

// OutcomeKind is the tagged result of settling a physical count.
// Only a material variance escalates to an Alert; the severity cut
// points live here so the policy is centralized and swappable.
type OutcomeKind int

const (
	NoVariance OutcomeKind = iota
	MinorVariance
	MaterialVariance
)

// Severity bands over |variance percent|. Monotonic by construction.
const (
	minorBandPct    = 1.0
	warningBandPct  = 5.0
	criticalBandPct = 10.0
)

// Assessment settles one physical count against the expected ledger
// quantity.
type Assessment struct {
	ExpectedQty      int         `json:"expected_qty"`
	ActualQty        int         `json:"actual_qty"`
	Variance         int         `json:"variance"`
	VariancePercent  float64     `json:"variance_percent"`
	EstimatedLoss    float64     `json:"estimated_loss"`
	Severity         string      `json:"severity"`
	Status           string      `json:"status"`
	Outcome          OutcomeKind `json:"-"`
	SendNotification bool        `json:"-"`
}

// AssessCount computes variance, percent, severity and estimated loss.
//
// Variance percent is +100 when expected is exactly 0 but units were
// counted (surplus against an empty ledger is treated as full overage
// by convention) and 0 for any other non-positive expected, including
// an oversold ledger being settled. Only shortages are costed as loss;
// a surplus is reported but carries no loss figure.
func AssessCount(expected, actual int, costPrice float64) Assessment {
	variance := actual - expected

	var pct float64
	switch {
	case expected > 0:
		pct = round2(float64(variance) / float64(expected) * 100)
	case expected == 0 && actual > 0:
		pct = 100
	}

	loss := 0.0
	if variance < 0 {
		loss = round2(float64(-variance) * costPrice)
	}

	a := Assessment{
		ExpectedQty:     expected,
		ActualQty:       actual,
		Variance:        variance,
		VariancePercent: pct,
		EstimatedLoss:   loss,
		Severity:        classifySeverity(pct),
		Status:          classifyStatus(variance),
	}

	switch {
	case variance == 0:
		a.Outcome = NoVariance
	case a.Severity == SeverityNormal:
		a.Outcome = MinorVariance
	default:
		a.Outcome = MaterialVariance
	}

	// Owner notification is reserved for the critical band so the
	// phone does not buzz on every shelf miscount.
	a.SendNotification = a.Severity == SeverityCritical

	return a
}

func classifySeverity(variancePct float64) string {
	abs := math.Abs(variancePct)
	switch {
	case abs >= criticalBandPct:
		return SeverityCritical
	case abs >= warningBandPct:
		return SeverityWarning
	case abs >= minorBandPct:
		return SeverityMinor
	default:
		return SeverityNormal
	}
}

func classifyStatus(variance int) string {
	switch {
	case variance < 0:
		return StatusShortage
	case variance > 0:
		return StatusSurplus
	default:
		return StatusMatch
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
