package engine

import (
	"testing"
	"time"
)

func snapshotWithSales(lastHour, sinceCount, last24h int, sevenDayAvg float64, lastCountAt *time.Time) VelocitySnapshot {
	return VelocitySnapshot{
		SkuID:           1,
		Brand:           "King's Oil",
		Size:            "5L",
		CurrentStock:    40,
		LastHourSales:   lastHour,
		SevenDayAvg:     sevenDayAvg,
		SalesSinceCount: sinceCount,
		Last24hSales:    last24h,
		LastCountAt:     lastCountAt,
	}
}

func TestEvaluateNoRecentSalesNeverTriggers(t *testing.T) {
	now := time.Now()
	v := snapshotWithSales(0, 10, 0, 5, nil)

	d := Evaluate(DefaultConfig(), v, now, 0.0)
	if d.ShouldTrigger {
		t.Fatalf("expected no trigger without 24h sales signal, got %+v", d.Winner)
	}
	if len(d.Fired) != 0 {
		t.Fatalf("expected no fired rules, got %d", len(d.Fired))
	}
}

func TestEvaluateVolumeSpikeOutranksEverything(t *testing.T) {
	now := time.Now()
	counted := now.Add(-10 * time.Hour)
	// Every rule fires: random sample under 0.20, spike over 2x avg,
	// stale count, counter over threshold.
	v := snapshotWithSales(8, 5, 20, 1.0, &counted)

	d := Evaluate(DefaultConfig(), v, now, 0.01)
	if !d.ShouldTrigger {
		t.Fatal("expected trigger")
	}
	if d.Winner.Type != TriggerVolume {
		t.Fatalf("expected VOLUME winner, got %s", d.Winner.Type)
	}
	if d.Winner.Priority != 3 {
		t.Fatalf("expected priority 3, got %d", d.Winner.Priority)
	}
	if len(d.Fired) != 4 {
		t.Fatalf("expected all 4 rules fired, got %d", len(d.Fired))
	}
}

func TestEvaluateRandomWinsPriorityTieByOrder(t *testing.T) {
	now := time.Now()
	counted := now.Add(-6 * time.Hour)
	// RANDOM and TIME both fire at priority 2; no spike, counter below
	// threshold. First-evaluated rule takes the tie.
	v := snapshotWithSales(1, 2, 5, 1.0, &counted)

	d := Evaluate(DefaultConfig(), v, now, 0.1)
	if !d.ShouldTrigger {
		t.Fatal("expected trigger")
	}
	if d.Winner.Type != TriggerRandom {
		t.Fatalf("expected RANDOM to win the tie, got %s", d.Winner.Type)
	}
	if len(d.Fired) != 2 {
		t.Fatalf("expected RANDOM and TIME fired, got %d", len(d.Fired))
	}
}

func TestEvaluateRandomRespectsSample(t *testing.T) {
	now := time.Now()
	counted := now.Add(-1 * time.Hour)
	v := snapshotWithSales(1, 0, 5, 2.0, &counted)

	if d := Evaluate(DefaultConfig(), v, now, 0.19); !d.ShouldTrigger {
		t.Fatal("sample under probability should fire the random rule")
	}
	if d := Evaluate(DefaultConfig(), v, now, 0.20); d.ShouldTrigger {
		t.Fatalf("sample at probability boundary should not fire, got %+v", d.Winner)
	}
}

func TestEvaluateCounterRule(t *testing.T) {
	now := time.Now()
	counted := now.Add(-1 * time.Hour)
	v := snapshotWithSales(1, 3, 5, 2.0, &counted)

	d := Evaluate(DefaultConfig(), v, now, 0.99)
	if !d.ShouldTrigger {
		t.Fatal("expected counter rule to fire at threshold")
	}
	if d.Winner.Type != TriggerCounter {
		t.Fatalf("expected COUNTER winner, got %s", d.Winner.Type)
	}
	if d.Winner.Priority != 1 {
		t.Fatalf("expected priority 1, got %d", d.Winner.Priority)
	}
}

func TestEvaluateVolumeNeedsPositiveBaseline(t *testing.T) {
	now := time.Now()
	counted := now.Add(-1 * time.Hour)
	// Brand new product: sales this hour but a zero 7-day average must
	// not divide into a spike.
	v := snapshotWithSales(5, 0, 5, 0, &counted)

	d := Evaluate(DefaultConfig(), v, now, 0.99)
	for _, trig := range d.Fired {
		if trig.Type == TriggerVolume {
			t.Fatal("volume rule must not fire on a zero baseline")
		}
	}
}

func TestHoursSinceCount(t *testing.T) {
	now := time.Now()

	if got := HoursSinceCount(nil, now); got != neverCountedHours {
		t.Fatalf("never counted should report %d, got %.1f", neverCountedHours, got)
	}

	counted := now.Add(-90 * time.Minute)
	if got := HoursSinceCount(&counted, now); got < 1.49 || got > 1.51 {
		t.Fatalf("expected ~1.5 hours, got %.2f", got)
	}
}
