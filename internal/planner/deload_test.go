package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

func signalsFor(now time.Time, days int, sleep, readiness float64) []domain.RecoverySignal {
	signals := make([]domain.RecoverySignal, 0, days)
	for i := 0; i < days; i++ {
		signals = append(signals, domain.RecoverySignal{
			Date:       now.AddDate(0, 0, -i),
			SleepScore: sleep,
			Readiness:  readiness,
		})
	}
	return signals
}

func TestShouldTriggerDeload_NoSignalsNoTrigger(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	triggered, reason := cfg.ShouldTriggerDeload(nil, now, 10)

	assert.False(t, triggered)
	assert.Equal(t, "no trigger", reason)
}

func TestShouldTriggerDeload_LowSleepAverage(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	triggered, reason := cfg.ShouldTriggerDeload(signalsFor(now, 7, 40, 80), now, 10)

	assert.True(t, triggered)
	assert.Contains(t, reason, "low sleep")
	assert.NotContains(t, reason, "readiness")
}

func TestShouldTriggerDeload_LowReadinessAverage(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	triggered, reason := cfg.ShouldTriggerDeload(signalsFor(now, 7, 90, 20), now, 10)

	assert.True(t, triggered)
	assert.Contains(t, reason, "low readiness")
}

func TestShouldTriggerDeload_SparseDataFilledWithNeutralDefaults(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	// Two rough nights among five unrecorded days: (5*80 + 2*40) / 7 ≈ 68.6,
	// still above the low-sleep threshold.
	triggered, reason := cfg.ShouldTriggerDeload(signalsFor(now, 2, 40, 80), now, 10)

	assert.False(t, triggered)
	assert.Equal(t, "no trigger", reason)
}

func TestShouldTriggerDeload_TimeSinceLastDeload(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	triggered, reason := cfg.ShouldTriggerDeload(nil, now, cfg.MaxDaysBetweenDeloads+1)

	assert.True(t, triggered)
	assert.Contains(t, reason, "days since last deload")
}

func TestShouldTriggerDeload_MultipleReasonsJoined(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	triggered, reason := cfg.ShouldTriggerDeload(signalsFor(now, 7, 30, 10), now, 40)

	assert.True(t, triggered)
	assert.Contains(t, reason, "low sleep")
	assert.Contains(t, reason, "low readiness")
	assert.Contains(t, reason, "40 days since last deload")
}

func TestShouldTriggerDeload_IgnoresSignalsOutsideWindow(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	stale := []domain.RecoverySignal{{
		Date:       now.AddDate(0, 0, -20),
		SleepScore: 5,
		Readiness:  5,
	}}
	triggered, _ := cfg.ShouldTriggerDeload(stale, now, 10)

	assert.False(t, triggered)
}
