package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

func goalsOf(t *testing.T, pairs ...domain.GoalWeight) domain.GoalWeights {
	t.Helper()
	gw, err := domain.NewGoalWeights(pairs)
	require.NoError(t, err)
	return gw
}

func TestAllocateBuckets_StrengthOnly(t *testing.T) {
	cfg := DefaultConfig()
	scores := cfg.AllocateBuckets(goalsOf(t, domain.GoalWeight{Goal: domain.GoalStrength, Weight: 10}))

	assert.InDelta(t, 10.0, scores[BucketLifting], 1e-9)
	assert.Zero(t, scores[BucketCardio])
	assert.Zero(t, scores[BucketFinisher])
	assert.Zero(t, scores[BucketMobility])
}

func TestAllocateBuckets_MixedGoalsSumToWeightBudget(t *testing.T) {
	cfg := DefaultConfig()
	scores := cfg.AllocateBuckets(goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalFatLoss, Weight: 6},
		domain.GoalWeight{Goal: domain.GoalStrength, Weight: 4},
	))

	assert.InDelta(t, 1.2, scores[BucketCardio], 1e-9)
	assert.InDelta(t, 3.0, scores[BucketFinisher], 1e-9)
	assert.InDelta(t, 5.8, scores[BucketLifting], 1e-9)

	total := 0.0
	for _, s := range scores {
		total += s
	}
	assert.InDelta(t, float64(domain.GoalWeightSum), total, 1e-9)
}

func TestBucketMinutes_NeverAmplifiesTotal(t *testing.T) {
	cfg := DefaultConfig()
	weightings := []domain.GoalWeights{
		goalsOf(t, domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 10}),
		goalsOf(t,
			domain.GoalWeight{Goal: domain.GoalFatLoss, Weight: 5},
			domain.GoalWeight{Goal: domain.GoalHypertrophy, Weight: 5},
		),
		goalsOf(t,
			domain.GoalWeight{Goal: domain.GoalStrength, Weight: 3},
			domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 3},
			domain.GoalWeight{Goal: domain.GoalMobility, Weight: 4},
		),
	}
	for _, goals := range weightings {
		minutes := cfg.BucketMinutes(cfg.AllocateBuckets(goals), 300)
		sum := 0
		for _, m := range minutes {
			sum += m
		}
		assert.LessOrEqual(t, sum, 300, "bucket minutes must never exceed the available total")
	}
}

func TestBucketMinutes_MobilityCeiling(t *testing.T) {
	cfg := DefaultConfig()
	goals := goalsOf(t, domain.GoalWeight{Goal: domain.GoalMobility, Weight: 10})

	minutes := cfg.BucketMinutes(cfg.AllocateBuckets(goals), 200)

	// Raw share would be 0.8 of the total; the ceiling clamps it to 0.30.
	assert.Equal(t, 60, minutes[BucketMobility])
}

func TestBucketMinutes_CardioCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CardioCeilingFraction = 0.5
	scores := BucketScores{BucketCardio: 9}

	minutes := cfg.BucketMinutes(scores, 200)

	assert.Equal(t, 100, minutes[BucketCardio])
}
