package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

func distributeWith(t *testing.T, goals domain.GoalWeights, prefs domain.SchedulingPrefs, daysPerWeek, cycleLen int) []DaySlot {
	t.Helper()
	cfg := DefaultConfig()
	return cfg.DistributeCycle(DistributeInput{
		Days:              BuildSplit(daysPerWeek, cycleLen),
		Goals:             goals,
		Prefs:             prefs,
		Experience:        domain.ExperienceIntermediate,
		DaysPerWeek:       daysPerWeek,
		CycleLengthDays:   cycleLen,
		MaxSessionMinutes: 60,
	})
}

func countTypes(days []DaySlot) map[domain.SessionType]int {
	counts := map[domain.SessionType]int{}
	for _, d := range days {
		counts[d.Type]++
	}
	return counts
}

func TestDistributeCycle_EnduranceHeavyForcesCardioDay(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 6},
		domain.GoalWeight{Goal: domain.GoalHypertrophy, Weight: 4},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceFinisher,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	days := distributeWith(t, goals, prefs, 4, 7)
	counts := countTypes(days)

	// Even with a finisher preference, an endurance weight of 6 on a full
	// week must buy at least one dedicated cardio day.
	assert.Equal(t, 1, counts[domain.SessionCardio])
	assert.Zero(t, counts[domain.SessionConditioning])
	assert.Equal(t, 3, counts[domain.SessionUpper]+counts[domain.SessionLower])
}

func TestDistributeCycle_EnduranceHeavyRespectsNeverPolicy(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 6},
		domain.GoalWeight{Goal: domain.GoalHypertrophy, Weight: 4},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceFinisher,
		DedicatedCardioDay: domain.DedicatedCardioNever,
	}

	counts := countTypes(distributeWith(t, goals, prefs, 4, 7))
	assert.Zero(t, counts[domain.SessionCardio])
}

func TestDistributeCycle_DedicatedDayConvertsConditioningForFatLoss(t *testing.T) {
	// A dedicated-day preference must always produce exactly one dedicated
	// day, even when the metabolic weight is too small to buy one from the
	// finisher budget alone. Fat loss above endurance picks conditioning.
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalFatLoss, Weight: 1},
		domain.GoalWeight{Goal: domain.GoalStrength, Weight: 9},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceDedicatedDay,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	counts := countTypes(distributeWith(t, goals, prefs, 4, 7))
	assert.Equal(t, 1, counts[domain.SessionConditioning])
	assert.Zero(t, counts[domain.SessionCardio])
}

func TestDistributeCycle_DedicatedDayConvertsCardioForEndurance(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 2},
		domain.GoalWeight{Goal: domain.GoalStrength, Weight: 8},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceDedicatedDay,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	counts := countTypes(distributeWith(t, goals, prefs, 4, 7))
	assert.Equal(t, 1, counts[domain.SessionCardio])
	assert.Zero(t, counts[domain.SessionConditioning])
}

func TestDistributeCycle_FatLossFinisherPreferenceTagsInsteadOfConverting(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalFatLoss, Weight: 6},
		domain.GoalWeight{Goal: domain.GoalStrength, Weight: 4},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceFinisher,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	days := distributeWith(t, goals, prefs, 4, 7)
	counts := countTypes(days)

	assert.Zero(t, counts[domain.SessionCardio])
	assert.Zero(t, counts[domain.SessionConditioning])

	finisherTagged := 0
	for _, d := range days {
		if !d.Type.IsLifting() {
			continue
		}
		for _, tag := range d.IntentTags {
			if tag == domain.TagPreferFinisher {
				finisherTagged++
			}
		}
	}
	assert.GreaterOrEqual(t, finisherTagged, 1,
		"metabolic-dominant goals must mark at least one lifting day for a finisher")
}

func TestDistributeCycle_AvoidCardioDisablesConversion(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 4},
		domain.GoalWeight{Goal: domain.GoalHypertrophy, Weight: 6},
	)
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceMixed,
		AvoidCardioDays:    true,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	counts := countTypes(distributeWith(t, goals, prefs, 5, 7))
	assert.Zero(t, counts[domain.SessionCardio])
}

func TestDistributeCycle_NeverBreachesLiftingFloor(t *testing.T) {
	goals := goalsOf(t, domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 10})
	prefs := domain.SchedulingPrefs{
		CardioPreference:   domain.CardioPreferenceMixed,
		DedicatedCardioDay: domain.DedicatedCardioAuto,
	}

	days := distributeWith(t, goals, prefs, 4, 7)

	lifting := 0
	for _, d := range days {
		if d.Type.IsLifting() {
			lifting++
		}
	}
	cfg := DefaultConfig()
	assert.GreaterOrEqual(t, lifting, cfg.MinDedicatedLiftingDays)
}

func TestDistributeCycle_AnabolicGoalsGetAccessoryTags(t *testing.T) {
	goals := goalsOf(t,
		domain.GoalWeight{Goal: domain.GoalStrength, Weight: 6},
		domain.GoalWeight{Goal: domain.GoalHypertrophy, Weight: 4},
	)
	days := distributeWith(t, goals, domain.SchedulingPrefs{CardioPreference: domain.CardioPreferenceFinisher}, 4, 7)

	for _, d := range days {
		if !d.Type.IsLifting() {
			continue
		}
		require.Contains(t, d.IntentTags, domain.TagPreferAccessory)
		assert.NotContains(t, d.IntentTags, domain.TagPreferFinisher)
	}
}

func TestDistributeCycle_DoesNotMutateInput(t *testing.T) {
	goals := goalsOf(t, domain.GoalWeight{Goal: domain.GoalEndurance, Weight: 10})
	in := BuildSplit(4, 7)
	want := make([]domain.SessionType, len(in))
	for i, d := range in {
		want[i] = d.Type
	}

	cfg := DefaultConfig()
	cfg.DistributeCycle(DistributeInput{
		Days:              in,
		Goals:             goals,
		Prefs:             domain.SchedulingPrefs{CardioPreference: domain.CardioPreferenceMixed},
		DaysPerWeek:       4,
		CycleLengthDays:   7,
		MaxSessionMinutes: 60,
	})
	for i, d := range in {
		assert.Equal(t, want[i], d.Type)
	}
}
