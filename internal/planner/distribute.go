package planner

import (
	"math"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// DistributeInput bundles everything the distributor needs for one cycle.
type DistributeInput struct {
	Days              []DaySlot
	Goals             domain.GoalWeights
	Prefs             domain.SchedulingPrefs
	Experience        domain.ExperienceLevel
	DaysPerWeek       int
	CycleLengthDays   int
	MaxSessionMinutes int
}

// DistributeCycle applies goal-bucket budgets to a split skeleton: converts a
// bounded subset of lifting days into dedicated cardio or conditioning days
// and tags the remaining lifting days with a finisher or accessory preference.
// The input slice is not mutated.
func (c Config) DistributeCycle(in DistributeInput) []DaySlot {
	days := make([]DaySlot, len(in.Days))
	copy(days, in.Days)

	liftingIdx := []int{}
	for i, d := range days {
		if d.Type.IsLifting() {
			liftingIdx = append(liftingIdx, i)
		}
	}
	trainingDays := len(liftingIdx)
	if trainingDays == 0 {
		return days
	}

	totalMinutes := trainingDays * in.MaxSessionMinutes
	budget := c.BucketMinutes(c.AllocateBuckets(in.Goals), totalMinutes)

	// Keep a floor of dedicated lifting days, and never starve an archetype
	// that has exactly one instance.
	floor := c.MinDedicatedLiftingDays
	if floor > trainingDays {
		floor = trainingDays
	}
	maxConvertible := trainingDays - floor
	if maxConvertible < 0 {
		maxConvertible = 0
	}

	cycleBlocks := int(math.Round(float64(in.CycleLengthDays) / 7.0))
	if cycleBlocks < 1 {
		cycleBlocks = 1
	}

	desiredConditioning := budget[BucketFinisher] / c.MinConditioningMinutes
	if desiredConditioning > cycleBlocks {
		desiredConditioning = cycleBlocks
	}
	desiredCardio := 0
	if in.MaxSessionMinutes > 0 {
		desiredCardio = budget[BucketCardio] / in.MaxSessionMinutes
	}

	allowCardio, allowConditioning, forceCardio, forceConditioning := c.conversionGates(in)
	if forceCardio && desiredCardio < 1 {
		desiredCardio = 1
	}
	if forceConditioning && desiredConditioning < 1 {
		desiredConditioning = 1
	}
	if !allowCardio {
		desiredCardio = 0
	}
	if !allowConditioning {
		desiredConditioning = 0
	}
	if desiredCardio > maxConvertible {
		desiredCardio = maxConvertible
	}
	if desiredConditioning > maxConvertible-desiredCardio {
		desiredConditioning = maxConvertible - desiredCardio
	}

	archCount := map[domain.SessionType]int{}
	for _, i := range liftingIdx {
		archCount[days[i].Type]++
	}

	// Convert from the back of the cycle forward.
	convertedCardio, convertedConditioning := 0, 0
	for k := len(liftingIdx) - 1; k >= 0; k-- {
		if convertedCardio >= desiredCardio && convertedConditioning >= desiredConditioning {
			break
		}
		i := liftingIdx[k]
		if starvesArchetype(days[i].Type, archCount) {
			continue
		}
		archCount[days[i].Type]--
		if convertedCardio < desiredCardio {
			days[i] = DaySlot{DayNumber: days[i].DayNumber, Type: domain.SessionCardio, IntentTags: []string{domain.TagCardio}}
			convertedCardio++
		} else {
			days[i] = DaySlot{DayNumber: days[i].DayNumber, Type: domain.SessionConditioning, IntentTags: []string{domain.TagConditioning}}
			convertedConditioning++
		}
	}

	c.tagLiftingPreferences(days, in, budget, convertedCardio, convertedConditioning)
	return days
}

// conversionGates derives the allow/force policy for dedicated day types.
func (c Config) conversionGates(in DistributeInput) (allowCardio, allowConditioning, forceCardio, forceConditioning bool) {
	endurance := in.Goals.Weight(domain.GoalEndurance)
	fatLoss := in.Goals.Weight(domain.GoalFatLoss)

	switch in.Prefs.CardioPreference {
	case domain.CardioPreferenceMixed:
		allowCardio, allowConditioning = true, true
	case domain.CardioPreferenceDedicatedDay:
		// Exactly one dedicated type, picked by the dominant metabolic goal.
		if endurance >= fatLoss {
			allowCardio = true
			forceCardio = true
		} else {
			allowConditioning = true
			forceConditioning = true
		}
	}

	// Overtraining risk or beginner status force-allows cardio-only days.
	if in.DaysPerWeek >= c.OvertrainingDaysPerWeek || in.Experience == domain.ExperienceBeginner {
		allowCardio = true
	}

	// Endurance-heavy override: at least one dedicated cardio day unless the
	// user explicitly disabled it.
	enduranceHeavy := endurance >= c.EnduranceDedicatedThreshold &&
		in.CycleLengthDays >= c.EnduranceCycleDaysThreshold &&
		in.Prefs.DedicatedCardioDay != domain.DedicatedCardioNever
	if enduranceHeavy {
		allowCardio = true
		forceCardio = true
	}

	if in.Prefs.AvoidCardioDays && !enduranceHeavy {
		allowCardio = false
		forceCardio = false
	}
	return allowCardio, allowConditioning, forceCardio, forceConditioning
}

// starvesArchetype blocks converting the last remaining upper or lower day.
func starvesArchetype(t domain.SessionType, count map[domain.SessionType]int) bool {
	if t == domain.SessionUpper || t == domain.SessionLower {
		return count[t] == 1
	}
	return false
}

// tagLiftingPreferences marks remaining lifting days with prefer_finisher or
// prefer_accessory, spreading finisher preference over a day count sized by
// the minute budget left after dedicated-day conversion.
func (c Config) tagLiftingPreferences(days []DaySlot, in DistributeInput, budget map[Bucket]int, convertedCardio, convertedConditioning int) {
	metabolic := in.Goals.Weight(domain.GoalFatLoss) + in.Goals.Weight(domain.GoalEndurance)
	anabolic := in.Goals.Weight(domain.GoalStrength) + in.Goals.Weight(domain.GoalHypertrophy)

	leftover := budget[BucketCardio] - convertedCardio*in.MaxSessionMinutes +
		budget[BucketFinisher] - convertedConditioning*c.MinConditioningMinutes
	if leftover < 0 {
		leftover = 0
	}
	finisherDays := 0
	if in.MaxSessionMinutes > 0 {
		finisherDays = int(math.Round(float64(leftover) / float64(in.MaxSessionMinutes)))
	}
	if metabolic > anabolic && finisherDays < 1 {
		finisherDays = 1
	}
	if metabolic <= anabolic {
		finisherDays = 0
	}

	// Finisher preference fills from the back, matching conversion order.
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].Type.IsLifting() {
			continue
		}
		if finisherDays > 0 {
			days[i].IntentTags = append(days[i].IntentTags, domain.TagPreferFinisher)
			finisherDays--
		} else {
			days[i].IntentTags = append(days[i].IntentTags, domain.TagPreferAccessory)
		}
	}
}
