package planner

import (
	"math"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// TrainingIntent selects the rest-time profile for main work.
type TrainingIntent string

const (
	IntentStrength    TrainingIntent = "strength"
	IntentHypertrophy TrainingIntent = "hypertrophy"
	IntentEndurance   TrainingIntent = "endurance"
	IntentGeneral     TrainingIntent = "general"
)

// IntentFromGoals picks the dominant training intent from the goal weighting.
func IntentFromGoals(goals domain.GoalWeights) TrainingIntent {
	strength := goals.Weight(domain.GoalStrength)
	hypertrophy := goals.Weight(domain.GoalHypertrophy)
	endurance := goals.Weight(domain.GoalEndurance)
	switch {
	case strength >= hypertrophy && strength >= endurance && strength > 0:
		return IntentStrength
	case hypertrophy >= endurance && hypertrophy > 0:
		return IntentHypertrophy
	case endurance > 0:
		return IntentEndurance
	default:
		return IntentGeneral
	}
}

// EstimateBreakdown is the additive per-section duration model.
type EstimateBreakdown struct {
	WarmupMinutes    int
	MainMinutes      int
	AccessoryMinutes int
	FinisherMinutes  int
	CooldownMinutes  int
	TotalMinutes     int
}

// transitionOverheadSeconds is the fixed cost of moving between exercise
// groups (equipment changes, setup).
const transitionOverheadSeconds = 45

// setSeconds is the per-set execution time keyed by rep-count bucket.
// Time-based movements use their explicit duration instead.
func setSeconds(ex domain.PrescribedExercise) int {
	if ex.DurationSeconds > 0 {
		return ex.DurationSeconds
	}
	reps := ex.RepMax
	if reps == 0 {
		reps = ex.RepMin
	}
	switch {
	case reps <= 3:
		return 15
	case reps <= 6:
		return 25
	case reps <= 10:
		return 35
	case reps <= 15:
		return 45
	case reps <= 20:
		return 55
	default:
		return 70
	}
}

// restSeconds is the between-set rest keyed by role and training intent.
func restSeconds(role domain.ExerciseRole, intent TrainingIntent) int {
	switch role {
	case domain.RoleMain:
		switch intent {
		case IntentStrength:
			return 180
		case IntentHypertrophy:
			return 90
		case IntentEndurance:
			return 45
		default:
			return 90
		}
	case domain.RoleAccessory:
		return 60
	case domain.RoleFinisher:
		return 30
	default:
		return 30
	}
}

// blockSeconds sums one section: set time x sets plus rest x (sets-1) per
// exercise, rest halved for superset-grouped pairs, plus one transition
// overhead per exercise group.
func blockSeconds(list []domain.PrescribedExercise, intent TrainingIntent) int {
	if len(list) == 0 {
		return 0
	}
	total := 0
	groups := map[string]bool{}
	for _, ex := range list {
		sets := ex.Sets
		if sets < 1 {
			sets = 1
		}
		rest := restSeconds(ex.Role, intent)
		if ex.SupersetGroup != "" {
			rest /= 2
		}
		total += setSeconds(ex)*sets + rest*(sets-1)

		key := ex.SupersetGroup
		if key == "" {
			key = ex.MovementName
		}
		if !groups[key] {
			groups[key] = true
			total += transitionOverheadSeconds
		}
	}
	return total
}

func ceilMinutes(seconds int) int {
	return int(math.Ceil(float64(seconds) / 60.0))
}

// EstimateDuration computes per-section and total minutes for a composed
// session, each section rounded up to whole minutes.
func EstimateDuration(content *domain.SessionContent, intent TrainingIntent) EstimateBreakdown {
	b := EstimateBreakdown{
		WarmupMinutes:   ceilMinutes(blockSeconds(content.Warmup, intent)),
		MainMinutes:     ceilMinutes(blockSeconds(content.Main, intent)),
		CooldownMinutes: ceilMinutes(blockSeconds(content.Cooldown, intent)),
	}
	switch content.Middle.Kind {
	case domain.MiddleAccessory:
		b.AccessoryMinutes = ceilMinutes(blockSeconds(content.Middle.Accessory, intent))
	case domain.MiddleFinisher:
		if f := content.Middle.Finisher; f != nil {
			// A finisher runs for its fixed clock, not set-by-set.
			b.FinisherMinutes = ceilMinutes(f.DurationSeconds + transitionOverheadSeconds)
		}
	}
	b.TotalMinutes = b.WarmupMinutes + b.MainMinutes + b.AccessoryMinutes + b.FinisherMinutes + b.CooldownMinutes
	return b
}
