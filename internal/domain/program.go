package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal identifies one of the recognized training goals.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
	GoalFatLoss     Goal = "fat_loss"
	GoalMobility    Goal = "mobility"
)

// RecognizedGoals lists every goal the planner understands.
var RecognizedGoals = []Goal{GoalStrength, GoalHypertrophy, GoalEndurance, GoalFatLoss, GoalMobility}

// GoalWeightSum is the required total of the three goal weights.
const GoalWeightSum = 10

// GoalWeight pairs a goal with its integer weight (0-10).
type GoalWeight struct {
	Goal   Goal `bson:"goal" json:"goal"`
	Weight int  `bson:"weight" json:"weight"`
}

// GoalWeights is the always-three-slot weighting a program is built from.
// Slots beyond what the user supplied carry zero weight.
type GoalWeights [3]GoalWeight

// Weight returns the combined weight assigned to a goal across slots.
func (gw GoalWeights) Weight(g Goal) int {
	total := 0
	for _, s := range gw {
		if s.Goal == g {
			total += s.Weight
		}
	}
	return total
}

// Validation errors surfaced to callers before any scheduling work begins.
var (
	ErrWeightsSum         = errors.New("goal weights must sum to exactly 10")
	ErrDuplicateGoal      = errors.New("goals with positive weight must be distinct")
	ErrUnknownGoal        = errors.New("unrecognized goal")
	ErrNegativeGoalWeight = errors.New("goal weight cannot be negative")
)

// Validate checks the weight-sum and distinctness invariants.
func (gw GoalWeights) Validate() error {
	sum := 0
	seen := map[Goal]bool{}
	for _, s := range gw {
		if s.Weight < 0 {
			return ErrNegativeGoalWeight
		}
		sum += s.Weight
		if s.Weight > 0 {
			if !recognizedGoal(s.Goal) {
				return fmt.Errorf("%w: %q", ErrUnknownGoal, s.Goal)
			}
			if seen[s.Goal] {
				return ErrDuplicateGoal
			}
			seen[s.Goal] = true
		}
	}
	if sum != GoalWeightSum {
		return ErrWeightsSum
	}
	return nil
}

func recognizedGoal(g Goal) bool {
	for _, r := range RecognizedGoals {
		if r == g {
			return true
		}
	}
	return false
}

// NewGoalWeights normalizes a user-supplied goal list (1-3 entries) into the
// fixed three-slot form, padding missing slots with zero weight.
func NewGoalWeights(pairs []GoalWeight) (GoalWeights, error) {
	var gw GoalWeights
	if len(pairs) == 0 || len(pairs) > 3 {
		return gw, errors.New("between 1 and 3 goals are required")
	}
	copy(gw[:], pairs)
	for i := len(pairs); i < 3; i++ {
		gw[i] = GoalWeight{Goal: pairs[0].Goal, Weight: 0}
	}
	if err := gw.Validate(); err != nil {
		return gw, err
	}
	return gw, nil
}

// CardioPreference controls how cardio volume is scheduled.
type CardioPreference string

const (
	CardioPreferenceFinisher     CardioPreference = "finisher"
	CardioPreferenceDedicatedDay CardioPreference = "dedicated_day"
	CardioPreferenceMixed        CardioPreference = "mixed"
)

// DedicatedCardioPolicy gates the endurance-heavy forced cardio day.
type DedicatedCardioPolicy string

const (
	DedicatedCardioAuto  DedicatedCardioPolicy = "auto"
	DedicatedCardioNever DedicatedCardioPolicy = "never"
)

// ExperienceLevel of the program owner.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// SchedulingPrefs are the user's knobs for day-type distribution.
type SchedulingPrefs struct {
	CardioPreference   CardioPreference      `bson:"cardioPreference" json:"cardioPreference"`
	AvoidCardioDays    bool                  `bson:"avoidCardioDays" json:"avoidCardioDays"`
	DedicatedCardioDay DedicatedCardioPolicy `bson:"dedicatedCardioDay" json:"dedicatedCardioDay"`
}

// Program is a multi-week training plan owned by one user.
// Exactly one program per user is active at a time; activating a program
// deactivates the others (enforced at the repository layer).
type Program struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	StartDate         time.Time          `bson:"startDate" json:"startDate"`
	DurationWeeks     int                `bson:"durationWeeks" json:"durationWeeks"` // 8-12, even
	Goals             GoalWeights        `bson:"goals" json:"goals"`
	Split             string             `bson:"split,omitempty" json:"split,omitempty"`
	DaysPerWeek       int                `bson:"daysPerWeek" json:"daysPerWeek"` // 2-7
	DeloadEveryN      int                `bson:"deloadEveryN" json:"deloadEveryN"`
	MaxSessionMinutes int                `bson:"maxSessionMinutes" json:"maxSessionMinutes"`
	Prefs             SchedulingPrefs    `bson:"prefs" json:"prefs"`
	Experience        ExperienceLevel    `bson:"experience" json:"experience"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var (
	ErrBadDuration    = errors.New("program duration must be an even number of weeks between 8 and 12")
	ErrBadDaysPerWeek = errors.New("days per week must be between 2 and 7")
)

// Validate rejects invalid programs before any scheduling work begins.
func (p *Program) Validate() error {
	if p.DurationWeeks < 8 || p.DurationWeeks > 12 || p.DurationWeeks%2 != 0 {
		return ErrBadDuration
	}
	if p.DaysPerWeek < 2 || p.DaysPerWeek > 7 {
		return ErrBadDaysPerWeek
	}
	return p.Goals.Validate()
}
