package planner

import (
	"time"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// Bucket is a coarse allocation category goal weight is distributed into
// before being turned into concrete day types.
type Bucket string

const (
	BucketLifting  Bucket = "lifting"
	BucketCardio   Bucket = "cardio"
	BucketFinisher Bucket = "finisher"
	BucketMobility Bucket = "mobility"
)

// Config carries the planner's tuning tables. All values are pure data; the
// zero value is unusable, construct with DefaultConfig and override from the
// application config where needed.
type Config struct {
	// BucketShares maps each goal to its share per bucket. Shares for one
	// goal sum to 1.
	BucketShares map[domain.Goal]map[Bucket]float64

	// Ceilings applied after converting bucket scores to minutes.
	CardioCeilingFraction   float64
	MobilityCeilingFraction float64

	// Day-conversion thresholds.
	MinConditioningMinutes      int
	MinDedicatedLiftingDays     int
	EnduranceDedicatedThreshold int // endurance weight at or above forces a cardio day
	EnduranceCycleDaysThreshold int // together with a cycle at least this long
	OvertrainingDaysPerWeek     int

	// Solver defaults. Sets and minutes per movement are coarse tunables,
	// not derived from per-movement prescriptions.
	SetsPerMovement    int
	MinutesPerMovement int
	PreferenceBonusPct int
	SolverBudget       time.Duration

	// Finisher synthesis thresholds on goal weight.
	FatLossFinisherThreshold   int
	EnduranceFinisherThreshold int

	// Deload triggers.
	LowSleepThreshold     float64 // 0-100 scale
	LowReadinessThreshold float64
	MaxDaysBetweenDeloads int

	// Skeleton defaults.
	DefaultMicrocycleDays int

	// Session overhead minutes reserved for warmup/cooldown on fixed-shape days.
	FixedDayOverheadMinutes int

	// Interference: volume units above which a muscle counts as fatigued the
	// following day.
	FatigueCarryoverUnits float64

	// Rationale generation.
	RationaleTimeout time.Duration
	RationaleMaxLen  int
}

// DefaultConfig returns the stock tuning tables.
func DefaultConfig() Config {
	return Config{
		BucketShares: map[domain.Goal]map[Bucket]float64{
			domain.GoalStrength:    {BucketLifting: 1.0},
			domain.GoalHypertrophy: {BucketLifting: 0.9, BucketFinisher: 0.1},
			domain.GoalEndurance:   {BucketCardio: 0.6, BucketFinisher: 0.3, BucketLifting: 0.1},
			domain.GoalFatLoss:     {BucketCardio: 0.2, BucketFinisher: 0.5, BucketLifting: 0.3},
			domain.GoalMobility:    {BucketMobility: 0.8, BucketLifting: 0.2},
		},
		CardioCeilingFraction:   0.75,
		MobilityCeilingFraction: 0.30,

		MinConditioningMinutes:      15,
		MinDedicatedLiftingDays:     2,
		EnduranceDedicatedThreshold: 5,
		EnduranceCycleDaysThreshold: 7,
		OvertrainingDaysPerWeek:     6,

		SetsPerMovement:    3,
		MinutesPerMovement: 12,
		PreferenceBonusPct: 20,
		SolverBudget:       10 * time.Second,

		FatLossFinisherThreshold:   5,
		EnduranceFinisherThreshold: 5,

		LowSleepThreshold:     60,
		LowReadinessThreshold: 40,
		MaxDaysBetweenDeloads: 28,

		DefaultMicrocycleDays: 7,

		FixedDayOverheadMinutes: 10,

		FatigueCarryoverUnits: 2,

		RationaleTimeout: 6 * time.Second,
		RationaleMaxLen:  200,
	}
}
