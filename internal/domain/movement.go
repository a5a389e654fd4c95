package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pattern is a fundamental movement pattern.
type Pattern string

const (
	PatternSquat          Pattern = "squat"
	PatternHinge          Pattern = "hinge"
	PatternLunge          Pattern = "lunge"
	PatternHorizontalPush Pattern = "horizontal_push"
	PatternVerticalPush   Pattern = "vertical_push"
	PatternHorizontalPull Pattern = "horizontal_pull"
	PatternVerticalPull   Pattern = "vertical_pull"
	PatternCarry          Pattern = "carry"
	PatternCore           Pattern = "core"
)

// Region is the coarse body region a pattern belongs to.
type Region string

const (
	RegionLower Region = "lower"
	RegionPush  Region = "push"
	RegionPull  Region = "pull"
	RegionCore  Region = "core"
)

// PatternRegion maps each pattern to its body-region family.
func PatternRegion(p Pattern) Region {
	switch p {
	case PatternSquat, PatternHinge, PatternLunge:
		return RegionLower
	case PatternHorizontalPush, PatternVerticalPush:
		return RegionPush
	case PatternHorizontalPull, PatternVerticalPull:
		return RegionPull
	default:
		return RegionCore
	}
}

// Movement is one catalog entry the solver selects from.
type Movement struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"` // unique
	Pattern           Pattern            `bson:"pattern" json:"pattern"`
	PrimaryMuscle     string             `bson:"primaryMuscle" json:"primaryMuscle"`
	PrimaryRegion     Region             `bson:"primaryRegion" json:"primaryRegion"`
	SecondaryMuscles  []string           `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	CNSTier           int                `bson:"cnsTier" json:"cnsTier"` // 1 (low) - 3 (high)
	FatigueFactor     float64            `bson:"fatigueFactor" json:"fatigueFactor"`
	StimulusFactor    float64            `bson:"stimulusFactor" json:"stimulusFactor"`
	Compound          bool               `bson:"compound" json:"compound"`
	Unilateral        bool               `bson:"unilateral" json:"unilateral"`
	MinRecoveryHours  int                `bson:"minRecoveryHours" json:"minRecoveryHours"`
	SubstitutionGroup string             `bson:"substitutionGroup,omitempty" json:"substitutionGroup,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CircuitType scales a circuit's aggregated muscle load.
type CircuitType string

const (
	CircuitAMRAP    CircuitType = "amrap"
	CircuitEMOM     CircuitType = "emom"
	CircuitInterval CircuitType = "interval"
)

// circuitTypeModifier scales constituent volume by circuit structure.
var circuitTypeModifier = map[CircuitType]float64{
	CircuitAMRAP:    1.2,
	CircuitEMOM:     1.0,
	CircuitInterval: 0.8,
}

// CircuitTemplate is a "super-movement": a fixed circuit the solver can pick
// as a single unit, with muscle volume/fatigue aggregated from its
// constituents scaled by round count and a type-specific modifier.
type CircuitTemplate struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Type                CircuitType        `bson:"type" json:"type"`
	DurationSeconds     int                `bson:"durationSeconds" json:"durationSeconds"`
	Rounds              int                `bson:"rounds" json:"rounds"`
	MovementNames       []string           `bson:"movementNames" json:"movementNames"`
	FatigueFactor       float64            `bson:"fatigueFactor" json:"fatigueFactor"`
	StimulusFactor      float64            `bson:"stimulusFactor" json:"stimulusFactor"`
	EffectiveWorkVolume float64            `bson:"effectiveWorkVolume" json:"effectiveWorkVolume"`
	MuscleVolume        map[string]float64 `bson:"muscleVolume,omitempty" json:"muscleVolume,omitempty"`
	MuscleFatigue       map[string]float64 `bson:"muscleFatigue,omitempty" json:"muscleFatigue,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AggregateMuscleLoad recomputes the circuit's muscle volume and fatigue maps
// from its constituent movements, scaled by rounds and the type modifier.
func (c *CircuitTemplate) AggregateMuscleLoad(catalog map[string]Movement) {
	mod, ok := circuitTypeModifier[c.Type]
	if !ok {
		mod = 1.0
	}
	volume := map[string]float64{}
	fatigue := map[string]float64{}
	for _, name := range c.MovementNames {
		m, ok := catalog[name]
		if !ok {
			continue
		}
		volume[m.PrimaryMuscle] += float64(c.Rounds) * mod
		fatigue[m.PrimaryMuscle] += m.FatigueFactor * float64(c.Rounds) * mod
		for _, sec := range m.SecondaryMuscles {
			volume[sec] += 0.5 * float64(c.Rounds) * mod
			fatigue[sec] += 0.5 * m.FatigueFactor * float64(c.Rounds) * mod
		}
	}
	c.MuscleVolume = volume
	c.MuscleFatigue = fatigue
}
