package domain

import (
	"math"
	"testing"
)

func TestPatternRegion(t *testing.T) {
	tests := []struct {
		pattern Pattern
		want    Region
	}{
		{PatternSquat, RegionLower},
		{PatternHinge, RegionLower},
		{PatternLunge, RegionLower},
		{PatternHorizontalPush, RegionPush},
		{PatternVerticalPush, RegionPush},
		{PatternHorizontalPull, RegionPull},
		{PatternVerticalPull, RegionPull},
		{PatternCarry, RegionCore},
		{PatternCore, RegionCore},
	}
	for _, tt := range tests {
		if got := PatternRegion(tt.pattern); got != tt.want {
			t.Errorf("PatternRegion(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateMuscleLoad(t *testing.T) {
	catalog := map[string]Movement{
		"Kettlebell Swing": {
			Name:             "Kettlebell Swing",
			PrimaryMuscle:    "glutes",
			SecondaryMuscles: []string{"hamstrings"},
			FatigueFactor:    2.0,
		},
		"Burpee": {
			Name:          "Burpee",
			PrimaryMuscle: "full_body",
			FatigueFactor: 3.0,
		},
	}

	c := &CircuitTemplate{
		Type:          CircuitAMRAP, // 1.2x modifier
		Rounds:        5,
		MovementNames: []string{"Kettlebell Swing", "Burpee", "Unknown Movement"},
	}
	c.AggregateMuscleLoad(catalog)

	if got := c.MuscleVolume["glutes"]; !almostEqual(got, 6.0) {
		t.Errorf("volume[glutes] = %v, want 6.0", got)
	}
	if got := c.MuscleVolume["hamstrings"]; !almostEqual(got, 3.0) {
		t.Errorf("volume[hamstrings] = %v, want 3.0", got)
	}
	if got := c.MuscleFatigue["glutes"]; !almostEqual(got, 12.0) {
		t.Errorf("fatigue[glutes] = %v, want 12.0", got)
	}
	if got := c.MuscleFatigue["full_body"]; !almostEqual(got, 18.0) {
		t.Errorf("fatigue[full_body] = %v, want 18.0", got)
	}
	if _, ok := c.MuscleVolume["Unknown Movement"]; ok {
		t.Error("unknown movement should contribute nothing")
	}
}

func TestAggregateMuscleLoadUnknownTypeDefaultsToUnitModifier(t *testing.T) {
	catalog := map[string]Movement{
		"Plank": {Name: "Plank", PrimaryMuscle: "core", FatigueFactor: 1.0},
	}
	c := &CircuitTemplate{Type: CircuitType("ladder"), Rounds: 3, MovementNames: []string{"Plank"}}
	c.AggregateMuscleLoad(catalog)

	if got := c.MuscleVolume["core"]; !almostEqual(got, 3.0) {
		t.Errorf("volume[core] = %v, want 3.0", got)
	}
}
