package planner

import (
	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// patternAlternation is the fixed substitution table used when a main pattern
// conflicts with recent history.
var patternAlternation = map[domain.Pattern]domain.Pattern{
	domain.PatternSquat:          domain.PatternHinge,
	domain.PatternHinge:          domain.PatternLunge,
	domain.PatternLunge:          domain.PatternSquat,
	domain.PatternHorizontalPush: domain.PatternVerticalPush,
	domain.PatternVerticalPush:   domain.PatternHorizontalPush,
	domain.PatternHorizontalPull: domain.PatternVerticalPull,
	domain.PatternVerticalPull:   domain.PatternHorizontalPull,
}

// regionFamily lists every pattern of a body-region family, the fallback pool
// when the alternation table cannot resolve a conflict.
var regionFamily = map[domain.Region][]domain.Pattern{
	domain.RegionLower: {domain.PatternSquat, domain.PatternHinge, domain.PatternLunge},
	domain.RegionPush:  {domain.PatternHorizontalPush, domain.PatternVerticalPush},
	domain.RegionPull:  {domain.PatternHorizontalPull, domain.PatternVerticalPull},
	domain.RegionCore:  {domain.PatternCore, domain.PatternCarry},
}

// Tracker holds the per-microcycle interference state. It is owned exclusively
// by the single generation pass for its microcycle and is never shared across
// passes or persisted.
type Tracker struct {
	usedMovements   map[string]bool
	usedGroups      map[string]int
	usedMainPattern map[int][]domain.Pattern // day number -> first-two main patterns
	usedAccessory   map[int][]string         // day number -> accessory/finisher movement names
	prevDayVolume   map[string]float64       // muscle -> volume units from the prior training day
	lastTrainingDay int
}

// NewTracker returns an empty tracker for one microcycle generation pass.
func NewTracker() *Tracker {
	return &Tracker{
		usedMovements:   map[string]bool{},
		usedGroups:      map[string]int{},
		usedMainPattern: map[int][]domain.Pattern{},
		usedAccessory:   map[int][]string{},
		prevDayVolume:   map[string]float64{},
	}
}

// UsedMovement reports whether a movement name was already selected this cycle.
func (t *Tracker) UsedMovement(name string) bool {
	return t.usedMovements[name]
}

// GroupUsage returns how many times a substitution group has been drawn from.
func (t *Tracker) GroupUsage(group string) int {
	return t.usedGroups[group]
}

// HasPatternConflict reports whether using pattern p as a main focus on the
// given day would clash with recent history: used on the immediately
// preceding training day, used within the prior two days, or already used
// twice within the trailing seven-day window.
func (t *Tracker) HasPatternConflict(day int, p domain.Pattern) bool {
	if t.lastTrainingDay > 0 && contains(t.usedMainPattern[t.lastTrainingDay], p) {
		return true
	}
	windowCount := 0
	for d, patterns := range t.usedMainPattern {
		if !contains(patterns, p) {
			continue
		}
		if day-d <= 2 && day-d > 0 {
			return true
		}
		if day-d < 7 && day-d > 0 {
			windowCount++
		}
	}
	return windowCount >= 2
}

// ResolvePattern substitutes a conflicting main pattern via the alternation
// table, falling back to any non-conflicting pattern in the same body-region
// family. If every option conflicts the original pattern is returned.
func (t *Tracker) ResolvePattern(day int, p domain.Pattern) domain.Pattern {
	if !t.HasPatternConflict(day, p) {
		return p
	}
	if alt, ok := patternAlternation[p]; ok && !t.HasPatternConflict(day, alt) {
		return alt
	}
	for _, fallback := range regionFamily[domain.PatternRegion(p)] {
		if fallback != p && !t.HasPatternConflict(day, fallback) {
			return fallback
		}
	}
	return p
}

// sectionOrder is the dedup priority: the first section to mention a movement
// keeps it.
func sections(content *domain.SessionContent) []*[]domain.PrescribedExercise {
	ordered := []*[]domain.PrescribedExercise{&content.Main}
	if content.Middle.Kind == domain.MiddleAccessory {
		ordered = append(ordered, &content.Middle.Accessory)
	}
	if content.Middle.Kind == domain.MiddleFinisher && content.Middle.Finisher != nil {
		ordered = append(ordered, &content.Middle.Finisher.Movements)
	}
	ordered = append(ordered, &content.Warmup, &content.Cooldown)
	return ordered
}

// DedupSession removes repeated movement names within a session, scanning
// main > accessory > finisher > warmup > cooldown. A removed occurrence is
// replaced by an unused alternative from the same substitution group or
// pattern when one exists in the catalog; otherwise the slot is dropped and
// reported as a gap. Running it twice is a no-op.
func (t *Tracker) DedupSession(content *domain.SessionContent, catalog []domain.Movement) []string {
	seen := map[string]bool{}
	var gaps []string
	for _, section := range sections(content) {
		kept := (*section)[:0]
		for _, ex := range *section {
			if !seen[ex.MovementName] {
				seen[ex.MovementName] = true
				kept = append(kept, ex)
				continue
			}
			if alt, ok := findAlternative(ex, seen, t, catalog); ok {
				seen[alt.MovementName] = true
				kept = append(kept, alt)
				continue
			}
			gaps = append(gaps, ex.MovementName)
		}
		*section = kept
	}
	if content.Middle.Kind == domain.MiddleAccessory && len(content.Middle.Accessory) == 0 {
		content.Middle = domain.NoMiddle()
	}
	return gaps
}

// StripPriorAccessories removes accessory/finisher movements that appeared on
// the immediately preceding training day, attempting the same replacement
// logic as intra-session dedup.
func (t *Tracker) StripPriorAccessories(content *domain.SessionContent, catalog []domain.Movement) []string {
	if t.lastTrainingDay == 0 {
		return nil
	}
	prior := map[string]bool{}
	for _, name := range t.usedAccessory[t.lastTrainingDay] {
		prior[name] = true
	}
	if len(prior) == 0 {
		return nil
	}

	inSession := map[string]bool{}
	for _, section := range sections(content) {
		for _, ex := range *section {
			inSession[ex.MovementName] = true
		}
	}

	var gaps []string
	strip := func(list *[]domain.PrescribedExercise) {
		kept := (*list)[:0]
		for _, ex := range *list {
			if !prior[ex.MovementName] {
				kept = append(kept, ex)
				continue
			}
			if alt, ok := findAlternative(ex, inSession, t, catalog); ok && !prior[alt.MovementName] {
				inSession[alt.MovementName] = true
				kept = append(kept, alt)
				continue
			}
			gaps = append(gaps, ex.MovementName)
		}
		*list = kept
	}
	switch content.Middle.Kind {
	case domain.MiddleAccessory:
		strip(&content.Middle.Accessory)
		if len(content.Middle.Accessory) == 0 {
			content.Middle = domain.NoMiddle()
		}
	case domain.MiddleFinisher:
		if content.Middle.Finisher != nil {
			strip(&content.Middle.Finisher.Movements)
		}
	}
	return gaps
}

// findAlternative looks up an unused catalog movement sharing the original's
// substitution group, then its pattern, preserving muscle coverage.
func findAlternative(ex domain.PrescribedExercise, taken map[string]bool, t *Tracker, catalog []domain.Movement) (domain.PrescribedExercise, bool) {
	var original *domain.Movement
	for i := range catalog {
		if catalog[i].Name == ex.MovementName {
			original = &catalog[i]
			break
		}
	}
	match := func(m *domain.Movement) bool {
		if taken[m.Name] || t.usedMovements[m.Name] || m.Name == ex.MovementName {
			return false
		}
		if original != nil && original.SubstitutionGroup != "" && m.SubstitutionGroup == original.SubstitutionGroup {
			return true
		}
		pattern := ex.Pattern
		if original != nil {
			pattern = original.Pattern
		}
		return m.Pattern == pattern
	}
	for i := range catalog {
		if match(&catalog[i]) {
			alt := ex
			alt.MovementName = catalog[i].Name
			alt.Pattern = catalog[i].Pattern
			return alt, true
		}
	}
	return domain.PrescribedExercise{}, false
}

// FatiguedMuscles lists muscles whose prior-day volume exceeded the
// carry-over threshold; composition biases selection away from them.
func (t *Tracker) FatiguedMuscles(threshold float64) []string {
	var fatigued []string
	for muscle, volume := range t.prevDayVolume {
		if volume > threshold {
			fatigued = append(fatigued, muscle)
		}
	}
	return fatigued
}

// roleVolumeWeight weights a section's contribution to per-muscle volume.
func roleVolumeWeight(role domain.ExerciseRole) float64 {
	switch role {
	case domain.RoleMain:
		return 3
	case domain.RoleAccessory:
		return 2
	default:
		return 1
	}
}

// RecordDay folds a finished day's content into the tracker state. Main
// patterns come from the session's first two intent tags; per-muscle volume
// is role-weighted with half weight for secondary muscles.
func (t *Tracker) RecordDay(day int, content *domain.SessionContent, intentTags []string, catalog []domain.Movement) {
	byName := make(map[string]*domain.Movement, len(catalog))
	for i := range catalog {
		byName[catalog[i].Name] = &catalog[i]
	}

	volume := map[string]float64{}
	record := func(list []domain.PrescribedExercise) {
		for _, ex := range list {
			t.usedMovements[ex.MovementName] = true
			m, ok := byName[ex.MovementName]
			if !ok {
				continue
			}
			if m.SubstitutionGroup != "" {
				t.usedGroups[m.SubstitutionGroup]++
			}
			w := roleVolumeWeight(ex.Role)
			volume[m.PrimaryMuscle] += w
			for _, sec := range m.SecondaryMuscles {
				volume[sec] += w / 2
			}
		}
	}
	record(content.Warmup)
	record(content.Main)
	record(content.Cooldown)

	var accessoryNames []string
	switch content.Middle.Kind {
	case domain.MiddleAccessory:
		record(content.Middle.Accessory)
		for _, ex := range content.Middle.Accessory {
			accessoryNames = append(accessoryNames, ex.MovementName)
		}
	case domain.MiddleFinisher:
		if content.Middle.Finisher != nil {
			record(content.Middle.Finisher.Movements)
			for _, ex := range content.Middle.Finisher.Movements {
				accessoryNames = append(accessoryNames, ex.MovementName)
			}
		}
	}
	t.usedAccessory[day] = accessoryNames

	patterns := make([]domain.Pattern, 0, 2)
	for _, tag := range intentTags {
		if len(patterns) == 2 {
			break
		}
		if p := domain.Pattern(tag); isPattern(p) {
			patterns = append(patterns, p)
		}
	}
	t.usedMainPattern[day] = patterns

	t.prevDayVolume = volume
	t.lastTrainingDay = day
}

// ResetDay clears any state recorded for a day whose generation failed, so a
// degraded day cannot poison downstream duplicate detection.
func (t *Tracker) ResetDay(day int) {
	delete(t.usedMainPattern, day)
	delete(t.usedAccessory, day)
	if t.lastTrainingDay == day {
		t.prevDayVolume = map[string]float64{}
	}
}

func isPattern(p domain.Pattern) bool {
	switch p {
	case domain.PatternSquat, domain.PatternHinge, domain.PatternLunge,
		domain.PatternHorizontalPush, domain.PatternVerticalPush,
		domain.PatternHorizontalPull, domain.PatternVerticalPull,
		domain.PatternCarry, domain.PatternCore:
		return true
	}
	return false
}

func contains(patterns []domain.Pattern, p domain.Pattern) bool {
	for _, q := range patterns {
		if q == p {
			return true
		}
	}
	return false
}
