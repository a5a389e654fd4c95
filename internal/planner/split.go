package planner

import (
	"math"
	"sort"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// DaySlot is one day of a microcycle skeleton before content generation.
type DaySlot struct {
	DayNumber  int // 1-based within the cycle
	Type       domain.SessionType
	IntentTags []string
}

// TrainingDayCount computes how many days of a cycle are training days:
// round(daysPerWeek * cycleLengthDays / 7), clamped to [2, cycleLengthDays].
func TrainingDayCount(daysPerWeek, cycleLengthDays int) int {
	count := int(math.Round(float64(daysPerWeek) * float64(cycleLengthDays) / 7.0))
	if count < 2 {
		count = 2
	}
	if count > cycleLengthDays {
		count = cycleLengthDays
	}
	return count
}

// trainingDayPositions spreads count training days evenly across the cycle.
// Collisions nudge to the nearest free day, preferring forward.
func trainingDayPositions(count, cycleLengthDays int) []int {
	taken := make([]bool, cycleLengthDays)
	positions := make([]int, 0, count)
	step := float64(cycleLengthDays) / float64(count)
	for k := 0; k < count; k++ {
		pos := int(math.Round((float64(k) + 0.5) * step))
		if pos >= cycleLengthDays {
			pos = cycleLengthDays - 1
		}
		pos = nudgeToFree(pos, taken)
		taken[pos] = true
		positions = append(positions, pos)
	}
	// Backward nudges can land a position before its predecessor.
	sort.Ints(positions)
	return positions
}

func nudgeToFree(pos int, taken []bool) int {
	if !taken[pos] {
		return pos
	}
	for offset := 1; offset < len(taken); offset++ {
		if fwd := pos + offset; fwd < len(taken) && !taken[fwd] {
			return fwd
		}
		if back := pos - offset; back >= 0 && !taken[back] {
			return back
		}
	}
	return pos
}

// archetypeCycle returns the repeating day-type sequence for a weekly
// training frequency.
func archetypeCycle(daysPerWeek int) []domain.SessionType {
	switch {
	case daysPerWeek <= 3:
		return []domain.SessionType{domain.SessionFullBody}
	case daysPerWeek == 4:
		return []domain.SessionType{
			domain.SessionUpper, domain.SessionLower,
			domain.SessionUpper, domain.SessionLower,
			domain.SessionFullBody,
		}
	case daysPerWeek == 5:
		return []domain.SessionType{
			domain.SessionUpper, domain.SessionLower, domain.SessionFullBody,
			domain.SessionUpper, domain.SessionLower,
		}
	default:
		return []domain.SessionType{
			domain.SessionPush, domain.SessionPull, domain.SessionLower,
			domain.SessionUpper, domain.SessionLower, domain.SessionFullBody,
		}
	}
}

// patternRotation tracks per-archetype rotation counters so consecutive days
// of the same archetype do not repeat the same primary pattern pairing.
type patternRotation struct {
	lower int
	push  int
	pull  int
}

var (
	lowerPatterns = []domain.Pattern{domain.PatternSquat, domain.PatternHinge, domain.PatternLunge}
	pushPatterns  = []domain.Pattern{domain.PatternHorizontalPush, domain.PatternVerticalPush}
	pullPatterns  = []domain.Pattern{domain.PatternHorizontalPull, domain.PatternVerticalPull}
)

func (r *patternRotation) nextLower() domain.Pattern {
	p := lowerPatterns[r.lower%len(lowerPatterns)]
	r.lower++
	return p
}

func (r *patternRotation) nextPush() domain.Pattern {
	p := pushPatterns[r.push%len(pushPatterns)]
	r.push++
	return p
}

func (r *patternRotation) nextPull() domain.Pattern {
	p := pullPatterns[r.pull%len(pullPatterns)]
	r.pull++
	return p
}

// tagsFor picks the two primary movement-pattern focuses for a day type.
func (r *patternRotation) tagsFor(t domain.SessionType) []string {
	switch t {
	case domain.SessionLower:
		return []string{string(r.nextLower()), string(r.nextLower())}
	case domain.SessionPush:
		return []string{string(r.nextPush()), string(domain.PatternCore)}
	case domain.SessionPull:
		return []string{string(r.nextPull()), string(domain.PatternCore)}
	case domain.SessionUpper:
		return []string{string(r.nextPush()), string(r.nextPull())}
	case domain.SessionFullBody:
		return []string{string(r.nextLower()), string(r.nextPush())}
	default:
		return nil
	}
}

// BuildSplit produces the evenly spaced training/rest skeleton for one cycle
// and assigns day archetypes with pattern rotation.
func BuildSplit(daysPerWeek, cycleLengthDays int) []DaySlot {
	count := TrainingDayCount(daysPerWeek, cycleLengthDays)
	positions := trainingDayPositions(count, cycleLengthDays)
	training := make(map[int]bool, count)
	for _, p := range positions {
		training[p] = true
	}

	cycle := archetypeCycle(daysPerWeek)
	rotation := &patternRotation{}
	days := make([]DaySlot, 0, cycleLengthDays)
	idx := 0
	for d := 0; d < cycleLengthDays; d++ {
		slot := DaySlot{DayNumber: d + 1, Type: domain.SessionRest}
		if training[d] {
			slot.Type = cycle[idx%len(cycle)]
			slot.IntentTags = rotation.tagsFor(slot.Type)
			idx++
		}
		days = append(days, slot)
	}
	return days
}
