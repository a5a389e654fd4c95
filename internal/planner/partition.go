package planner

import (
	"fmt"
	"math"
)

const (
	MinMicrocycleDays = 7
	MaxMicrocycleDays = 14
)

// PartitionMicrocycles splits a program's total day count into microcycle
// lengths of 7-14 days summing exactly to the total. preferredDays steers the
// block size; leftovers are spread one day at a time across the leading
// blocks so lengths never leave the legal range.
func PartitionMicrocycles(totalDays, preferredDays int) ([]int, error) {
	if totalDays < MinMicrocycleDays {
		return nil, fmt.Errorf("cannot partition %d days into microcycles of at least %d days", totalDays, MinMicrocycleDays)
	}
	if preferredDays < MinMicrocycleDays {
		preferredDays = MinMicrocycleDays
	}
	if preferredDays > MaxMicrocycleDays {
		preferredDays = MaxMicrocycleDays
	}

	n := int(math.Round(float64(totalDays) / float64(preferredDays)))
	if n < 1 {
		n = 1
	}
	// Shrink the block count until the base length fits the legal range.
	for n > 1 && totalDays/n < MinMicrocycleDays {
		n--
	}
	for totalDays/n > MaxMicrocycleDays {
		n++
	}

	base := totalDays / n
	rem := totalDays % n
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = base
		if i < rem {
			lengths[i]++
		}
	}
	for _, l := range lengths {
		if l < MinMicrocycleDays || l > MaxMicrocycleDays {
			return nil, fmt.Errorf("partition produced an out-of-range microcycle length %d", l)
		}
	}
	return lengths, nil
}
