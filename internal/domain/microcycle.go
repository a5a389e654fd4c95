package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MicrocycleStatus tracks the lifecycle of a training block.
type MicrocycleStatus string

const (
	MicrocyclePlanned  MicrocycleStatus = "PLANNED"
	MicrocycleActive   MicrocycleStatus = "ACTIVE"
	MicrocycleComplete MicrocycleStatus = "COMPLETE"
)

// Microcycle is a 7-14 day training block within a Program. Exactly one
// microcycle per program is ACTIVE at a time; the deload flag is derived from
// the program's deload cadence (sequence_number % deload_every_n == 0).
type Microcycle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID      primitive.ObjectID `bson:"programId" json:"programId"`
	SequenceNumber int                `bson:"sequenceNumber" json:"sequenceNumber"` // 1-based
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	LengthDays     int                `bson:"lengthDays" json:"lengthDays"` // 7-14
	Status         MicrocycleStatus   `bson:"status" json:"status"`
	IsDeload       bool               `bson:"isDeload" json:"isDeload"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsDeloadSequence reports whether a microcycle at the given 1-based sequence
// lands on the program's deload cadence.
func IsDeloadSequence(sequenceNumber, deloadEveryN int) bool {
	if deloadEveryN <= 0 {
		return false
	}
	return sequenceNumber%deloadEveryN == 0
}
