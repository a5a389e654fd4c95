package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType is the archetype of a training day.
type SessionType string

const (
	SessionUpper        SessionType = "UPPER"
	SessionLower        SessionType = "LOWER"
	SessionPush         SessionType = "PUSH"
	SessionPull         SessionType = "PULL"
	SessionFullBody     SessionType = "FULL_BODY"
	SessionCardio       SessionType = "CARDIO"
	SessionMobility     SessionType = "MOBILITY"
	SessionConditioning SessionType = "CONDITIONING"
	SessionRecovery     SessionType = "RECOVERY"
	SessionRest         SessionType = "REST"
)

// IsLifting reports whether the session type is a lifting archetype whose
// content goes through the solver/composer pipeline.
func (t SessionType) IsLifting() bool {
	switch t {
	case SessionUpper, SessionLower, SessionPush, SessionPull, SessionFullBody:
		return true
	}
	return false
}

// Intent-tag hints carried alongside movement-pattern focuses.
const (
	TagPreferFinisher  = "prefer_finisher"
	TagPreferAccessory = "prefer_accessory"
	TagConditioning    = "conditioning"
	TagCardio          = "cardio"
)

// GenerationStatus is the visible state of a session's content pipeline.
type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationInProgress GenerationStatus = "generating"
	GenerationReady      GenerationStatus = "ready"
	GenerationFailed     GenerationStatus = "failed"
)

// ExerciseRole places a prescribed exercise in one of the five session sections.
type ExerciseRole string

const (
	RoleWarmup    ExerciseRole = "warmup"
	RoleMain      ExerciseRole = "main"
	RoleAccessory ExerciseRole = "accessory"
	RoleFinisher  ExerciseRole = "finisher"
	RoleCooldown  ExerciseRole = "cooldown"
)

// PrescribedExercise is one selection-unit row of a session's content.
// Rows are created fresh per generation pass; prior rows for a session are
// replaced wholesale, never patched in place.
type PrescribedExercise struct {
	MovementName    string       `bson:"movementName" json:"movementName"`
	Pattern         Pattern      `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Role            ExerciseRole `bson:"role" json:"role"`
	OrderIndex      int          `bson:"orderIndex" json:"orderIndex"`
	Sets            int          `bson:"sets" json:"sets"`
	RepMin          int          `bson:"repMin,omitempty" json:"repMin,omitempty"`
	RepMax          int          `bson:"repMax,omitempty" json:"repMax,omitempty"`
	TargetRPE       float64      `bson:"targetRpe,omitempty" json:"targetRpe,omitempty"`
	RestSeconds     int          `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	DurationSeconds int          `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	SupersetGroup   string       `bson:"supersetGroup,omitempty" json:"supersetGroup,omitempty"`
}

// FinisherFormat is the structure of a finisher block.
type FinisherFormat string

const (
	FinisherAMRAP    FinisherFormat = "amrap"
	FinisherEMOM     FinisherFormat = "emom"
	FinisherInterval FinisherFormat = "interval"
)

// FinisherBlock is a short high-density block closing the main work.
type FinisherBlock struct {
	Name            string               `bson:"name" json:"name"`
	Format          FinisherFormat       `bson:"format" json:"format"`
	DurationSeconds int                  `bson:"durationSeconds" json:"durationSeconds"`
	Movements       []PrescribedExercise `bson:"movements" json:"movements"`
}

// MiddleKind tags the middle-section variant.
type MiddleKind string

const (
	MiddleNone      MiddleKind = "none"
	MiddleAccessory MiddleKind = "accessory"
	MiddleFinisher  MiddleKind = "finisher"
)

// MiddleSection is the accessory-or-finisher slot of a session. A session has
// at most one of the two populated, never both; the tag makes the invariant
// structural rather than a pair of nullable fields.
type MiddleSection struct {
	Kind      MiddleKind           `bson:"kind" json:"kind"`
	Accessory []PrescribedExercise `bson:"accessory,omitempty" json:"accessory,omitempty"`
	Finisher  *FinisherBlock       `bson:"finisher,omitempty" json:"finisher,omitempty"`
}

func NoMiddle() MiddleSection {
	return MiddleSection{Kind: MiddleNone}
}

func AccessoryMiddle(exs []PrescribedExercise) MiddleSection {
	if len(exs) == 0 {
		return NoMiddle()
	}
	return MiddleSection{Kind: MiddleAccessory, Accessory: exs}
}

func FinisherMiddle(f FinisherBlock) MiddleSection {
	return MiddleSection{Kind: MiddleFinisher, Finisher: &f}
}

// SessionContent is the final five-section shape produced by composition.
type SessionContent struct {
	Warmup           []PrescribedExercise `bson:"warmup,omitempty" json:"warmup,omitempty"`
	Main             []PrescribedExercise `bson:"main,omitempty" json:"main,omitempty"`
	Middle           MiddleSection        `bson:"middle" json:"middle"`
	Cooldown         []PrescribedExercise `bson:"cooldown,omitempty" json:"cooldown,omitempty"`
	EstimatedMinutes int                  `bson:"estimatedMinutes" json:"estimatedMinutes"`
	Rationale        string               `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// Session is one scheduled day within a microcycle.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MicrocycleID primitive.ObjectID `bson:"microcycleId" json:"microcycleId"`
	ProgramID    primitive.ObjectID `bson:"programId" json:"programId"` // denormalized for query/auth
	Date         time.Time          `bson:"date" json:"date"`
	DayNumber    int                `bson:"dayNumber" json:"dayNumber"` // 1-based within the cycle
	Type         SessionType        `bson:"type" json:"type"`
	IntentTags   []string           `bson:"intentTags,omitempty" json:"intentTags,omitempty"`
	Content      *SessionContent    `bson:"content,omitempty" json:"content,omitempty"`
	Status       GenerationStatus   `bson:"status" json:"status"`
	CoachNote    string             `bson:"coachNote,omitempty" json:"coachNote,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasTag reports whether an intent tag is present.
func (s *Session) HasTag(tag string) bool {
	for _, t := range s.IntentTags {
		if t == tag {
			return true
		}
	}
	return false
}
