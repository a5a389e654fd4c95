package domain

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus is the lifecycle of a background generation job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// GenerationJob records one background content-population pass for a
// microcycle. The job succeeds even when individual sessions degrade to
// placeholder content; Failed is reserved for a pass that could not run.
type GenerationJob struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID        uuid.UUID          `bson:"jobId" json:"jobId"` // correlation ID surfaced to API consumers
	ProgramID    primitive.ObjectID `bson:"programId" json:"programId"`
	MicrocycleID primitive.ObjectID `bson:"microcycleId" json:"microcycleId"`
	Status       JobStatus          `bson:"status" json:"status"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	EnqueuedAt   time.Time          `bson:"enqueuedAt" json:"enqueuedAt"`
	StartedAt    *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	FinishedAt   *time.Time         `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`
}
