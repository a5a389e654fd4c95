package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error)
	// Activate marks the program active and deactivates every other program
	// owned by the same user.
	Activate(ctx context.Context, programID, userID primitive.ObjectID) error
}

// MicrocycleRepository defines the interface for interacting with microcycles.
type MicrocycleRepository interface {
	Create(ctx context.Context, microcycle *domain.Microcycle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Microcycle, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Microcycle, error)
	GetActiveByProgramID(ctx context.Context, programID primitive.ObjectID) (*domain.Microcycle, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MicrocycleStatus) error
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	CreateMany(ctx context.Context, sessions []domain.Session) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetByMicrocycleID returns sessions ordered by ascending day number.
	GetByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.Session, error)
	// ReplaceContent swaps a session's entire content, status, and coach note
	// in a single write, the per-session atomic commit of batch generation.
	ReplaceContent(ctx context.Context, id primitive.ObjectID, content *domain.SessionContent, status domain.GenerationStatus, coachNote string) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GenerationStatus) error
}

// MovementRepository defines the interface for the movement/circuit catalog.
type MovementRepository interface {
	Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error)
	GetAll(ctx context.Context) ([]domain.Movement, error)
	GetByName(ctx context.Context, name string) (*domain.Movement, error)
	Count(ctx context.Context) (int64, error)
	CreateCircuit(ctx context.Context, circuit *domain.CircuitTemplate) (primitive.ObjectID, error)
	GetAllCircuits(ctx context.Context) ([]domain.CircuitTemplate, error)
}

// RecoveryRepository defines the interface for recovery-signal history.
type RecoveryRepository interface {
	Create(ctx context.Context, signal *domain.RecoverySignal) (primitive.ObjectID, error)
	GetSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RecoverySignal, error)
}

// GenerationJobRepository defines the interface for background job bookkeeping.
type GenerationJobRepository interface {
	Create(ctx context.Context, job *domain.GenerationJob) (primitive.ObjectID, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error)
	GetLatestByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) (*domain.GenerationJob, error)
	SetStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, errMsg string) error
}
