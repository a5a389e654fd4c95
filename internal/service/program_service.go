package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
	"github.com/shourjoguha/Gainsly-sub000/internal/storage"
)

var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("program does not belong to this user")
	ErrProgramFinished     = errors.New("program has no remaining microcycles")
	ErrNoActiveMicrocycle  = errors.New("program has no active microcycle")
)

// CreateProgramInput carries the user-supplied program parameters. Zero
// values for DeloadEveryN and MaxSessionMinutes fall back to defaults.
type CreateProgramInput struct {
	Name              string
	StartDate         time.Time
	DurationWeeks     int
	Goals             []domain.GoalWeight
	DaysPerWeek       int
	DeloadEveryN      int
	MaxSessionMinutes int
	Prefs             domain.SchedulingPrefs
	Experience        domain.ExperienceLevel
}

// MicrocycleDetail is a microcycle with its sessions attached.
type MicrocycleDetail struct {
	Microcycle domain.Microcycle `json:"microcycle"`
	Sessions   []domain.Session  `json:"sessions"`
}

// ProgramDetail is the full hydrated view of a program.
type ProgramDetail struct {
	Program     domain.Program     `json:"program"`
	Microcycles []MicrocycleDetail `json:"microcycles"`
}

// ProgramService orchestrates program creation, microcycle advancement, and
// snapshot export. Creation persists every microcycle skeleton up front with
// empty pending sessions; content arrives asynchronously through the
// generation service.
type ProgramService interface {
	CreateProgram(ctx context.Context, userID primitive.ObjectID, in CreateProgramInput) (*domain.Program, uuid.UUID, error)
	GetProgram(ctx context.Context, userID, programID primitive.ObjectID) (*ProgramDetail, error)
	ListPrograms(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error)
	GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error)
	// GenerateNextMicrocycle completes the active microcycle, activates the
	// next one, and enqueues its generation job.
	GenerateNextMicrocycle(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Microcycle, uuid.UUID, error)
	// ExportProgram archives a JSON snapshot of the program to object storage
	// and returns a presigned download URL.
	ExportProgram(ctx context.Context, userID, programID primitive.ObjectID) (string, error)
}

type programService struct {
	programRepo repository.ProgramRepository
	microRepo   repository.MicrocycleRepository
	sessionRepo repository.SessionRepository
	generation  GenerationService
	store       storage.FileStorage
	plannerCfg  planner.Config
	log         *logger.Logger

	defaultSessionMinutes int
	defaultDeloadEveryN   int
}

// NewProgramService wires the program orchestrator.
func NewProgramService(
	programRepo repository.ProgramRepository,
	microRepo repository.MicrocycleRepository,
	sessionRepo repository.SessionRepository,
	generation GenerationService,
	store storage.FileStorage,
	plannerCfg planner.Config,
	log *logger.Logger,
	defaultSessionMinutes int,
) ProgramService {
	if defaultSessionMinutes <= 0 {
		defaultSessionMinutes = 60
	}
	return &programService{
		programRepo:           programRepo,
		microRepo:             microRepo,
		sessionRepo:           sessionRepo,
		generation:            generation,
		store:                 store,
		plannerCfg:            plannerCfg,
		log:                   log.With("component", "programs"),
		defaultSessionMinutes: defaultSessionMinutes,
		defaultDeloadEveryN:   4,
	}
}

func (s *programService) CreateProgram(ctx context.Context, userID primitive.ObjectID, in CreateProgramInput) (*domain.Program, uuid.UUID, error) {
	goals, err := domain.NewGoalWeights(in.Goals)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if in.DeloadEveryN <= 0 {
		in.DeloadEveryN = s.defaultDeloadEveryN
	}
	if in.MaxSessionMinutes <= 0 {
		in.MaxSessionMinutes = s.defaultSessionMinutes
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if in.Experience == "" {
		in.Experience = domain.ExperienceIntermediate
	}
	if in.Prefs.CardioPreference == "" {
		in.Prefs.CardioPreference = domain.CardioPreferenceFinisher
	}
	if in.Prefs.DedicatedCardioDay == "" {
		in.Prefs.DedicatedCardioDay = domain.DedicatedCardioAuto
	}

	program := &domain.Program{
		UserID:            userID,
		Name:              in.Name,
		StartDate:         in.StartDate,
		DurationWeeks:     in.DurationWeeks,
		Goals:             goals,
		DaysPerWeek:       in.DaysPerWeek,
		DeloadEveryN:      in.DeloadEveryN,
		MaxSessionMinutes: in.MaxSessionMinutes,
		Prefs:             in.Prefs,
		Experience:        in.Experience,
	}
	if err := program.Validate(); err != nil {
		return nil, uuid.Nil, err
	}

	lengths, err := planner.PartitionMicrocycles(in.DurationWeeks*7, s.plannerCfg.DefaultMicrocycleDays)
	if err != nil {
		return nil, uuid.Nil, err
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to create program: %w", err)
	}
	program.ID = programID

	var firstMicroID primitive.ObjectID
	start := program.StartDate
	for i, length := range lengths {
		micro := &domain.Microcycle{
			ProgramID:      programID,
			SequenceNumber: i + 1,
			StartDate:      start,
			LengthDays:     length,
			Status:         domain.MicrocyclePlanned,
			IsDeload:       domain.IsDeloadSequence(i+1, program.DeloadEveryN),
		}
		if i == 0 {
			micro.Status = domain.MicrocycleActive
		}
		microID, err := s.microRepo.Create(ctx, micro)
		if err != nil {
			return nil, uuid.Nil, fmt.Errorf("failed to create microcycle %d: %w", i+1, err)
		}
		if i == 0 {
			firstMicroID = microID
		}

		sessions := s.buildSkeleton(program, microID, start, length)
		if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
			return nil, uuid.Nil, fmt.Errorf("failed to create sessions for microcycle %d: %w", i+1, err)
		}
		start = start.AddDate(0, 0, length)
	}

	if err := s.programRepo.Activate(ctx, programID, userID); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to activate program: %w", err)
	}
	program.IsActive = true

	jobID, err := s.generation.EnqueueMicrocycle(ctx, programID, firstMicroID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	s.log.Info("program created", "programId", programID.Hex(), "microcycles", len(lengths), "jobId", jobID.String())
	return program, jobID, nil
}

// buildSkeleton runs split construction and day-type distribution for one
// microcycle and turns the slots into pending sessions. Rest days are stored
// too, already ready, so the cycle's calendar is complete.
func (s *programService) buildSkeleton(program *domain.Program, microID primitive.ObjectID, start time.Time, length int) []domain.Session {
	slots := s.plannerCfg.DistributeCycle(planner.DistributeInput{
		Days:              planner.BuildSplit(program.DaysPerWeek, length),
		Goals:             program.Goals,
		Prefs:             program.Prefs,
		Experience:        program.Experience,
		DaysPerWeek:       program.DaysPerWeek,
		CycleLengthDays:   length,
		MaxSessionMinutes: program.MaxSessionMinutes,
	})

	sessions := make([]domain.Session, 0, len(slots))
	for _, slot := range slots {
		status := domain.GenerationPending
		if slot.Type == domain.SessionRest {
			status = domain.GenerationReady
		}
		sessions = append(sessions, domain.Session{
			MicrocycleID: microID,
			ProgramID:    program.ID,
			Date:         start.AddDate(0, 0, slot.DayNumber-1),
			DayNumber:    slot.DayNumber,
			Type:         slot.Type,
			IntentTags:   slot.IntentTags,
			Status:       status,
		})
	}
	return sessions
}

func (s *programService) GetProgram(ctx context.Context, userID, programID primitive.ObjectID) (*ProgramDetail, error) {
	program, err := s.ownedProgram(ctx, userID, programID)
	if err != nil {
		return nil, err
	}
	micros, err := s.microRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}
	detail := &ProgramDetail{Program: *program, Microcycles: make([]MicrocycleDetail, 0, len(micros))}
	for _, micro := range micros {
		sessions, err := s.sessionRepo.GetByMicrocycleID(ctx, micro.ID)
		if err != nil {
			return nil, err
		}
		detail.Microcycles = append(detail.Microcycles, MicrocycleDetail{Microcycle: micro, Sessions: sessions})
	}
	return detail, nil
}

func (s *programService) ListPrograms(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByUserID(ctx, userID)
}

func (s *programService) GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if _, err := s.ownedProgram(ctx, userID, sess.ProgramID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *programService) GenerateNextMicrocycle(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Microcycle, uuid.UUID, error) {
	if _, err := s.ownedProgram(ctx, userID, programID); err != nil {
		return nil, uuid.Nil, err
	}
	active, err := s.microRepo.GetActiveByProgramID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, uuid.Nil, ErrNoActiveMicrocycle
		}
		return nil, uuid.Nil, err
	}

	micros, err := s.microRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	var next *domain.Microcycle
	for i := range micros {
		if micros[i].SequenceNumber == active.SequenceNumber+1 {
			next = &micros[i]
			break
		}
	}
	if next == nil {
		return nil, uuid.Nil, ErrProgramFinished
	}

	if err := s.microRepo.UpdateStatus(ctx, active.ID, domain.MicrocycleComplete); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to complete microcycle: %w", err)
	}
	if err := s.microRepo.UpdateStatus(ctx, next.ID, domain.MicrocycleActive); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to activate microcycle: %w", err)
	}
	next.Status = domain.MicrocycleActive

	jobID, err := s.generation.EnqueueMicrocycle(ctx, programID, next.ID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	s.log.Info("advanced to next microcycle",
		"programId", programID.Hex(), "sequence", next.SequenceNumber, "deload", next.IsDeload, "jobId", jobID.String())
	return next, jobID, nil
}

func (s *programService) ExportProgram(ctx context.Context, userID, programID primitive.ObjectID) (string, error) {
	detail, err := s.GetProgram(ctx, userID, programID)
	if err != nil {
		return "", err
	}
	snapshot, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize program snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", programID.Hex(), uuid.New().String())
	if err := s.store.PutObject(ctx, key, "application/json", snapshot); err != nil {
		return "", fmt.Errorf("failed to upload program snapshot: %w", err)
	}
	url, err := s.store.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign snapshot download: %w", err)
	}
	s.log.Info("program snapshot exported", "programId", programID.Hex(), "key", key)
	return url, nil
}

func (s *programService) ownedProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.UserID != userID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}
