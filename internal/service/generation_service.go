package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

var (
	ErrQueueFull          = errors.New("generation queue is full")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotRetrying = errors.New("session is not in a retryable state")
)

// placeholderCoachNote is written when a session's generation degrades.
const placeholderCoachNote = "Automatic generation failed for this day; a simple default was scheduled instead. Regenerate or edit manually."

// fatigue budgets per session, in catalog fatigue-factor units.
const (
	sessionFatigueBudget = 25.0
	deloadFatigueScale   = 0.6
)

// GenerationService runs the background content-population pipeline. Jobs are
// consumed by an in-process worker pool; each job fills every session of one
// microcycle in ascending day order, carrying a single interference tracker
// across the cycle.
type GenerationService interface {
	// EnqueueMicrocycle records a queued job and hands it to the worker pool.
	EnqueueMicrocycle(ctx context.Context, programID, microcycleID primitive.ObjectID) (uuid.UUID, error)
	// JobStatus returns the job record for a correlation ID.
	JobStatus(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error)
	// RegenerateSession synchronously retries one failed session.
	RegenerateSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error)

	Start()
	Stop()
}

type queuedJob struct {
	jobID        uuid.UUID
	programID    primitive.ObjectID
	microcycleID primitive.ObjectID
}

type generationService struct {
	programRepo repository.ProgramRepository
	microRepo   repository.MicrocycleRepository
	sessionRepo repository.SessionRepository
	catalogRepo repository.MovementRepository
	jobRepo     repository.GenerationJobRepository

	plannerCfg planner.Config
	composer   *planner.Composer
	log        *logger.Logger

	jobs    chan queuedJob
	workers int
	wg      sync.WaitGroup
	once    sync.Once
}

// NewGenerationService creates the generation worker service. workers and
// queueSize below 1 fall back to sane minimums.
func NewGenerationService(
	programRepo repository.ProgramRepository,
	microRepo repository.MicrocycleRepository,
	sessionRepo repository.SessionRepository,
	catalogRepo repository.MovementRepository,
	jobRepo repository.GenerationJobRepository,
	plannerCfg planner.Config,
	composer *planner.Composer,
	log *logger.Logger,
	workers, queueSize int,
) GenerationService {
	if workers < 1 {
		workers = 1
	}
	if queueSize < workers {
		queueSize = workers * 4
	}
	return &generationService{
		programRepo: programRepo,
		microRepo:   microRepo,
		sessionRepo: sessionRepo,
		catalogRepo: catalogRepo,
		jobRepo:     jobRepo,
		plannerCfg:  plannerCfg,
		composer:    composer,
		log:         log.With("component", "generation"),
		jobs:        make(chan queuedJob, queueSize),
		workers:     workers,
	}
}

func (s *generationService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func(worker int) {
			defer s.wg.Done()
			for job := range s.jobs {
				s.runJob(job, worker)
			}
		}(i)
	}
	s.log.Info("generation workers started", "workers", s.workers)
}

// Stop drains the queue and waits for in-flight jobs to finish.
func (s *generationService) Stop() {
	s.once.Do(func() { close(s.jobs) })
	s.wg.Wait()
	s.log.Info("generation workers stopped")
}

func (s *generationService) EnqueueMicrocycle(ctx context.Context, programID, microcycleID primitive.ObjectID) (uuid.UUID, error) {
	job := &domain.GenerationJob{
		JobID:        uuid.New(),
		ProgramID:    programID,
		MicrocycleID: microcycleID,
		Status:       domain.JobQueued,
		EnqueuedAt:   time.Now().UTC(),
	}
	if _, err := s.jobRepo.Create(ctx, job); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record generation job: %w", err)
	}
	select {
	case s.jobs <- queuedJob{jobID: job.JobID, programID: programID, microcycleID: microcycleID}:
		return job.JobID, nil
	default:
		_ = s.jobRepo.SetStatus(ctx, job.JobID, domain.JobFailed, ErrQueueFull.Error())
		return uuid.Nil, ErrQueueFull
	}
}

func (s *generationService) JobStatus(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error) {
	return s.jobRepo.GetByJobID(ctx, jobID)
}

// runJob populates every session of one microcycle. Individual session
// failures degrade to placeholder content and the pass keeps going; the job
// itself fails only when its inputs cannot be loaded.
func (s *generationService) runJob(job queuedJob, worker int) {
	ctx := context.Background()
	log := s.log.With("jobId", job.jobID.String(), "worker", worker)

	if err := s.jobRepo.SetStatus(ctx, job.jobID, domain.JobRunning, ""); err != nil {
		log.Error("failed to mark job running", "error", err)
	}

	program, err := s.programRepo.GetByID(ctx, job.programID)
	if err != nil {
		s.failJob(ctx, log, job.jobID, fmt.Errorf("load program: %w", err))
		return
	}
	micro, err := s.microRepo.GetByID(ctx, job.microcycleID)
	if err != nil {
		s.failJob(ctx, log, job.jobID, fmt.Errorf("load microcycle: %w", err))
		return
	}
	sessions, err := s.sessionRepo.GetByMicrocycleID(ctx, job.microcycleID)
	if err != nil {
		s.failJob(ctx, log, job.jobID, fmt.Errorf("load sessions: %w", err))
		return
	}
	catalog, circuits, err := s.loadCatalog(ctx)
	if err != nil {
		s.failJob(ctx, log, job.jobID, err)
		return
	}

	tracker := planner.NewTracker()
	for i := range sessions {
		sess := &sessions[i]
		if sess.Type == domain.SessionRest {
			continue
		}
		s.populateSession(ctx, log, program, micro, sess, tracker, catalog, circuits)
	}

	if err := s.jobRepo.SetStatus(ctx, job.jobID, domain.JobSucceeded, ""); err != nil {
		log.Error("failed to mark job succeeded", "error", err)
	}
	log.Info("microcycle generation finished", "microcycleId", micro.ID.Hex(), "sessions", len(sessions))
}

func (s *generationService) failJob(ctx context.Context, log *logger.Logger, jobID uuid.UUID, cause error) {
	log.Error("generation job failed", "error", cause)
	if err := s.jobRepo.SetStatus(ctx, jobID, domain.JobFailed, cause.Error()); err != nil {
		log.Error("failed to mark job failed", "error", err)
	}
}

func (s *generationService) loadCatalog(ctx context.Context) ([]domain.Movement, []domain.CircuitTemplate, error) {
	catalog, err := s.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load movement catalog: %w", err)
	}
	circuits, err := s.catalogRepo.GetAllCircuits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load circuit catalog: %w", err)
	}
	return catalog, circuits, nil
}

// populateSession generates and commits content for a single session. Each
// session is its own write so a crash mid-cycle leaves finished days intact.
func (s *generationService) populateSession(
	ctx context.Context,
	log *logger.Logger,
	program *domain.Program,
	micro *domain.Microcycle,
	sess *domain.Session,
	tracker *planner.Tracker,
	catalog []domain.Movement,
	circuits []domain.CircuitTemplate,
) {
	if err := s.sessionRepo.UpdateStatus(ctx, sess.ID, domain.GenerationInProgress); err != nil {
		log.Error("failed to mark session generating", "sessionId", sess.ID.Hex(), "error", err)
	}

	content, err := s.generateContent(ctx, program, micro, sess, tracker, catalog, circuits)
	if err != nil {
		log.Warn("session generation degraded to placeholder", "day", sess.DayNumber, "error", err)
		tracker.ResetDay(sess.DayNumber)
		placeholder := placeholderContent(sess.Type)
		if repErr := s.sessionRepo.ReplaceContent(ctx, sess.ID, placeholder, domain.GenerationFailed, placeholderCoachNote); repErr != nil {
			log.Error("failed to persist placeholder content", "sessionId", sess.ID.Hex(), "error", repErr)
		}
		return
	}

	if err := s.sessionRepo.ReplaceContent(ctx, sess.ID, content, domain.GenerationReady, ""); err != nil {
		log.Error("failed to persist session content", "sessionId", sess.ID.Hex(), "error", err)
		return
	}
	tracker.RecordDay(sess.DayNumber, content, sess.IntentTags, catalog)
}

// generateContent runs the solve-then-compose pipeline for one session.
// A panic anywhere in the pipeline is captured as an error so one bad day
// never takes down the whole pass.
func (s *generationService) generateContent(
	ctx context.Context,
	program *domain.Program,
	micro *domain.Microcycle,
	sess *domain.Session,
	tracker *planner.Tracker,
	catalog []domain.Movement,
	circuits []domain.CircuitTemplate,
) (content *domain.SessionContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	var draft *planner.SolveResult
	if sess.Type.IsLifting() {
		if len(catalog) == 0 {
			return nil, errors.New("movement catalog is empty")
		}
		req := s.buildSolveRequest(program, micro, sess, tracker, catalog, circuits)
		res := s.plannerCfg.Solve(req)
		if res.Status != planner.StatusInfeasible {
			draft = &res
		}
	}

	content = s.composer.Compose(ctx, planner.ComposeInput{
		SessionType:       sess.Type,
		DayNumber:         sess.DayNumber,
		IntentTags:        sess.IntentTags,
		Draft:             draft,
		Tracker:           tracker,
		Goals:             program.Goals,
		MaxSessionMinutes: program.MaxSessionMinutes,
		Catalog:           catalog,
		IsDeload:          micro.IsDeload,
	})
	if content == nil || len(content.Main) == 0 && content.Middle.Kind == domain.MiddleNone && len(content.Cooldown) == 0 {
		return nil, errors.New("composer produced empty content")
	}
	return content, nil
}

// buildSolveRequest translates the session skeleton into the solver's
// selection problem: per-muscle set targets by archetype, a fatigue budget
// scaled down on deload cycles, and exclusions for everything the tracker has
// already used this cycle.
func (s *generationService) buildSolveRequest(
	program *domain.Program,
	micro *domain.Microcycle,
	sess *domain.Session,
	tracker *planner.Tracker,
	catalog []domain.Movement,
	circuits []domain.CircuitTemplate,
) planner.SolveRequest {
	maxFatigue := sessionFatigueBudget
	if micro.IsDeload {
		maxFatigue *= deloadFatigueScale
	}

	excluded := make([]string, 0)
	for _, m := range catalog {
		if tracker.UsedMovement(m.Name) {
			excluded = append(excluded, m.Name)
		}
	}

	// Only offer circuits on days that lean metabolic.
	var offeredCircuits []domain.CircuitTemplate
	if sess.HasTag(domain.TagPreferFinisher) {
		offeredCircuits = circuits
	}

	return planner.SolveRequest{
		Movements:          movementsForType(sess.Type, catalog),
		Circuits:           offeredCircuits,
		TargetMuscleSets:   muscleTargets(sess.Type, s.plannerCfg.SetsPerMovement),
		MaxFatigue:         maxFatigue,
		MaxDurationMinutes: program.MaxSessionMinutes,
		ExcludedNames:      excluded,
		Goals:              program.Goals,
	}
}

// movementsForType filters the catalog down to regions relevant to the
// session archetype. FULL_BODY sees everything.
func movementsForType(t domain.SessionType, catalog []domain.Movement) []domain.Movement {
	allowed := map[domain.Region]bool{}
	switch t {
	case domain.SessionUpper:
		allowed[domain.RegionPush] = true
		allowed[domain.RegionPull] = true
		allowed[domain.RegionCore] = true
	case domain.SessionLower:
		allowed[domain.RegionLower] = true
		allowed[domain.RegionCore] = true
	case domain.SessionPush:
		allowed[domain.RegionPush] = true
		allowed[domain.RegionCore] = true
	case domain.SessionPull:
		allowed[domain.RegionPull] = true
		allowed[domain.RegionCore] = true
	default:
		return catalog
	}
	out := make([]domain.Movement, 0, len(catalog))
	for _, m := range catalog {
		if allowed[m.PrimaryRegion] {
			out = append(out, m)
		}
	}
	return out
}

// muscleTargets gives the per-muscle set coverage the solver must hit for
// each lifting archetype.
func muscleTargets(t domain.SessionType, setsPerMuscle int) map[string]int {
	var muscles []string
	switch t {
	case domain.SessionUpper:
		muscles = []string{"chest", "lats", "shoulders"}
	case domain.SessionLower:
		muscles = []string{"quads", "hamstrings", "glutes"}
	case domain.SessionPush:
		muscles = []string{"chest", "shoulders"}
	case domain.SessionPull:
		muscles = []string{"lats", "upper_back"}
	case domain.SessionFullBody:
		muscles = []string{"quads", "chest", "lats"}
	}
	targets := make(map[string]int, len(muscles))
	for _, m := range muscles {
		targets[m] = setsPerMuscle
	}
	return targets
}

// placeholderContent is the minimal safe session written when generation for
// a day fails outright.
func placeholderContent(t domain.SessionType) *domain.SessionContent {
	main := domain.PrescribedExercise{
		MovementName: "Coach's Choice Circuit", Role: domain.RoleMain, OrderIndex: 0,
		Sets: 3, RepMin: 10, RepMax: 15, TargetRPE: 6, RestSeconds: 60,
	}
	if !t.IsLifting() {
		main = domain.PrescribedExercise{
			MovementName: "Easy Aerobic Work", Role: domain.RoleMain, OrderIndex: 0,
			Sets: 1, DurationSeconds: 1800,
		}
	}
	return &domain.SessionContent{
		Warmup: []domain.PrescribedExercise{
			{MovementName: "General Warmup", Role: domain.RoleWarmup, OrderIndex: 0, Sets: 1, DurationSeconds: 300},
		},
		Main:   []domain.PrescribedExercise{main},
		Middle: domain.NoMiddle(),
		Cooldown: []domain.PrescribedExercise{
			{MovementName: "Cooldown Stretch", Role: domain.RoleCooldown, OrderIndex: 0, Sets: 1, DurationSeconds: 300},
		},
		EstimatedMinutes: 40,
		Rationale:        "Fallback session scheduled after a generation failure.",
	}
}

// RegenerateSession retries generation for a single session synchronously.
// The interference tracker is rebuilt by replaying every earlier ready day of
// the same microcycle so the retried day still respects cycle-level rules.
func (s *generationService) RegenerateSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	program, err := s.programRepo.GetByID(ctx, sess.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	if program.UserID != userID {
		return nil, ErrProgramAccessDenied
	}
	if sess.Type == domain.SessionRest {
		return nil, ErrSessionNotRetrying
	}
	micro, err := s.microRepo.GetByID(ctx, sess.MicrocycleID)
	if err != nil {
		return nil, fmt.Errorf("load microcycle: %w", err)
	}
	siblings, err := s.sessionRepo.GetByMicrocycleID(ctx, sess.MicrocycleID)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	catalog, circuits, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	tracker := planner.NewTracker()
	for i := range siblings {
		sib := &siblings[i]
		if sib.DayNumber >= sess.DayNumber {
			break
		}
		if sib.Status == domain.GenerationReady && sib.Content != nil {
			tracker.RecordDay(sib.DayNumber, sib.Content, sib.IntentTags, catalog)
		}
	}

	content, err := s.generateContent(ctx, program, micro, sess, tracker, catalog, circuits)
	if err != nil {
		return nil, fmt.Errorf("regeneration failed: %w", err)
	}
	if err := s.sessionRepo.ReplaceContent(ctx, sess.ID, content, domain.GenerationReady, ""); err != nil {
		return nil, err
	}
	sess.Content = content
	sess.Status = domain.GenerationReady
	sess.CoachNote = ""
	return sess, nil
}
