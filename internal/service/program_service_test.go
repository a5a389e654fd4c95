package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/llm"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
)

// harness wires every service against the in-memory fakes.
type harness struct {
	users     *fakeUserRepo
	programs  *fakeProgramRepo
	micros    *fakeMicrocycleRepo
	sessions  *fakeSessionRepo
	movements *fakeMovementRepo
	jobs      *fakeJobRepo
	recovery  *fakeRecoveryRepo
	store     *fakeStorage

	generation GenerationService
	programSvc ProgramService
	catalogSvc CatalogService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:     newFakeUserRepo(),
		programs:  newFakeProgramRepo(),
		micros:    newFakeMicrocycleRepo(),
		sessions:  newFakeSessionRepo(),
		movements: newFakeMovementRepo(),
		jobs:      newFakeJobRepo(),
		recovery:  newFakeRecoveryRepo(),
		store:     newFakeStorage(),
	}
	log := logger.NewNop()
	cfg := planner.DefaultConfig()
	cfg.SolverBudget = 2 * time.Second
	composer := planner.NewComposer(cfg, llm.StaticClient{Text: "Stay consistent."}, log)
	h.generation = NewGenerationService(h.programs, h.micros, h.sessions, h.movements, h.jobs, cfg, composer, log, 2, 32)
	h.programSvc = NewProgramService(h.programs, h.micros, h.sessions, h.generation, h.store, cfg, log, 60)
	h.catalogSvc = NewCatalogService(h.movements, log)
	return h
}

func validProgramInput() CreateProgramInput {
	return CreateProgramInput{
		Name:          "Spring Strength Block",
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 8,
		Goals: []domain.GoalWeight{
			{Goal: domain.GoalStrength, Weight: 6},
			{Goal: domain.GoalHypertrophy, Weight: 4},
		},
		DaysPerWeek: 4,
	}
}

func TestCreateProgram_BuildsFullSkeleton(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	program, jobID, err := h.programSvc.CreateProgram(ctx, userID, validProgramInput())
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.NotEqual(t, uuid.Nil, jobID)
	assert.True(t, program.IsActive)
	assert.Equal(t, 4, program.DeloadEveryN)
	assert.Equal(t, 60, program.MaxSessionMinutes)
	assert.Equal(t, domain.ExperienceIntermediate, program.Experience)

	micros, err := h.micros.GetByProgramID(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, micros, 8) // 56 days in weekly blocks

	start := program.StartDate
	for i, m := range micros {
		assert.Equal(t, i+1, m.SequenceNumber)
		assert.Equal(t, 7, m.LengthDays)
		assert.True(t, m.StartDate.Equal(start), "microcycle %d start date", i+1)
		wantStatus := domain.MicrocyclePlanned
		if i == 0 {
			wantStatus = domain.MicrocycleActive
		}
		assert.Equal(t, wantStatus, m.Status, "microcycle %d status", i+1)
		assert.Equal(t, (i+1)%4 == 0, m.IsDeload, "microcycle %d deload flag", i+1)

		sessions, err := h.sessions.GetByMicrocycleID(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 7, "microcycle %d session count", i+1)
		training := 0
		for _, sess := range sessions {
			assert.True(t, sess.Date.Equal(m.StartDate.AddDate(0, 0, sess.DayNumber-1)))
			if sess.Type == domain.SessionRest {
				assert.Equal(t, domain.GenerationReady, sess.Status)
			} else {
				assert.Equal(t, domain.GenerationPending, sess.Status)
				training++
			}
		}
		assert.Equal(t, 4, training, "microcycle %d training days", i+1)
		start = start.AddDate(0, 0, m.LengthDays)
	}

	job, err := h.jobs.GetByJobID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, job.Status)
	assert.Equal(t, micros[0].ID, job.MicrocycleID)
}

func TestCreateProgram_RejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	in := validProgramInput()
	in.DurationWeeks = 7
	_, _, err := h.programSvc.CreateProgram(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrBadDuration)

	in = validProgramInput()
	in.Goals = []domain.GoalWeight{{Goal: domain.GoalStrength, Weight: 3}}
	_, _, err = h.programSvc.CreateProgram(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrWeightsSum)

	// Nothing half-created on validation failure.
	programs, err := h.programs.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestGetProgram_EnforcesOwnership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	program, _, err := h.programSvc.CreateProgram(ctx, owner, validProgramInput())
	require.NoError(t, err)

	_, err = h.programSvc.GetProgram(ctx, stranger, program.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	_, err = h.programSvc.GetProgram(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)

	detail, err := h.programSvc.GetProgram(ctx, owner, program.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Microcycles, 8)
	assert.Len(t, detail.Microcycles[0].Sessions, 7)
}

func TestGenerateNextMicrocycle_AdvancesThroughProgram(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	program, _, err := h.programSvc.CreateProgram(ctx, userID, validProgramInput())
	require.NoError(t, err)

	next, jobID, err := h.programSvc.GenerateNextMicrocycle(ctx, userID, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.SequenceNumber)
	assert.Equal(t, domain.MicrocycleActive, next.Status)
	assert.NotEqual(t, uuid.Nil, jobID)

	micros, err := h.micros.GetByProgramID(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MicrocycleComplete, micros[0].Status)
	assert.Equal(t, domain.MicrocycleActive, micros[1].Status)

	// Walk to the end of the program.
	for seq := 3; seq <= 8; seq++ {
		next, _, err = h.programSvc.GenerateNextMicrocycle(ctx, userID, program.ID)
		require.NoError(t, err)
		assert.Equal(t, seq, next.SequenceNumber)
	}
	_, _, err = h.programSvc.GenerateNextMicrocycle(ctx, userID, program.ID)
	assert.ErrorIs(t, err, ErrProgramFinished)
}

func TestGenerateNextMicrocycle_DeniedForStranger(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	program, _, err := h.programSvc.CreateProgram(ctx, owner, validProgramInput())
	require.NoError(t, err)

	_, _, err = h.programSvc.GenerateNextMicrocycle(ctx, primitive.NewObjectID(), program.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)
}

func TestExportProgram_UploadsSnapshotAndPresigns(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	program, _, err := h.programSvc.CreateProgram(ctx, userID, validProgramInput())
	require.NoError(t, err)

	url, err := h.programSvc.ExportProgram(ctx, userID, program.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.test/exports/"+program.ID.Hex()+"/"), "url = %s", url)

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	require.Len(t, h.store.objects, 1)
	for key, body := range h.store.objects {
		assert.Equal(t, "application/json", h.store.types[key])
		assert.Contains(t, string(body), program.Name)
	}
}

func TestGetSession_MapsNotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.programSvc.GetSession(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
