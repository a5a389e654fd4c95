package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/llm"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
)

// seedCycle persists a program with one active microcycle and the given
// session skeletons, returning the stored copies.
func seedCycle(t *testing.T, h *harness, userID primitive.ObjectID, sessions []domain.Session) (*domain.Program, *domain.Microcycle) {
	t.Helper()
	ctx := context.Background()

	program := &domain.Program{
		UserID:            userID,
		Name:              "Test Block",
		DurationWeeks:     8,
		DaysPerWeek:       4,
		DeloadEveryN:      4,
		MaxSessionMinutes: 60,
		Goals: domain.GoalWeights{
			{Goal: domain.GoalStrength, Weight: 6},
			{Goal: domain.GoalHypertrophy, Weight: 4},
			{Goal: domain.GoalStrength, Weight: 0},
		},
		IsActive: true,
	}
	_, err := h.programs.Create(ctx, program)
	require.NoError(t, err)

	micro := &domain.Microcycle{
		ProgramID:      program.ID,
		SequenceNumber: 1,
		LengthDays:     7,
		Status:         domain.MicrocycleActive,
	}
	_, err = h.micros.Create(ctx, micro)
	require.NoError(t, err)

	for i := range sessions {
		sessions[i].ProgramID = program.ID
		sessions[i].MicrocycleID = micro.ID
	}
	require.NoError(t, h.sessions.CreateMany(ctx, sessions))
	return program, micro
}

func pendingSession(day int, st domain.SessionType, tags ...string) domain.Session {
	status := domain.GenerationPending
	if st == domain.SessionRest {
		status = domain.GenerationReady
	}
	return domain.Session{DayNumber: day, Type: st, IntentTags: tags, Status: status}
}

func TestGeneration_PopulatesMicrocycleSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.catalogSvc.SeedDefaults(ctx))

	_, micro := seedCycle(t, h, primitive.NewObjectID(), []domain.Session{
		pendingSession(1, domain.SessionUpper, "horizontal_push", "vertical_pull", domain.TagPreferAccessory),
		pendingSession(2, domain.SessionRest),
		pendingSession(3, domain.SessionLower, "squat", "hinge", domain.TagPreferAccessory),
		pendingSession(5, domain.SessionCardio, domain.TagCardio),
	})

	jobID, err := h.generation.EnqueueMicrocycle(ctx, micro.ProgramID, micro.ID)
	require.NoError(t, err)
	h.generation.Start()
	h.generation.Stop()

	job, err := h.generation.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobSucceeded, job.Status)
	assert.Empty(t, job.Error)

	sessions, err := h.sessions.GetByMicrocycleID(ctx, micro.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 4)
	for _, sess := range sessions {
		if sess.Type == domain.SessionRest {
			assert.Nil(t, sess.Content, "rest day keeps no content")
			assert.Equal(t, domain.GenerationReady, sess.Status)
			continue
		}
		require.Equal(t, domain.GenerationReady, sess.Status, "day %d", sess.DayNumber)
		require.NotNil(t, sess.Content, "day %d", sess.DayNumber)
		assert.NotEmpty(t, sess.Content.Main, "day %d main work", sess.DayNumber)
		assert.Greater(t, sess.Content.EstimatedMinutes, 0, "day %d estimate", sess.DayNumber)
		assert.NotEmpty(t, sess.Content.Rationale, "day %d rationale", sess.DayNumber)
		assert.Empty(t, sess.CoachNote, "day %d", sess.DayNumber)
	}
}

func TestGeneration_ConsecutiveDaysNeverRepeatMovements(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.catalogSvc.SeedDefaults(ctx))

	_, micro := seedCycle(t, h, primitive.NewObjectID(), []domain.Session{
		pendingSession(1, domain.SessionLower, "squat", "hinge", domain.TagPreferAccessory),
		pendingSession(2, domain.SessionLower, "squat", "hinge", domain.TagPreferAccessory),
	})

	_, err := h.generation.EnqueueMicrocycle(ctx, micro.ProgramID, micro.ID)
	require.NoError(t, err)
	h.generation.Start()
	h.generation.Stop()

	sessions, err := h.sessions.GetByMicrocycleID(ctx, micro.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	seen := map[string]int{}
	for _, sess := range sessions {
		require.NotNil(t, sess.Content)
		for _, ex := range sess.Content.Main {
			seen[ex.MovementName]++
		}
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "movement %q selected on both days", name)
	}
}

func TestGeneration_EmptyCatalogDegradesToPlaceholder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, micro := seedCycle(t, h, primitive.NewObjectID(), []domain.Session{
		pendingSession(1, domain.SessionUpper, "horizontal_push"),
	})

	jobID, err := h.generation.EnqueueMicrocycle(ctx, micro.ProgramID, micro.ID)
	require.NoError(t, err)
	h.generation.Start()
	h.generation.Stop()

	// The pass finishes even though its only session degraded.
	job, err := h.generation.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobSucceeded, job.Status)

	sessions, err := h.sessions.GetByMicrocycleID(ctx, micro.ID)
	require.NoError(t, err)
	sess := sessions[0]
	assert.Equal(t, domain.GenerationFailed, sess.Status)
	assert.Equal(t, placeholderCoachNote, sess.CoachNote)
	require.NotNil(t, sess.Content)
	require.Len(t, sess.Content.Main, 1)
	assert.Equal(t, "Coach's Choice Circuit", sess.Content.Main[0].MovementName)
}

func TestGeneration_MissingProgramFailsJob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	jobID, err := h.generation.EnqueueMicrocycle(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	require.NoError(t, err)
	h.generation.Start()
	h.generation.Stop()

	job, err := h.generation.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Contains(t, job.Error, "load program")
}

func TestEnqueueMicrocycle_QueueFull(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	log := logger.NewNop()
	cfg := planner.DefaultConfig()
	composer := planner.NewComposer(cfg, llm.StaticClient{Text: "ok"}, log)
	// One slot, no running workers: the second enqueue must be rejected.
	tiny := NewGenerationService(h.programs, h.micros, h.sessions, h.movements, h.jobs, cfg, composer, log, 1, 1)

	_, err := tiny.EnqueueMicrocycle(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	require.NoError(t, err)

	_, err = tiny.EnqueueMicrocycle(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestRegenerateSession_RetriesFailedDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	require.NoError(t, h.catalogSvc.SeedDefaults(ctx))

	_, micro := seedCycle(t, h, userID, []domain.Session{
		pendingSession(1, domain.SessionUpper, "horizontal_push", "vertical_pull", domain.TagPreferAccessory),
		pendingSession(3, domain.SessionLower, "squat", "hinge", domain.TagPreferAccessory),
	})
	_, err := h.generation.EnqueueMicrocycle(ctx, micro.ProgramID, micro.ID)
	require.NoError(t, err)
	h.generation.Start()
	h.generation.Stop()

	sessions, err := h.sessions.GetByMicrocycleID(ctx, micro.ID)
	require.NoError(t, err)
	day3 := sessions[1]
	require.Equal(t, 3, day3.DayNumber)

	// Force the day into a failed state, then retry it.
	require.NoError(t, h.sessions.ReplaceContent(ctx, day3.ID, nil, domain.GenerationFailed, placeholderCoachNote))

	regenerated, err := h.generation.RegenerateSession(ctx, userID, day3.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationReady, regenerated.Status)
	assert.Empty(t, regenerated.CoachNote)
	require.NotNil(t, regenerated.Content)
	assert.NotEmpty(t, regenerated.Content.Main)

	// The retried day must still avoid day 1's selections.
	day1, err := h.sessions.GetByID(ctx, sessions[0].ID)
	require.NoError(t, err)
	used := map[string]bool{}
	for _, ex := range day1.Content.Main {
		used[ex.MovementName] = true
	}
	for _, ex := range regenerated.Content.Main {
		assert.False(t, used[ex.MovementName], "movement %q repeated from day 1", ex.MovementName)
	}
}

func TestRegenerateSession_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	require.NoError(t, h.catalogSvc.SeedDefaults(ctx))

	_, micro := seedCycle(t, h, userID, []domain.Session{
		pendingSession(2, domain.SessionRest),
	})
	sessions, err := h.sessions.GetByMicrocycleID(ctx, micro.ID)
	require.NoError(t, err)

	_, err = h.generation.RegenerateSession(ctx, primitive.NewObjectID(), sessions[0].ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	_, err = h.generation.RegenerateSession(ctx, userID, sessions[0].ID)
	assert.ErrorIs(t, err, ErrSessionNotRetrying)

	_, err = h.generation.RegenerateSession(ctx, userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
