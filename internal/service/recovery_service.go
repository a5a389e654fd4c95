package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

var ErrInvalidRecoveryScore = errors.New("recovery scores must be between 0 and 100")

// DeloadAssessment is the result of an on-demand deload query.
type DeloadAssessment struct {
	Triggered           bool   `json:"triggered"`
	Reason              string `json:"reason"`
	DaysSinceLastDeload int    `json:"daysSinceLastDeload"`
}

// RecoveryService stores daily recovery signals and answers deload queries
// against the trailing week of data.
type RecoveryService interface {
	LogSignal(ctx context.Context, userID primitive.ObjectID, date time.Time, sleepScore, readiness float64) (*domain.RecoverySignal, error)
	// DeloadCheck evaluates the deload triggers for the user's active
	// program as of now.
	DeloadCheck(ctx context.Context, userID primitive.ObjectID) (*DeloadAssessment, error)
}

type recoveryService struct {
	recoveryRepo repository.RecoveryRepository
	programRepo  repository.ProgramRepository
	microRepo    repository.MicrocycleRepository
	plannerCfg   planner.Config
	log          *logger.Logger
	now          func() time.Time
}

func NewRecoveryService(
	recoveryRepo repository.RecoveryRepository,
	programRepo repository.ProgramRepository,
	microRepo repository.MicrocycleRepository,
	plannerCfg planner.Config,
	log *logger.Logger,
) RecoveryService {
	return &recoveryService{
		recoveryRepo: recoveryRepo,
		programRepo:  programRepo,
		microRepo:    microRepo,
		plannerCfg:   plannerCfg,
		log:          log.With("component", "recovery"),
		now:          time.Now,
	}
}

func (s *recoveryService) LogSignal(ctx context.Context, userID primitive.ObjectID, date time.Time, sleepScore, readiness float64) (*domain.RecoverySignal, error) {
	if sleepScore < 0 || sleepScore > 100 || readiness < 0 || readiness > 100 {
		return nil, ErrInvalidRecoveryScore
	}
	if date.IsZero() {
		date = s.now().UTC()
	}
	signal := &domain.RecoverySignal{
		UserID:     userID,
		Date:       date.UTC().Truncate(24 * time.Hour),
		SleepScore: sleepScore,
		Readiness:  readiness,
	}
	id, err := s.recoveryRepo.Create(ctx, signal)
	if err != nil {
		return nil, err
	}
	signal.ID = id
	return signal, nil
}

func (s *recoveryService) DeloadCheck(ctx context.Context, userID primitive.ObjectID) (*DeloadAssessment, error) {
	now := s.now().UTC()
	signals, err := s.recoveryRepo.GetSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	daysSince, err := s.daysSinceLastDeload(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	triggered, reason := s.plannerCfg.ShouldTriggerDeload(signals, now, daysSince)
	if triggered {
		s.log.Info("deload triggered", "userId", userID.Hex(), "reason", reason)
	}
	return &DeloadAssessment{Triggered: triggered, Reason: reason, DaysSinceLastDeload: daysSince}, nil
}

// daysSinceLastDeload walks the active program's microcycles for the most
// recent completed deload block. Without one, the program start date anchors
// the count; without an active program there is no training to deload from
// and the count is zero.
func (s *recoveryService) daysSinceLastDeload(ctx context.Context, userID primitive.ObjectID, now time.Time) (int, error) {
	program, err := s.programRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	micros, err := s.microRepo.GetByProgramID(ctx, program.ID)
	if err != nil {
		return 0, err
	}
	anchor := program.StartDate
	for _, m := range micros {
		if !m.IsDeload || m.Status != domain.MicrocycleComplete {
			continue
		}
		end := m.StartDate.AddDate(0, 0, m.LengthDays)
		if end.After(anchor) {
			anchor = end
		}
	}

	days := int(now.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}
