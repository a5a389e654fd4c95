package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

var (
	ErrInvalidMovement = errors.New("movement requires a name, pattern, and primary muscle")
	ErrInvalidCircuit  = errors.New("circuit requires a name, type, rounds, and at least two movements")
	ErrUnknownPattern  = errors.New("unrecognized movement pattern")
)

// CatalogService manages the movement and circuit catalog the solver selects
// from. Mutations are coach-only (enforced at the API layer).
type CatalogService interface {
	CreateMovement(ctx context.Context, m *domain.Movement) (*domain.Movement, error)
	ListMovements(ctx context.Context) ([]domain.Movement, error)
	CreateCircuit(ctx context.Context, c *domain.CircuitTemplate) (*domain.CircuitTemplate, error)
	ListCircuits(ctx context.Context) ([]domain.CircuitTemplate, error)
	// SeedDefaults populates the default catalog on an empty database.
	// It is a no-op when any movement exists.
	SeedDefaults(ctx context.Context) error
}

type catalogService struct {
	movementRepo repository.MovementRepository
	log          *logger.Logger
}

func NewCatalogService(movementRepo repository.MovementRepository, log *logger.Logger) CatalogService {
	return &catalogService{movementRepo: movementRepo, log: log.With("component", "catalog")}
}

func (s *catalogService) CreateMovement(ctx context.Context, m *domain.Movement) (*domain.Movement, error) {
	if m.Name == "" || m.Pattern == "" || m.PrimaryMuscle == "" {
		return nil, ErrInvalidMovement
	}
	if domain.PatternRegion(m.Pattern) == domain.RegionCore && m.Pattern != domain.PatternCore && m.Pattern != domain.PatternCarry {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, m.Pattern)
	}
	m.PrimaryRegion = domain.PatternRegion(m.Pattern)
	if m.StimulusFactor <= 0 {
		m.StimulusFactor = 1
	}
	if m.FatigueFactor <= 0 {
		m.FatigueFactor = 1
	}
	id, err := s.movementRepo.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (s *catalogService) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	return s.movementRepo.GetAll(ctx)
}

// CreateCircuit validates the template and aggregates its muscle load from
// the current movement catalog before persisting.
func (s *catalogService) CreateCircuit(ctx context.Context, c *domain.CircuitTemplate) (*domain.CircuitTemplate, error) {
	if c.Name == "" || c.Type == "" || c.Rounds < 1 || len(c.MovementNames) < 2 {
		return nil, ErrInvalidCircuit
	}
	if c.DurationSeconds <= 0 {
		c.DurationSeconds = 480
	}

	movements, err := s.movementRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]domain.Movement, len(movements))
	for _, m := range movements {
		byName[m.Name] = m
	}
	for _, name := range c.MovementNames {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("circuit references unknown movement %q", name)
		}
	}
	c.AggregateMuscleLoad(byName)

	id, err := s.movementRepo.CreateCircuit(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

func (s *catalogService) ListCircuits(ctx context.Context) ([]domain.CircuitTemplate, error) {
	return s.movementRepo.GetAllCircuits(ctx)
}

func (s *catalogService) SeedDefaults(ctx context.Context) error {
	count, err := s.movementRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range defaultMovements {
		m := defaultMovements[i]
		if _, err := s.CreateMovement(ctx, &m); err != nil {
			return fmt.Errorf("failed to seed movement %q: %w", m.Name, err)
		}
	}
	for i := range defaultCircuits {
		c := defaultCircuits[i]
		if _, err := s.CreateCircuit(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed circuit %q: %w", c.Name, err)
		}
	}
	s.log.Info("seeded default catalog", "movements", len(defaultMovements), "circuits", len(defaultCircuits))
	return nil
}

// defaultMovements is the stock catalog: two substitutable picks per pattern
// plus core and carry work, so every archetype has solvable coverage from a
// fresh database.
var defaultMovements = []domain.Movement{
	{Name: "Back Squat", Pattern: domain.PatternSquat, PrimaryMuscle: "quads", SecondaryMuscles: []string{"glutes", "core"}, CNSTier: 3, FatigueFactor: 4.0, StimulusFactor: 5.0, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "squat_bilateral"},
	{Name: "Front Squat", Pattern: domain.PatternSquat, PrimaryMuscle: "quads", SecondaryMuscles: []string{"core"}, CNSTier: 3, FatigueFactor: 3.8, StimulusFactor: 4.5, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "squat_bilateral"},
	{Name: "Goblet Squat", Pattern: domain.PatternSquat, PrimaryMuscle: "quads", SecondaryMuscles: []string{"glutes"}, CNSTier: 1, FatigueFactor: 2.0, StimulusFactor: 2.5, MinRecoveryHours: 24, SubstitutionGroup: "squat_bilateral"},
	{Name: "Deadlift", Pattern: domain.PatternHinge, PrimaryMuscle: "hamstrings", SecondaryMuscles: []string{"glutes", "lower_back"}, CNSTier: 3, FatigueFactor: 4.5, StimulusFactor: 5.0, Compound: true, MinRecoveryHours: 72, SubstitutionGroup: "hinge_heavy"},
	{Name: "Romanian Deadlift", Pattern: domain.PatternHinge, PrimaryMuscle: "hamstrings", SecondaryMuscles: []string{"glutes"}, CNSTier: 2, FatigueFactor: 3.0, StimulusFactor: 4.0, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "hinge_heavy"},
	{Name: "Hip Thrust", Pattern: domain.PatternHinge, PrimaryMuscle: "glutes", SecondaryMuscles: []string{"hamstrings"}, CNSTier: 2, FatigueFactor: 2.2, StimulusFactor: 3.5, MinRecoveryHours: 24, SubstitutionGroup: "hinge_glute"},
	{Name: "Walking Lunge", Pattern: domain.PatternLunge, PrimaryMuscle: "quads", SecondaryMuscles: []string{"glutes"}, CNSTier: 2, FatigueFactor: 2.5, StimulusFactor: 3.0, Unilateral: true, MinRecoveryHours: 24, SubstitutionGroup: "lunge"},
	{Name: "Bulgarian Split Squat", Pattern: domain.PatternLunge, PrimaryMuscle: "quads", SecondaryMuscles: []string{"glutes"}, CNSTier: 2, FatigueFactor: 2.8, StimulusFactor: 3.5, Unilateral: true, MinRecoveryHours: 36, SubstitutionGroup: "lunge"},
	{Name: "Bench Press", Pattern: domain.PatternHorizontalPush, PrimaryMuscle: "chest", SecondaryMuscles: []string{"triceps", "shoulders"}, CNSTier: 3, FatigueFactor: 3.5, StimulusFactor: 4.5, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "h_push"},
	{Name: "Dumbbell Bench Press", Pattern: domain.PatternHorizontalPush, PrimaryMuscle: "chest", SecondaryMuscles: []string{"triceps"}, CNSTier: 2, FatigueFactor: 2.8, StimulusFactor: 4.0, Compound: true, MinRecoveryHours: 36, SubstitutionGroup: "h_push"},
	{Name: "Push-Up", Pattern: domain.PatternHorizontalPush, PrimaryMuscle: "chest", SecondaryMuscles: []string{"triceps", "core"}, CNSTier: 1, FatigueFactor: 1.5, StimulusFactor: 2.0, MinRecoveryHours: 24, SubstitutionGroup: "h_push"},
	{Name: "Overhead Press", Pattern: domain.PatternVerticalPush, PrimaryMuscle: "shoulders", SecondaryMuscles: []string{"triceps"}, CNSTier: 3, FatigueFactor: 3.0, StimulusFactor: 4.0, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "v_push"},
	{Name: "Dumbbell Shoulder Press", Pattern: domain.PatternVerticalPush, PrimaryMuscle: "shoulders", SecondaryMuscles: []string{"triceps"}, CNSTier: 2, FatigueFactor: 2.2, StimulusFactor: 3.0, MinRecoveryHours: 36, SubstitutionGroup: "v_push"},
	{Name: "Barbell Row", Pattern: domain.PatternHorizontalPull, PrimaryMuscle: "upper_back", SecondaryMuscles: []string{"lats", "biceps"}, CNSTier: 2, FatigueFactor: 3.0, StimulusFactor: 4.0, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "h_pull"},
	{Name: "Seated Cable Row", Pattern: domain.PatternHorizontalPull, PrimaryMuscle: "upper_back", SecondaryMuscles: []string{"biceps"}, CNSTier: 1, FatigueFactor: 2.0, StimulusFactor: 3.0, MinRecoveryHours: 24, SubstitutionGroup: "h_pull"},
	{Name: "Pull-Up", Pattern: domain.PatternVerticalPull, PrimaryMuscle: "lats", SecondaryMuscles: []string{"biceps"}, CNSTier: 2, FatigueFactor: 2.8, StimulusFactor: 4.0, Compound: true, MinRecoveryHours: 48, SubstitutionGroup: "v_pull"},
	{Name: "Lat Pulldown", Pattern: domain.PatternVerticalPull, PrimaryMuscle: "lats", SecondaryMuscles: []string{"biceps"}, CNSTier: 1, FatigueFactor: 2.0, StimulusFactor: 3.0, MinRecoveryHours: 24, SubstitutionGroup: "v_pull"},
	{Name: "Farmer's Carry", Pattern: domain.PatternCarry, PrimaryMuscle: "core", SecondaryMuscles: []string{"forearms", "traps"}, CNSTier: 1, FatigueFactor: 1.8, StimulusFactor: 2.0, MinRecoveryHours: 24, SubstitutionGroup: "carry"},
	{Name: "Plank", Pattern: domain.PatternCore, PrimaryMuscle: "core", CNSTier: 1, FatigueFactor: 1.0, StimulusFactor: 1.5, MinRecoveryHours: 12, SubstitutionGroup: "core_iso"},
	{Name: "Hanging Leg Raise", Pattern: domain.PatternCore, PrimaryMuscle: "core", SecondaryMuscles: []string{"hip_flexors"}, CNSTier: 1, FatigueFactor: 1.2, StimulusFactor: 2.0, MinRecoveryHours: 12, SubstitutionGroup: "core_iso"},
	{Name: "Kettlebell Swing", Pattern: domain.PatternHinge, PrimaryMuscle: "glutes", SecondaryMuscles: []string{"hamstrings", "core"}, CNSTier: 2, FatigueFactor: 2.0, StimulusFactor: 2.5, MinRecoveryHours: 24, SubstitutionGroup: "hinge_ballistic"},
	{Name: "Burpee", Pattern: domain.PatternSquat, PrimaryMuscle: "quads", SecondaryMuscles: []string{"chest", "core"}, CNSTier: 2, FatigueFactor: 2.2, StimulusFactor: 2.0, MinRecoveryHours: 24, SubstitutionGroup: "conditioning"},
}

var defaultCircuits = []domain.CircuitTemplate{
	{Name: "KB Swing + Burpee AMRAP", Type: domain.CircuitAMRAP, DurationSeconds: 480, Rounds: 5, MovementNames: []string{"Kettlebell Swing", "Burpee"}},
	{Name: "Carry + Push-Up EMOM", Type: domain.CircuitEMOM, DurationSeconds: 600, Rounds: 10, MovementNames: []string{"Farmer's Carry", "Push-Up"}},
	{Name: "Row + Goblet Squat Intervals", Type: domain.CircuitInterval, DurationSeconds: 540, Rounds: 6, MovementNames: []string{"Seated Cable Row", "Goblet Squat"}},
}
