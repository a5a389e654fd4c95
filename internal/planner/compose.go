package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/llm"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
)

// Composer turns a solver draft (or a fallback) into final session content.
type Composer struct {
	cfg Config
	llm llm.Client
	log *logger.Logger
}

// NewComposer wires the composer. The LLM client may be a StaticClient; it is
// only ever used for rationale text.
func NewComposer(cfg Config, llmClient llm.Client, log *logger.Logger) *Composer {
	return &Composer{cfg: cfg, llm: llmClient, log: log.With("component", "composer")}
}

// ComposeInput is everything needed to produce one session's content.
type ComposeInput struct {
	SessionType       domain.SessionType
	DayNumber         int
	IntentTags        []string
	Draft             *SolveResult
	Tracker           *Tracker
	Goals             domain.GoalWeights
	MaxSessionMinutes int
	Catalog           []domain.Movement
	IsDeload          bool
}

// Compose produces the final five-section content and duration estimate.
// A nil or infeasible draft degrades through the heuristic fallback and then
// the hardcoded templates; it never fails for that reason.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) *domain.SessionContent {
	var content *domain.SessionContent
	switch in.SessionType {
	case domain.SessionRecovery:
		content = recoveryContent()
	case domain.SessionCardio, domain.SessionMobility, domain.SessionConditioning:
		content = c.fixedShapeContent(in)
	default:
		content = c.liftingContent(in)
	}

	if in.Tracker != nil {
		if gaps := in.Tracker.DedupSession(content, in.Catalog); len(gaps) > 0 {
			c.log.Warn("dropped duplicate movements without replacement", "day", in.DayNumber, "movements", gaps)
		}
		if gaps := in.Tracker.StripPriorAccessories(content, in.Catalog); len(gaps) > 0 {
			c.log.Warn("dropped prior-day accessory repeats without replacement", "day", in.DayNumber, "movements", gaps)
		}
	}

	breakdown := EstimateDuration(content, IntentFromGoals(in.Goals))
	content.EstimatedMinutes = breakdown.TotalMinutes
	content.Rationale = c.rationale(ctx, in, content)
	return content
}

// recoveryContent is the fixed short cooldown-only shape for recovery days.
func recoveryContent() *domain.SessionContent {
	return &domain.SessionContent{
		Middle: domain.NoMiddle(),
		Cooldown: []domain.PrescribedExercise{
			{MovementName: "Foam Rolling", Role: domain.RoleCooldown, OrderIndex: 0, Sets: 1, DurationSeconds: 300},
			{MovementName: "Box Breathing", Role: domain.RoleCooldown, OrderIndex: 1, Sets: 1, DurationSeconds: 180},
			{MovementName: "Light Walk", Role: domain.RoleCooldown, OrderIndex: 2, Sets: 1, DurationSeconds: 600},
		},
	}
}

// fixedShapeContent fills cardio/mobility/conditioning days with one
// continuous main block sized to the session budget minus overhead. These day
// types never carry an accessory or finisher.
func (c *Composer) fixedShapeContent(in ComposeInput) *domain.SessionContent {
	workMinutes := in.MaxSessionMinutes - c.cfg.FixedDayOverheadMinutes
	if workMinutes < 10 {
		workMinutes = 10
	}
	var name string
	switch in.SessionType {
	case domain.SessionCardio:
		name = "Steady-State Cardio"
	case domain.SessionMobility:
		name = "Mobility Flow"
	default:
		name = "Mixed Conditioning Circuit"
	}
	return &domain.SessionContent{
		Warmup: []domain.PrescribedExercise{
			{MovementName: "Easy Movement Prep", Role: domain.RoleWarmup, OrderIndex: 0, Sets: 1, DurationSeconds: 300},
		},
		Main: []domain.PrescribedExercise{
			{MovementName: name, Role: domain.RoleMain, OrderIndex: 0, Sets: 1, DurationSeconds: workMinutes * 60},
		},
		Middle: domain.NoMiddle(),
		Cooldown: []domain.PrescribedExercise{
			{MovementName: "Cooldown Stretch", Role: domain.RoleCooldown, OrderIndex: 0, Sets: 1, DurationSeconds: 300},
		},
	}
}

// repRange returns the rep band for the session's dominant intent.
func repRange(intent TrainingIntent) (int, int) {
	switch intent {
	case IntentStrength:
		return 3, 6
	case IntentEndurance:
		return 12, 20
	default:
		return 8, 12
	}
}

// liftingContent builds main/middle sections from the solver draft when
// feasible, else the pattern-aware heuristic, else the hardcoded template.
func (c *Composer) liftingContent(in ComposeInput) *domain.SessionContent {
	intent := IntentFromGoals(in.Goals)
	repMin, repMax := repRange(intent)
	sets := c.cfg.SetsPerMovement
	rpe := 8.0
	if in.IsDeload {
		if sets > 2 {
			sets--
		}
		rpe = 6.0
	}

	var main, accessory []domain.PrescribedExercise
	var finisher *domain.FinisherBlock

	if in.Draft != nil && in.Draft.Status != StatusInfeasible && (len(in.Draft.Movements) > 0 || len(in.Draft.Circuits) > 0) {
		main, accessory = splitDraft(in.Draft.Movements, sets, repMin, repMax, rpe)
		if len(in.Draft.Circuits) > 0 {
			finisher = circuitFinisher(in.Draft.Circuits[0])
		}
	}
	if len(main) == 0 {
		main = c.heuristicMain(in, sets, repMin, repMax, rpe)
	}
	if len(main) == 0 {
		main = templateMain(in.SessionType, sets, repMin, repMax, rpe)
	}

	content := &domain.SessionContent{
		Warmup:   warmupFor(in.SessionType),
		Main:     main,
		Middle:   c.normalizeMiddle(in, accessory, finisher),
		Cooldown: cooldownBlock(),
	}
	return content
}

// splitDraft orders solver-selected movements: compounds lead the main block
// (up to four slots), the remainder become accessory candidates.
func splitDraft(movements []domain.Movement, sets, repMin, repMax int, rpe float64) (main, accessory []domain.PrescribedExercise) {
	const mainSlots = 4
	ordered := make([]domain.Movement, 0, len(movements))
	for _, m := range movements {
		if m.Compound {
			ordered = append(ordered, m)
		}
	}
	for _, m := range movements {
		if !m.Compound {
			ordered = append(ordered, m)
		}
	}
	for i, m := range ordered {
		ex := domain.PrescribedExercise{
			MovementName: m.Name,
			Pattern:      m.Pattern,
			Sets:         sets,
			RepMin:       repMin,
			RepMax:       repMax,
			TargetRPE:    rpe,
		}
		if i < mainSlots {
			ex.Role = domain.RoleMain
			ex.OrderIndex = len(main)
			main = append(main, ex)
		} else {
			ex.Role = domain.RoleAccessory
			ex.OrderIndex = len(accessory)
			ex.Sets = maxInt(2, sets-1)
			accessory = append(accessory, ex)
		}
	}
	return main, accessory
}

// heuristicMain is the pattern-aware fallback: pick catalog movements per
// intent-tag pattern, skipping names already used this cycle and biasing away
// from muscles fatigued by the prior day.
func (c *Composer) heuristicMain(in ComposeInput, sets, repMin, repMax int, rpe float64) []domain.PrescribedExercise {
	fatigued := map[string]bool{}
	if in.Tracker != nil {
		for _, m := range in.Tracker.FatiguedMuscles(c.cfg.FatigueCarryoverUnits) {
			fatigued[m] = true
		}
	}
	var main []domain.PrescribedExercise
	taken := map[string]bool{}
	for _, tag := range in.IntentTags {
		pattern := domain.Pattern(tag)
		if !isPattern(pattern) {
			continue
		}
		if in.Tracker != nil {
			pattern = in.Tracker.ResolvePattern(in.DayNumber, pattern)
		}
		pick := c.pickByPattern(in, pattern, taken, fatigued, true)
		if pick == nil {
			// No fresh non-fatigued option; allow a fatigued one.
			pick = c.pickByPattern(in, pattern, taken, fatigued, false)
		}
		if pick == nil {
			continue
		}
		taken[pick.Name] = true
		main = append(main, domain.PrescribedExercise{
			MovementName: pick.Name,
			Pattern:      pick.Pattern,
			Role:         domain.RoleMain,
			OrderIndex:   len(main),
			Sets:         sets,
			RepMin:       repMin,
			RepMax:       repMax,
			TargetRPE:    rpe,
		})
	}
	return main
}

func (c *Composer) pickByPattern(in ComposeInput, pattern domain.Pattern, taken, fatigued map[string]bool, avoidFatigued bool) *domain.Movement {
	for i := range in.Catalog {
		m := &in.Catalog[i]
		if m.Pattern != pattern || taken[m.Name] {
			continue
		}
		if in.Tracker != nil && in.Tracker.UsedMovement(m.Name) {
			continue
		}
		if avoidFatigued && fatigued[m.PrimaryMuscle] {
			continue
		}
		return m
	}
	return nil
}

// Last-resort main blocks keyed by session type, used when the catalog gives
// the heuristic nothing to work with.
var templateMains = map[domain.SessionType][]string{
	domain.SessionUpper:    {"Push-Up", "Inverted Row", "Overhead Press", "Face Pull"},
	domain.SessionLower:    {"Goblet Squat", "Romanian Deadlift", "Walking Lunge"},
	domain.SessionPush:     {"Bench Press", "Overhead Press", "Dip"},
	domain.SessionPull:     {"Pull-Up", "Barbell Row", "Hammer Curl"},
	domain.SessionFullBody: {"Goblet Squat", "Push-Up", "Inverted Row"},
}

func templateMain(t domain.SessionType, sets, repMin, repMax int, rpe float64) []domain.PrescribedExercise {
	names, ok := templateMains[t]
	if !ok {
		names = templateMains[domain.SessionFullBody]
	}
	main := make([]domain.PrescribedExercise, 0, len(names))
	for i, name := range names {
		main = append(main, domain.PrescribedExercise{
			MovementName: name,
			Role:         domain.RoleMain,
			OrderIndex:   i,
			Sets:         sets,
			RepMin:       repMin,
			RepMax:       repMax,
			TargetRPE:    rpe,
		})
	}
	return main
}

// normalizeMiddle enforces the accessory/finisher mutual exclusivity and
// synthesizes a middle section when the draft produced neither.
func (c *Composer) normalizeMiddle(in ComposeInput, accessory []domain.PrescribedExercise, finisher *domain.FinisherBlock) domain.MiddleSection {
	hasAccessory := len(accessory) > 0
	hasFinisher := finisher != nil

	switch {
	case hasAccessory && hasFinisher:
		if c.preferFinisher(in) {
			return domain.FinisherMiddle(*finisher)
		}
		return domain.AccessoryMiddle(accessory)
	case hasFinisher:
		return domain.FinisherMiddle(*finisher)
	case hasAccessory:
		return domain.AccessoryMiddle(accessory)
	}

	// Neither present: synthesize from goal-weight thresholds.
	if in.Goals.Weight(domain.GoalFatLoss) >= c.cfg.FatLossFinisherThreshold {
		return domain.FinisherMiddle(amrapPreset())
	}
	if in.Goals.Weight(domain.GoalEndurance) >= c.cfg.EnduranceFinisherThreshold {
		return domain.FinisherMiddle(emomPreset())
	}
	return domain.AccessoryMiddle(defaultAccessories(in.SessionType))
}

// preferFinisher decides which middle section survives when both exist.
// An explicit tag wins; otherwise metabolic vs anabolic goal weight, with
// ties and conditioning/cardio tags favoring the finisher.
func (c *Composer) preferFinisher(in ComposeInput) bool {
	for _, tag := range in.IntentTags {
		switch tag {
		case domain.TagPreferFinisher:
			return true
		case domain.TagPreferAccessory:
			return false
		}
	}
	metabolic := in.Goals.Weight(domain.GoalFatLoss) + in.Goals.Weight(domain.GoalEndurance)
	anabolic := in.Goals.Weight(domain.GoalStrength) + in.Goals.Weight(domain.GoalHypertrophy)
	if metabolic == anabolic {
		return true
	}
	for _, tag := range in.IntentTags {
		if tag == domain.TagConditioning || tag == domain.TagCardio {
			return true
		}
	}
	return metabolic > anabolic
}

func amrapPreset() domain.FinisherBlock {
	return domain.FinisherBlock{
		Name:            "Metabolic AMRAP",
		Format:          domain.FinisherAMRAP,
		DurationSeconds: 480,
		Movements: []domain.PrescribedExercise{
			{MovementName: "Kettlebell Swing", Role: domain.RoleFinisher, OrderIndex: 0, Sets: 1, RepMin: 15, RepMax: 15},
			{MovementName: "Burpee", Role: domain.RoleFinisher, OrderIndex: 1, Sets: 1, RepMin: 10, RepMax: 10},
			{MovementName: "Mountain Climber", Role: domain.RoleFinisher, OrderIndex: 2, Sets: 1, RepMin: 20, RepMax: 20},
		},
	}
}

func emomPreset() domain.FinisherBlock {
	return domain.FinisherBlock{
		Name:            "Interval EMOM",
		Format:          domain.FinisherEMOM,
		DurationSeconds: 600,
		Movements: []domain.PrescribedExercise{
			{MovementName: "Row Sprint", Role: domain.RoleFinisher, OrderIndex: 0, Sets: 1, DurationSeconds: 40},
			{MovementName: "Air Squat", Role: domain.RoleFinisher, OrderIndex: 1, Sets: 1, RepMin: 15, RepMax: 15},
		},
	}
}

// circuitFinisher maps a solver-selected circuit onto a finisher block.
func circuitFinisher(cr domain.CircuitTemplate) *domain.FinisherBlock {
	format := domain.FinisherInterval
	switch cr.Type {
	case domain.CircuitAMRAP:
		format = domain.FinisherAMRAP
	case domain.CircuitEMOM:
		format = domain.FinisherEMOM
	}
	movements := make([]domain.PrescribedExercise, 0, len(cr.MovementNames))
	for i, name := range cr.MovementNames {
		movements = append(movements, domain.PrescribedExercise{
			MovementName: name,
			Role:         domain.RoleFinisher,
			OrderIndex:   i,
			Sets:         1,
			RepMin:       10,
			RepMax:       10,
		})
	}
	return &domain.FinisherBlock{
		Name:            cr.Name,
		Format:          format,
		DurationSeconds: cr.DurationSeconds,
		Movements:       movements,
	}
}

var defaultAccessoryNames = map[domain.SessionType][]string{
	domain.SessionUpper:    {"Lateral Raise", "Biceps Curl", "Triceps Pushdown"},
	domain.SessionLower:    {"Leg Curl", "Calf Raise", "Plank"},
	domain.SessionPush:     {"Lateral Raise", "Triceps Pushdown"},
	domain.SessionPull:     {"Biceps Curl", "Rear Delt Fly"},
	domain.SessionFullBody: {"Plank", "Farmer Carry"},
}

func defaultAccessories(t domain.SessionType) []domain.PrescribedExercise {
	names, ok := defaultAccessoryNames[t]
	if !ok {
		names = defaultAccessoryNames[domain.SessionFullBody]
	}
	accessories := make([]domain.PrescribedExercise, 0, len(names))
	for i, name := range names {
		accessories = append(accessories, domain.PrescribedExercise{
			MovementName: name,
			Role:         domain.RoleAccessory,
			OrderIndex:   i,
			Sets:         2,
			RepMin:       10,
			RepMax:       15,
			TargetRPE:    7,
		})
	}
	return accessories
}

func warmupFor(t domain.SessionType) []domain.PrescribedExercise {
	names := []string{"Jumping Jack", "World's Greatest Stretch"}
	switch t {
	case domain.SessionLower:
		names = append(names, "Bodyweight Squat")
	case domain.SessionPush, domain.SessionPull, domain.SessionUpper:
		names = append(names, "Band Pull-Apart")
	default:
		names = append(names, "Inchworm")
	}
	warmup := make([]domain.PrescribedExercise, 0, len(names))
	for i, name := range names {
		warmup = append(warmup, domain.PrescribedExercise{
			MovementName: name, Role: domain.RoleWarmup, OrderIndex: i, Sets: 1, DurationSeconds: 60,
		})
	}
	return warmup
}

func cooldownBlock() []domain.PrescribedExercise {
	return []domain.PrescribedExercise{
		{MovementName: "Static Stretch", Role: domain.RoleCooldown, OrderIndex: 0, Sets: 1, DurationSeconds: 240},
	}
}

// fallbackRationale is the fixed sentence substituted when the LLM times out
// or fails. Rationale generation must never block or fail session creation.
func fallbackRationale(t domain.SessionType, isDeload bool) string {
	if isDeload {
		return "A lighter session to let you recover while keeping movement quality sharp."
	}
	return fmt.Sprintf("A focused %s session built around your goals and weekly structure.", strings.ToLower(strings.ReplaceAll(string(t), "_", " ")))
}

func (c *Composer) rationale(ctx context.Context, in ComposeInput, content *domain.SessionContent) string {
	if c.llm == nil {
		return fallbackRationale(in.SessionType, in.IsDeload)
	}
	var mains []string
	for _, ex := range content.Main {
		mains = append(mains, ex.MovementName)
	}
	messages := []llm.Message{
		{Role: "system", Content: "You are a concise fitness coach. Reply with one sentence, under 200 characters, explaining why today's session fits the athlete's plan. No markdown."},
		{Role: "user", Content: fmt.Sprintf("Session type: %s. Main work: %s. Deload: %t.", in.SessionType, strings.Join(mains, ", "), in.IsDeload)},
	}
	text, err := c.llm.Chat(ctx, messages, llm.Options{Temperature: 0.7, MaxTokens: 80, Timeout: c.cfg.RationaleTimeout})
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			c.log.Warn("rationale generation failed, using fallback", "day", in.DayNumber, "error", err)
		}
		return fallbackRationale(in.SessionType, in.IsDeload)
	}
	if runes := []rune(text); len(runes) > c.cfg.RationaleMaxLen {
		text = string(runes[:c.cfg.RationaleMaxLen])
	}
	return text
}
