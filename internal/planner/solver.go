package planner

import (
	"sort"
	"time"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// SolveStatus is the outcome of a solver invocation. Infeasible is a normal
// value consumed by the fallback chain, never an error.
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "OPTIMAL"
	StatusFeasible   SolveStatus = "FEASIBLE"
	StatusInfeasible SolveStatus = "INFEASIBLE"
)

// SolveRequest describes one per-session selection problem.
type SolveRequest struct {
	Movements          []domain.Movement
	Circuits           []domain.CircuitTemplate
	TargetMuscleSets   map[string]int
	MaxFatigue         float64
	MaxDurationMinutes int
	ExcludedNames      []string
	RequiredNames      []string
	PreferredNames     []string
	Goals              domain.GoalWeights
}

// SolveResult is the selected combination and its totals.
type SolveResult struct {
	Movements     []domain.Movement
	Circuits      []domain.CircuitTemplate
	TotalFatigue  float64
	TotalStimulus float64
	Status        SolveStatus
}

// candidate is one boolean decision variable. Coefficients are integer-scaled
// (x100) so the search works on exact arithmetic.
type candidate struct {
	movement  *domain.Movement
	circuit   *domain.CircuitTemplate
	fatigue   int // fatigue_factor x 100
	duration  int // minutes
	objective int
	muscles   []string
	required  bool
}

// Solve selects a near-optimal combination of movements and circuits under
// per-muscle set targets and fatigue/duration budgets, maximizing weighted
// stimulus. The search is a depth-first branch-and-bound bounded by
// Config.SolverBudget of wall clock; hitting the budget downgrades Optimal to
// Feasible but never fails.
func (c Config) Solve(req SolveRequest) SolveResult {
	excluded := toSet(req.ExcludedNames)
	required := toSet(req.RequiredNames)
	preferred := toSet(req.PreferredNames)

	strengthWeight := req.Goals.Weight(domain.GoalStrength) + req.Goals.Weight(domain.GoalHypertrophy)
	if strengthWeight < 1 {
		strengthWeight = 1
	}
	cardioWeight := req.Goals.Weight(domain.GoalFatLoss) + req.Goals.Weight(domain.GoalEndurance)
	if cardioWeight < 0 {
		cardioWeight = 0
	}

	cands := make([]candidate, 0, len(req.Movements)+len(req.Circuits))
	for i := range req.Movements {
		m := &req.Movements[i]
		if excluded[m.Name] {
			continue
		}
		obj := int(m.StimulusFactor * 100 * float64(strengthWeight))
		if preferred[m.Name] {
			obj += obj * c.PreferenceBonusPct / 100
		}
		cands = append(cands, candidate{
			movement:  m,
			fatigue:   int(m.FatigueFactor * 100),
			duration:  c.MinutesPerMovement,
			objective: obj,
			muscles:   []string{m.PrimaryMuscle},
			required:  required[m.Name],
		})
	}
	for i := range req.Circuits {
		cr := &req.Circuits[i]
		if excluded[cr.Name] {
			continue
		}
		// Round to the nearest minute so short circuits still cost and score.
		minutes := (cr.DurationSeconds + 30) / 60
		obj := int(cr.StimulusFactor*100*float64(strengthWeight)) + minutes*10*cardioWeight
		if preferred[cr.Name] {
			obj += obj * c.PreferenceBonusPct / 100
		}
		muscles := make([]string, 0, len(cr.MuscleVolume))
		for muscle, vol := range cr.MuscleVolume {
			if vol > 0 {
				muscles = append(muscles, muscle)
			}
		}
		sort.Strings(muscles)
		cands = append(cands, candidate{
			circuit:   cr,
			fatigue:   int(cr.FatigueFactor * 100),
			duration:  minutes,
			objective: obj,
			muscles:   muscles,
			required:  required[cr.Name],
		})
	}

	// Required first, then by objective so the first feasible leaf is a
	// strong incumbent.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].required != cands[j].required {
			return cands[i].required
		}
		return cands[i].objective > cands[j].objective
	})

	s := &solverState{
		cfg:       c,
		cands:     cands,
		maxFat:    int(req.MaxFatigue * 100),
		maxDur:    req.MaxDurationMinutes,
		deadline:  time.Now().Add(c.SolverBudget),
		bestObj:   -1,
		needs:     map[string]int{},
		suffixObj: make([]int, len(cands)+1),
		suffixCov: make([]map[string]int, len(cands)+1),
	}
	for muscle, sets := range req.TargetMuscleSets {
		if sets > 0 {
			s.needs[muscle] = sets
		}
	}
	// Suffix sums for bounding: best remaining objective and remaining
	// attainable coverage from each index onward.
	s.suffixCov[len(cands)] = map[string]int{}
	for i := len(cands) - 1; i >= 0; i-- {
		s.suffixObj[i] = s.suffixObj[i+1] + maxInt(0, cands[i].objective)
		cov := map[string]int{}
		for k, v := range s.suffixCov[i+1] {
			cov[k] = v
		}
		for _, m := range cands[i].muscles {
			cov[m] += c.SetsPerMovement
		}
		s.suffixCov[i] = cov
	}

	s.search(0, 0, 0, 0, nil)

	if s.bestObj < 0 {
		return SolveResult{Status: StatusInfeasible}
	}
	res := SolveResult{Status: StatusOptimal}
	if s.truncated {
		res.Status = StatusFeasible
	}
	for _, idx := range s.bestPick {
		cand := cands[idx]
		res.TotalFatigue += float64(cand.fatigue) / 100
		res.TotalStimulus += float64(cand.objective) / 100
		if cand.movement != nil {
			res.Movements = append(res.Movements, *cand.movement)
		} else {
			res.Circuits = append(res.Circuits, *cand.circuit)
		}
	}
	return res
}

type solverState struct {
	cfg       Config
	cands     []candidate
	maxFat    int
	maxDur    int
	deadline  time.Time
	needs     map[string]int
	suffixObj []int
	suffixCov []map[string]int

	nodes     int
	truncated bool
	bestObj   int
	bestPick  []int
}

func (s *solverState) search(idx, fat, dur, obj int, picked []int) {
	s.nodes++
	if s.nodes&1023 == 0 && time.Now().After(s.deadline) {
		s.truncated = true
	}
	if s.truncated {
		return
	}
	if !s.coverageReachable(idx) {
		return
	}
	if obj+s.suffixObj[idx] <= s.bestObj {
		return
	}
	if idx == len(s.cands) {
		if s.coverageMet() && obj > s.bestObj {
			s.bestObj = obj
			s.bestPick = append([]int(nil), picked...)
		}
		return
	}

	cand := s.cands[idx]

	// Include branch.
	if fat+cand.fatigue <= s.maxFat && dur+cand.duration <= s.maxDur {
		for _, m := range cand.muscles {
			s.needs[m] -= s.cfg.SetsPerMovement
		}
		s.search(idx+1, fat+cand.fatigue, dur+cand.duration, obj+cand.objective, append(picked, idx))
		for _, m := range cand.muscles {
			s.needs[m] += s.cfg.SetsPerMovement
		}
	} else if cand.required {
		// Required item does not fit; this branch is dead.
		return
	}

	// Exclude branch (never legal for required items).
	if !cand.required {
		s.search(idx+1, fat, dur, obj, picked)
	}
}

func (s *solverState) coverageMet() bool {
	for _, need := range s.needs {
		if need > 0 {
			return false
		}
	}
	return true
}

// coverageReachable prunes branches where the remaining candidates cannot
// possibly cover the outstanding muscle targets.
func (s *solverState) coverageReachable(idx int) bool {
	remaining := s.suffixCov[idx]
	for muscle, need := range s.needs {
		if need > 0 && remaining[muscle] < need {
			return false
		}
	}
	return true
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
