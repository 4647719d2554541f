package gamedata

import (
	"errors"
	"math/rand"

	"github.com/samdwyer/problemcrawl/internal/entity"
)

// offlineWindow is how far a pool problem's level may be from the target.
const offlineWindow = 5

// ProblemsFile represents the structure of problems.json.
type ProblemsFile struct {
	Fallback entity.ProblemSummary   `json:"fallback"`
	Problems []entity.ProblemSummary `json:"problems"`
}

// ProblemPool is the curated set of problems served when the supplier is
// unreachable.
type ProblemPool struct {
	problems []entity.ProblemSummary
	fallback entity.ProblemSummary
}

// NewProblemPool creates a pool from summaries and a last-resort fallback.
func NewProblemPool(problems []entity.ProblemSummary, fallback entity.ProblemSummary) *ProblemPool {
	return &ProblemPool{problems: problems, fallback: fallback}
}

// LoadProblemPool loads the pool from the embedded problems.json.
func LoadProblemPool() (*ProblemPool, error) {
	file, err := load[ProblemsFile]("problems.json")
	if err != nil {
		return nil, err
	}
	if len(file.Problems) == 0 {
		return nil, errors.New("no problems loaded from problems.json")
	}
	return NewProblemPool(file.Problems, file.Fallback), nil
}

// MustLoadProblemPool loads the pool, panicking on error.
func MustLoadProblemPool() *ProblemPool {
	pool, err := LoadProblemPool()
	if err != nil {
		panic(err)
	}
	return pool
}

// Pick selects a problem uniformly among those within five levels of
// target, or from the whole pool if none are that close. An empty pool
// yields the fallback problem.
func (p *ProblemPool) Pick(rng *rand.Rand, target int) entity.ProblemSummary {
	candidates := p.Near(target)
	if len(candidates) == 0 {
		candidates = p.problems
	}
	if len(candidates) == 0 {
		return p.fallback
	}
	return candidates[rng.Intn(len(candidates))]
}

// Near returns the problems whose level is within five of target.
func (p *ProblemPool) Near(target int) []entity.ProblemSummary {
	var near []entity.ProblemSummary
	for _, s := range p.problems {
		d := s.Level - target
		if d < 0 {
			d = -d
		}
		if d <= offlineWindow {
			near = append(near, s)
		}
	}
	return near
}

// Fallback returns the last-resort problem.
func (p *ProblemPool) Fallback() entity.ProblemSummary {
	return p.fallback
}

// Count returns the number of problems in the pool.
func (p *ProblemPool) Count() int {
	return len(p.problems)
}
