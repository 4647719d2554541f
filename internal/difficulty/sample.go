// Package difficulty adapts problem difficulty to the player: it keeps
// per-tag sampling stats, draws a tag and a target level from them, turns
// modifiers into stat changes and acquires problems from a supplier.
package difficulty

import (
	"math"
	"math/rand"
	"sync"

	"github.com/samdwyer/problemcrawl/internal/entity"
)

// Level bounds of the problem scale.
const (
	MinLevel = 1
	MaxLevel = 30
)

// PickTag draws a tag with probability proportional to its chance.
// Tags are walked in lexical order; floating-point residue falls to the
// last tag. Returns "" when stats is empty.
func PickTag(rng *rand.Rand, stats entity.TagStats) string {
	tags := stats.Tags()
	if len(tags) == 0 {
		return ""
	}

	total := 0.0
	for _, tag := range tags {
		total += stats[tag].Chance
	}

	r := rng.Float64() * total
	for _, tag := range tags {
		r -= stats[tag].Chance
		if r <= 0 {
			return tag
		}
	}
	return tags[len(tags)-1]
}

// SampleDifficulty draws a level from N(mean, stdDev²), rounded and clamped
// to [MinLevel, MaxLevel].
func SampleDifficulty(rng *rand.Rand, stat entity.TagStat) int {
	level := math.Round(stat.Mean + stat.StdDev*boxMuller(rng))
	return clampLevel(level)
}

// boxMuller returns a standard normal variate. Zero draws are resampled
// so log(0) never happens.
func boxMuller(rng *rand.Rand) float64 {
	u := 0.0
	for u == 0 {
		u = rng.Float64()
	}
	v := 0.0
	for v == 0 {
		v = rng.Float64()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}

func clampLevel(level float64) int {
	if math.IsNaN(level) || level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return int(level)
}

// Sampler serializes access to a shared random source so concurrent
// problem fetches can draw from it.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler wraps rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Target draws a tag and a level for it in one step.
func (s *Sampler) Target(stats entity.TagStats) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag := PickTag(s.rng, stats)
	return tag, SampleDifficulty(s.rng, stats[tag])
}

// Intn returns a uniform int in [0, n).
func (s *Sampler) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// With runs fn with exclusive use of the random source.
func (s *Sampler) With(fn func(rng *rand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.rng)
}
