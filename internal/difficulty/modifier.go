package difficulty

import (
	"errors"
	"fmt"
	"math"

	"github.com/samdwyer/problemcrawl/internal/entity"
)

// ErrUnknownModifier is returned for a modifier type outside the known set.
var ErrUnknownModifier = errors.New("unknown modifier type")

// Applied is the result of applying a modifier.
type Applied struct {
	Stats    entity.TagStats // New stats; the input map is not touched
	HPDelta  int
	Modifier entity.Modifier // Input modifier with its description filled in
}

// ApplyModifier returns the stats after applying m. A target tag that is
// not tracked yet is created with chance 1, stdDev 1 and the tier's seed mean.
func ApplyModifier(stats entity.TagStats, tier int, m entity.Modifier) (Applied, error) {
	if !m.Type.Valid() {
		return Applied{}, fmt.Errorf("%w: %q", ErrUnknownModifier, m.Type)
	}

	next := stats.Clone()
	tag := m.TargetTag()
	stat, ok := next[tag]
	if !ok {
		stat = entity.TagStat{Chance: 1, StdDev: 1, Mean: entity.InitialMean(tier)}
	}

	hp := 0
	switch m.Type {
	case entity.ModifierHP:
		hp = 1
	case entity.ModifierHardcore:
		stat.Mean += 0.5
		stat.StdDev += 0.5
	case entity.ModifierGambling:
		stat.StdDev *= 1.5
	case entity.ModifierNoGambling:
		stat.StdDev *= 0.75
	case entity.ModifierGamechanger:
		stat.Chance += 0.5
	case entity.ModifierEquivalentExchange:
		hp = -1
		stat.Mean = math.Max(1, stat.Mean-1.0)
	}
	next[tag] = stat

	applied := m
	applied.Tag = tag
	applied.Description = entity.DescribeModifier(m.Type, tag)
	return Applied{Stats: next, HPDelta: hp, Modifier: applied}, nil
}
