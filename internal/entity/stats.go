package entity

import (
	"math"
	"sort"
)

// TagStat holds the sampling parameters for one tag.
type TagStat struct {
	Chance float64 // Sampling weight, not normalized
	Mean   float64 // Target difficulty, kept >= 1
	StdDev float64 // Spread
}

// TagStats maps tags to their stats.
type TagStats map[string]TagStat

// InitialMean returns the seed mean for a player of the given tier.
func InitialMean(tier int) float64 {
	return math.Max(1, float64(tier-10))
}

// NewTagStats seeds every tag with chance 1, stdDev 1 and the given mean.
func NewTagStats(tags []string, mean float64) TagStats {
	stats := make(TagStats, len(tags))
	for _, tag := range tags {
		stats[tag] = TagStat{Chance: 1, Mean: mean, StdDev: 1}
	}
	return stats
}

// Tags returns the tracked tags in lexical order, the fixed iteration
// order used by weighted selection.
func (s TagStats) Tags() []string {
	tags := make([]string, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Clone returns an independent copy.
func (s TagStats) Clone() TagStats {
	c := make(TagStats, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
