package difficulty

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
	"github.com/samdwyer/problemcrawl/internal/logger"
	"github.com/samdwyer/problemcrawl/internal/telemetry"
)

const (
	// DefaultAttempts is the number of supplier searches before going offline.
	DefaultAttempts = 5
	// DefaultAttemptTimeout bounds a single supplier search.
	DefaultAttemptTimeout = 5 * time.Second
	// duplicateRetries bounds redraws when a batch slot repeats an id.
	duplicateRetries = 3
	// offlineTierTag is the tag whose mean stands in for the player's level offline.
	offlineTierTag = "math"
	// offlineDefaultTier is used when offlineTierTag is not tracked.
	offlineDefaultTier = 10
)

var (
	errNoMatch = errors.New("no problem matched")
	errNoTags  = errors.New("no tags to sample from")
)

// Searcher finds at most one unsolved problem for a tag and level.
// A nil summary with a nil error means nothing matched.
type Searcher interface {
	SearchProblem(ctx context.Context, tag string, level int, excludeHandle string) (*entity.ProblemSummary, error)
}

// Options tunes a Generator. Zero values take the defaults.
type Options struct {
	Attempts       uint
	AttemptTimeout time.Duration
	RetryDelay     time.Duration
	Log            *logrus.Entry
	// NewUID generates problem instance ids; defaults to random UUIDs.
	NewUID func() string
}

// Generator acquires problems for rooms. It asks the Searcher first and falls
// back to the offline pool when every attempt fails.
type Generator struct {
	searcher       Searcher
	pool           *gamedata.ProblemPool
	sampler        *Sampler
	attempts       uint
	attemptTimeout time.Duration
	retryDelay     time.Duration
	log            *logrus.Entry
	newUID         func() string
}

// NewGenerator creates a generator. searcher may be nil for offline play.
func NewGenerator(searcher Searcher, pool *gamedata.ProblemPool, sampler *Sampler, opts Options) *Generator {
	g := &Generator{
		searcher:       searcher,
		pool:           pool,
		sampler:        sampler,
		attempts:       opts.Attempts,
		attemptTimeout: opts.AttemptTimeout,
		retryDelay:     opts.RetryDelay,
		log:            opts.Log,
		newUID:         opts.NewUID,
	}
	if g.attempts == 0 {
		g.attempts = DefaultAttempts
	}
	if g.attemptTimeout <= 0 {
		g.attemptTimeout = DefaultAttemptTimeout
	}
	if g.sampler == nil {
		g.sampler = NewSampler(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if g.log == nil {
		g.log = logger.Discard()
	}
	if g.newUID == nil {
		g.newUID = uuid.NewString
	}
	return g
}

// Generate returns one problem for handle. Each attempt samples a fresh tag
// and level; a timeout, an error or an empty result uses up one attempt.
func (g *Generator) Generate(ctx context.Context, handle string, stats entity.TagStats) entity.Problem {
	ctx, span := telemetry.Tracer("difficulty").Start(ctx, "problem.generate")
	defer span.End()

	attempt := 0
	summary, err := backoff.Retry(ctx, func() (*entity.ProblemSummary, error) {
		attempt++
		return g.search(ctx, handle, stats, attempt)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(g.retryDelay)),
		backoff.WithMaxTries(g.attempts),
	)

	span.SetAttributes(attribute.Int("problem.attempts", attempt))
	if err == nil && summary != nil {
		span.SetAttributes(attribute.Int("problem.id", summary.ID), attribute.Bool("problem.offline", false))
		return entity.NewProblem(g.newUID(), *summary)
	}

	target := OfflineTier(stats)
	g.log.WithFields(logrus.Fields{
		"attempts": attempt,
		"target":   target,
		"error":    err,
	}).Warn("all searches failed, using offline problem pool")

	var picked entity.ProblemSummary
	if g.pool == nil {
		picked = entity.ProblemSummary{ID: 1000, Title: "A+B", Level: 1, Tags: []string{"implementation", "math"}}
	} else {
		g.sampler.With(func(rng *rand.Rand) {
			picked = g.pool.Pick(rng, target)
		})
	}
	span.SetAttributes(attribute.Int("problem.id", picked.ID), attribute.Bool("problem.offline", true))
	return entity.NewProblem(g.newUID(), picked)
}

// search runs one supplier attempt.
func (g *Generator) search(ctx context.Context, handle string, stats entity.TagStats, attempt int) (*entity.ProblemSummary, error) {
	if g.searcher == nil {
		return nil, backoff.Permanent(errNoMatch)
	}
	tag, level := g.sampler.Target(stats)
	if tag == "" {
		return nil, backoff.Permanent(errNoTags)
	}

	actx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	summary, err := g.searcher.SearchProblem(actx, tag, level, handle)
	if err == nil && summary == nil {
		err = errNoMatch
	}
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"tag":     tag,
			"level":   level,
		}).WithError(err).Warn("problem search failed")
		return nil, err
	}
	return summary, nil
}

// GenerateUnique draws a problem whose id is not in existing, retrying a
// few times. The last draw is kept even if it still repeats.
func (g *Generator) GenerateUnique(ctx context.Context, handle string, stats entity.TagStats, existing map[int]bool) entity.Problem {
	var p entity.Problem
	for i := 0; i < duplicateRetries; i++ {
		p = g.Generate(ctx, handle, stats)
		if !existing[p.ID] {
			break
		}
	}
	return p
}

// GenerateBatch returns count problems, avoiding repeated ids within the batch.
func (g *Generator) GenerateBatch(ctx context.Context, handle string, stats entity.TagStats, count int) []entity.Problem {
	seen := make(map[int]bool, count)
	problems := make([]entity.Problem, 0, count)
	for i := 0; i < count; i++ {
		p := g.GenerateUnique(ctx, handle, stats, seen)
		seen[p.ID] = true
		problems = append(problems, p)
	}
	return problems
}

// OfflineTier estimates the player's level from the math tag's mean, or 10
// when it is not tracked.
func OfflineTier(stats entity.TagStats) int {
	tier := offlineDefaultTier
	if s, ok := stats[offlineTierTag]; ok && s.Mean != 0 {
		tier = int(math.Round(s.Mean))
	}
	if tier < 1 {
		tier = 1
	}
	return tier
}
