package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/problemcrawl/internal/difficulty"
	"github.com/samdwyer/problemcrawl/internal/encounter"
	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
	"github.com/samdwyer/problemcrawl/internal/logger"
	"github.com/samdwyer/problemcrawl/internal/telemetry"
	"github.com/samdwyer/problemcrawl/internal/world"
)

// TierLookup resolves a handle's rating tier. Unrated handles are tier 0.
type TierLookup interface {
	Tier(ctx context.Context, handle string) (int, error)
}

// SolveChecker reports whether handle has solved the problem with the
// given external id.
type SolveChecker interface {
	Solved(ctx context.Context, handle string, problemID int) (bool, error)
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Tiers    TierLookup
	Checker  SolveChecker
	Problems *difficulty.Generator
	Catalog  *gamedata.Catalog
	// Sampler is the random source for dungeon layout.
	Sampler *difficulty.Sampler
	Log     *logrus.Entry
	// OnChange is called after every committed transition, outside the lock.
	OnChange func()
}

// Controller owns the live session. Methods are safe for concurrent use;
// collaborator calls happen without holding the lock.
type Controller struct {
	mu      sync.Mutex
	session *Session

	tiers    TierLookup
	checker  SolveChecker
	problems *difficulty.Generator
	catalog  *gamedata.Catalog
	sampler  *difficulty.Sampler
	log      *logrus.Entry
	onChange func()
}

// NewController creates a controller in the setup state. Problems and
// Catalog are required.
func NewController(deps Deps) *Controller {
	c := &Controller{
		tiers:    deps.Tiers,
		checker:  deps.Checker,
		problems: deps.Problems,
		catalog:  deps.Catalog,
		sampler:  deps.Sampler,
		log:      deps.Log,
		onChange: deps.OnChange,
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	if c.sampler == nil {
		c.sampler = difficulty.NewSampler(rand.New(rand.NewSource(rand.Int63())))
	}
	c.session = NewSession("", c.catalog.InitialTags())
	return c
}

// Snapshot returns the current session. It must be treated as read-only.
func (c *Controller) Snapshot() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Status returns the run status.
func (c *Controller) Status() Status {
	return c.Snapshot().Status
}

// Dungeon returns the current grid, or nil outside a run.
func (c *Controller) Dungeon() *world.Dungeon {
	return c.Snapshot().Dungeon
}

// ActiveRoom returns the room the player is in, or nil outside a run.
func (c *Controller) ActiveRoom() *world.Room {
	return c.Snapshot().ActiveRoom()
}

// Player returns the player state.
func (c *Controller) Player() entity.Player {
	return c.Snapshot().Player
}

// commit reduces a against the live session and installs the result.
func (c *Controller) commit(a Action) (*Session, Effects, error) {
	c.mu.Lock()
	prev := c.session
	next, eff, err := Reduce(prev, a)
	if err == nil {
		c.session = next
	}
	c.mu.Unlock()

	if err != nil {
		return prev, Effects{}, err
	}
	if prev.Status != next.Status && next.Status.Over() {
		c.log.WithFields(logrus.Fields{
			"status": next.Status,
			"hp":     next.Player.HP,
		}).Info("game over")
	}
	if c.onChange != nil {
		c.onChange()
	}
	return next, eff, nil
}

// run commits a and performs the follow-up fetches it requests.
func (c *Controller) run(ctx context.Context, a Action) error {
	next, eff, err := c.commit(a)
	if err != nil {
		return err
	}
	c.follow(ctx, next.Generation, eff)
	return nil
}

func (c *Controller) follow(ctx context.Context, gen uint64, eff Effects) {
	if eff.Populate != nil {
		c.populate(ctx, gen, *eff.Populate, false)
	}
	if eff.Replace != nil {
		c.populate(ctx, gen, *eff.Replace, true)
	}
}

// StartGame builds a new dungeon and enters it. Any run in progress is
// abandoned.
func (c *Controller) StartGame(ctx context.Context, handle string, cfg Config) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.start")
	defer span.End()

	handle = strings.TrimSpace(handle)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if handle == "" && !cfg.TestMode {
		return fmt.Errorf("%w: empty handle", ErrInvalidConfig)
	}

	tier := c.lookupTier(ctx, cfg.lookupHandle(handle))

	var (
		d   *world.Dungeon
		err error
	)
	c.sampler.With(func(rng *rand.Rand) {
		d, err = world.Generate(ctx, cfg.GridSize, rng)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.log.WithFields(logrus.Fields{
		"size":     d.Size,
		"entrance": d.Entrance,
		"boss":     d.Boss,
		"diameter": d.Distances(d.Entrance)[d.Boss],
		"tier":     tier,
	}).Info("dungeon generated")

	span.SetAttributes(
		attribute.Int("game.tier", tier),
		attribute.Int("game.grid_size", cfg.GridSize),
		attribute.Bool("game.test_mode", cfg.TestMode),
	)

	return c.run(ctx, Start{
		Handle:   handle,
		Tier:     tier,
		TierName: c.catalog.TierName(tier),
		Config:   cfg,
		Dungeon:  d,
		Tags:     c.catalog.InitialTags(),
	})
}

func (c *Controller) lookupTier(ctx context.Context, handle string) int {
	if c.tiers == nil {
		return DefaultTier
	}
	tier, err := c.tiers.Tier(ctx, handle)
	if err != nil {
		c.log.WithField("handle", handle).WithError(err).Warn("tier lookup failed, using default tier")
		return DefaultTier
	}
	return tier
}

// AttemptSolve asks the solve checker whether the problem was solved and
// applies the result. It reports whether the solve was confirmed.
func (c *Controller) AttemptSolve(ctx context.Context, uid string) (bool, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.solve")
	defer span.End()

	s := c.Snapshot()
	if s.Status != StatusPlaying {
		return false, ErrNotPlaying
	}
	room := s.ActiveRoom()
	i := room.Problem(uid)
	if i < 0 {
		return false, ErrUnknownProblem
	}
	if !encounter.Interactive(room, uid) {
		return false, ErrNotInteractive
	}
	problemID := room.Problems[i].ID
	span.SetAttributes(attribute.Int("problem.id", problemID))

	solved := c.checkSolved(ctx, s, problemID)
	span.SetAttributes(attribute.Bool("problem.solved", solved))

	next, eff, err := c.commit(SolveChecked{
		Generation: s.Generation,
		Room:       s.Player.CurrentRoom,
		UID:        uid,
		Solved:     solved,
	})
	if errors.Is(err, errStale) {
		c.log.WithField("problem", problemID).Debug("discarding stale solve check")
		return false, ErrNotPlaying
	}
	if err != nil {
		return false, err
	}
	c.follow(ctx, next.Generation, eff)
	return solved, nil
}

func (c *Controller) checkSolved(ctx context.Context, s *Session, problemID int) bool {
	if s.Config.TestMode {
		return true
	}
	if c.checker == nil {
		return false
	}
	solved, err := c.checker.Solved(ctx, s.Player.Handle, problemID)
	if err != nil {
		c.log.WithField("problem", problemID).WithError(err).Warn("solve check failed")
		return false
	}
	return solved
}

// Skip abandons a problem using the current room's skip policy.
func (c *Controller) Skip(ctx context.Context, uid string) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.skip")
	defer span.End()
	return c.run(ctx, Skip{UID: uid})
}

// LeaveRoom finalizes the current room, or finishes a mini boss.
func (c *Controller) LeaveRoom(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.leave")
	defer span.End()
	return c.run(ctx, Leave{})
}

// Travel moves to a room linked to the current, cleared one.
func (c *Controller) Travel(ctx context.Context, dest world.Coord) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.travel")
	defer span.End()
	span.SetAttributes(attribute.Int("room.x", dest.X), attribute.Int("room.y", dest.Y))
	return c.run(ctx, Travel{Dest: dest})
}

// Reset discards the run and returns to setup, keeping the handle.
// Fetches still in flight are dropped when they complete.
func (c *Controller) Reset() {
	// Reset cannot fail.
	_, _, _ = c.commit(Reset{Tags: c.catalog.InitialTags()})
}

// populate fetches problems for the room at coord under generation gen.
// A replacement fetches a single final boss problem.
func (c *Controller) populate(ctx context.Context, gen uint64, coord world.Coord, replacement bool) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "room.populate")
	defer span.End()

	s, _, err := c.commit(BeginFetch{Generation: gen, Room: coord, Replacement: replacement})
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"room":        coord,
			"replacement": replacement,
		}).WithError(err).Debug("skipping room population")
		return
	}

	room := s.Dungeon.Room(coord)
	handle := s.Config.lookupHandle(s.Player.Handle)
	stats := s.Player.TagStats

	var problems []entity.Problem
	if replacement {
		problems = []entity.Problem{c.problems.GenerateUnique(ctx, handle, stats, room.ProblemIDs())}
	} else {
		problems = c.problems.GenerateBatch(ctx, handle, stats, room.Type.ProblemCount())
		if room.Type == world.RoomArtifact {
			c.problems.AssignRewards(problems, stats)
		}
	}
	span.SetAttributes(
		attribute.String("room.type", room.Type.String()),
		attribute.Int("room.problems", len(problems)),
	)

	_, _, err = c.commit(ProblemsLoaded{
		Generation:  gen,
		Room:        coord,
		Problems:    problems,
		Replacement: replacement,
	})
	if errors.Is(err, errStale) {
		c.log.WithField("room", coord).Debug("discarding stale problem batch")
	}
}
