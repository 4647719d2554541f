package game

import (
	"errors"
	"fmt"

	"github.com/samdwyer/problemcrawl/internal/difficulty"
	"github.com/samdwyer/problemcrawl/internal/encounter"
	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/world"
)

var (
	// ErrNotPlaying is returned for intents outside an ongoing run.
	ErrNotPlaying = errors.New("no game in progress")
	// ErrTravelBlocked is returned when the current room is not cleared or
	// the destination is not linked to it.
	ErrTravelBlocked = errors.New("travel not allowed")
	// ErrNotInteractive is returned when a room rule refuses the intent.
	ErrNotInteractive = errors.New("action not allowed in this room")
	// ErrUnknownProblem is returned for a problem uid not in the current room.
	ErrUnknownProblem = errors.New("problem not in current room")
	// ErrPopulationPending is returned when a fetch for the room is in flight.
	ErrPopulationPending = errors.New("problem fetch already in flight")

	errStale     = errors.New("stale result")
	errPopulated = errors.New("room already populated")
)

// Action is a state transition request. The set is closed: only the types
// in this file implement it.
type Action interface {
	isAction()
}

// Start begins a run on a freshly generated dungeon.
type Start struct {
	Handle   string
	Tier     int
	TierName string
	Config   Config
	Dungeon  *world.Dungeon
	Tags     []string
}

// BeginFetch marks a room as having a problem fetch in flight.
type BeginFetch struct {
	Generation  uint64
	Room        world.Coord
	Replacement bool
}

// ProblemsLoaded delivers fetched problems for a room.
type ProblemsLoaded struct {
	Generation  uint64
	Room        world.Coord
	Problems    []entity.Problem
	Replacement bool
}

// SolveChecked delivers the solved-check answer for a problem.
type SolveChecked struct {
	Generation uint64
	Room       world.Coord
	UID        string
	Solved     bool
}

// Skip abandons a problem in the current room.
type Skip struct {
	UID string
}

// Leave finalizes the current room.
type Leave struct{}

// Travel moves to a linked room.
type Travel struct {
	Dest world.Coord
}

// Reset returns to setup, keeping only the handle.
type Reset struct {
	Tags []string
}

func (Start) isAction()          {}
func (BeginFetch) isAction()     {}
func (ProblemsLoaded) isAction() {}
func (SolveChecked) isAction()   {}
func (Skip) isAction()           {}
func (Leave) isAction()          {}
func (Travel) isAction()         {}
func (Reset) isAction()          {}

// Effects are follow-up fetches the caller must run after a transition.
type Effects struct {
	Populate *world.Coord // Load the room's problem batch
	Replace  *world.Coord // Load one more final boss problem
}

// Reduce applies a to s and returns the next session. On error the
// returned session is s itself.
func Reduce(s *Session, a Action) (*Session, Effects, error) {
	switch a := a.(type) {
	case Start:
		return reduceStart(s, a)
	case Reset:
		return reduceReset(s, a)
	case BeginFetch:
		return reduceBeginFetch(s, a)
	case ProblemsLoaded:
		return reduceProblemsLoaded(s, a)
	case SolveChecked:
		return reduceSolveChecked(s, a)
	case Skip:
		return reduceRoomAction(s, encounter.ActionSkip, a.UID)
	case Leave:
		return reduceRoomAction(s, encounter.ActionLeave, "")
	case Travel:
		return reduceTravel(s, a)
	default:
		return s, Effects{}, fmt.Errorf("unknown action %T", a)
	}
}

func reduceStart(s *Session, a Start) (*Session, Effects, error) {
	if a.Dungeon == nil {
		return s, Effects{}, fmt.Errorf("%w: no dungeon", ErrInvalidConfig)
	}

	player := entity.NewPlayer(a.Handle, entity.NewTagStats(a.Tags, entity.InitialMean(a.Tier)))
	player.Tier = a.Tier
	player.CurrentRoom = a.Dungeon.Entrance
	player.Log(fmt.Sprintf("Game started! Tier: %s", a.TierName))

	next := &Session{
		Generation: s.Generation + 1,
		Status:     StatusPlaying,
		Config:     a.Config,
		Dungeon:    a.Dungeon.Clone(),
		Player:     player,
		pending:    map[world.Coord]bool{},
	}
	entrance := a.Dungeon.Entrance
	return next, Effects{Populate: &entrance}, nil
}

func reduceReset(s *Session, a Reset) (*Session, Effects, error) {
	next := NewSession(s.Player.Handle, a.Tags)
	next.Generation = s.Generation + 1
	return next, Effects{}, nil
}

func reduceBeginFetch(s *Session, a BeginFetch) (*Session, Effects, error) {
	if a.Generation != s.Generation {
		return s, Effects{}, errStale
	}
	if s.Status != StatusPlaying {
		return s, Effects{}, ErrNotPlaying
	}
	room := s.Dungeon.Room(a.Room)
	if room == nil {
		return s, Effects{}, errStale
	}
	if s.pending[a.Room] {
		return s, Effects{}, ErrPopulationPending
	}
	if !a.Replacement && len(room.Problems) > 0 {
		return s, Effects{}, errPopulated
	}

	next := s.Clone()
	next.pending[a.Room] = true
	return next, Effects{}, nil
}

func reduceProblemsLoaded(s *Session, a ProblemsLoaded) (*Session, Effects, error) {
	if a.Generation != s.Generation || s.Dungeon.Room(a.Room) == nil {
		return s, Effects{}, errStale
	}

	next := s.Clone()
	delete(next.pending, a.Room)
	if next.Status != StatusPlaying {
		return next, Effects{}, nil
	}

	room := next.Dungeon.Room(a.Room)
	problems := make([]entity.Problem, len(a.Problems))
	for i, p := range a.Problems {
		problems[i] = p.Clone()
	}

	switch {
	case a.Replacement:
		// Keep exactly one open final boss problem.
		if room.OpenProblems() == 0 && len(problems) > 0 {
			room.Problems = append(room.Problems, problems[0])
		}
	case len(room.Problems) == 0:
		room.Problems = problems
	}
	return next, Effects{}, nil
}

func reduceSolveChecked(s *Session, a SolveChecked) (*Session, Effects, error) {
	if a.Generation != s.Generation || s.Player.CurrentRoom != a.Room {
		return s, Effects{}, errStale
	}
	if s.Status != StatusPlaying {
		return s, Effects{}, ErrNotPlaying
	}
	room := s.ActiveRoom()
	if room == nil {
		return s, Effects{}, errStale
	}
	i := room.Problem(a.UID)
	if i < 0 {
		return s, Effects{}, ErrUnknownProblem
	}

	next := s.Clone()
	if !a.Solved {
		next.Player.Log(fmt.Sprintf("Problem %d not solved yet.", room.Problems[i].ID))
		return next, Effects{}, nil
	}

	out := encounter.Resolve(next.ActiveRoom(), encounter.ActionSolve, a.UID)
	if !out.Applied {
		return s, Effects{}, fmt.Errorf("%w: %s", ErrNotInteractive, out.Reason)
	}
	return next, next.applyOutcome(a.Room, out), nil
}

func reduceRoomAction(s *Session, action encounter.Action, uid string) (*Session, Effects, error) {
	if s.Status != StatusPlaying {
		return s, Effects{}, ErrNotPlaying
	}
	room := s.ActiveRoom()
	if room == nil {
		return s, Effects{}, errStale
	}
	if uid != "" && room.Problem(uid) < 0 {
		return s, Effects{}, ErrUnknownProblem
	}

	next := s.Clone()
	out := encounter.Resolve(next.ActiveRoom(), action, uid)
	if !out.Applied {
		return s, Effects{}, fmt.Errorf("%w: %s", ErrNotInteractive, out.Reason)
	}
	return next, next.applyOutcome(s.Player.CurrentRoom, out), nil
}

func reduceTravel(s *Session, a Travel) (*Session, Effects, error) {
	if s.Status != StatusPlaying {
		return s, Effects{}, ErrNotPlaying
	}
	if !encounter.CanTravel(s.ActiveRoom(), a.Dest) || s.Dungeon.Room(a.Dest) == nil {
		return s, Effects{}, ErrTravelBlocked
	}

	next := s.Clone()
	from := next.Player.CurrentRoom
	out := encounter.Resolve(next.ActiveRoom(), encounter.ActionExit, "")
	next.applyOutcome(from, out)
	if next.Status != StatusPlaying {
		return next, Effects{}, nil
	}

	dest := next.Dungeon.Room(a.Dest)
	dest.Visited = true
	dest.Revealed = true
	next.Player.CurrentRoom = a.Dest

	var eff Effects
	if len(dest.Problems) == 0 {
		d := a.Dest
		eff.Populate = &d
	}
	return next, eff, nil
}

// applyOutcome folds a room outcome into the session. HP reaching zero ends
// the run immediately and drops every other consequence still to apply.
func (s *Session) applyOutcome(c world.Coord, out encounter.Outcome) Effects {
	if out.Message != "" {
		s.Player.Log(out.Message)
	}
	if out.Revealed {
		s.Dungeon.RevealNeighbors(c)
	}
	if s.changeHP(out.HPDelta) {
		return Effects{}
	}

	if out.Reward != nil {
		applied, err := difficulty.ApplyModifier(s.Player.TagStats, s.Player.Tier, *out.Reward)
		if err == nil {
			s.Player.TagStats = applied.Stats
			s.Player.Modifiers = append(s.Player.Modifiers, applied.Modifier)
			s.Player.Log("Artifact Used: " + applied.Modifier.Description)
			if s.changeHP(applied.HPDelta) {
				return Effects{}
			}
		}
	}

	if out.Victory {
		s.Status = StatusWon
		s.Player.Log("Victory!")
		return Effects{}
	}

	var eff Effects
	if out.RequestReplacement {
		cc := c
		eff.Replace = &cc
	}
	return eff
}

// changeHP adjusts HP and reports whether the run was lost.
func (s *Session) changeHP(delta int) bool {
	if delta == 0 {
		return false
	}
	s.Player.HP += delta
	if s.Player.IsDead() {
		s.Status = StatusLost
		s.Player.Log("Defeat.")
		return true
	}
	return false
}
