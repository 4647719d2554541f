package game

import (
	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/world"
)

// Session is one version of the whole run state. Reduce never mutates a
// session; it returns a new one.
type Session struct {
	// Generation changes on every start and reset. Async results carry the
	// generation they were issued under and are dropped on mismatch.
	Generation uint64
	Status     Status
	Config     Config
	Dungeon    *world.Dungeon
	Player     entity.Player

	// pending marks rooms with a problem fetch in flight.
	pending map[world.Coord]bool
}

// NewSession returns an idle session for handle with tags seeded at mean 1.
func NewSession(handle string, tags []string) *Session {
	return &Session{
		Status:  StatusSetup,
		Player:  entity.NewPlayer(handle, entity.NewTagStats(tags, 1)),
		pending: map[world.Coord]bool{},
	}
}

// Clone returns a deep copy of the mutable state.
func (s *Session) Clone() *Session {
	c := *s
	c.Dungeon = s.Dungeon.Clone()
	c.Player = s.Player.Clone()
	c.pending = make(map[world.Coord]bool, len(s.pending))
	for k, v := range s.pending {
		c.pending[k] = v
	}
	return &c
}

// ActiveRoom returns the room the player is in, or nil before a run starts.
func (s *Session) ActiveRoom() *world.Room {
	if s.Dungeon == nil {
		return nil
	}
	return s.Dungeon.Room(s.Player.CurrentRoom)
}

// Pending reports whether a problem fetch for c is in flight.
func (s *Session) Pending(c world.Coord) bool {
	return s.pending[c]
}
