package entity

// InitialHP is the HP a new run starts with.
const InitialHP = 3

// Coord is a grid position.
type Coord struct {
	X, Y int
}

// Player is the per-run player state.
type Player struct {
	HP          int
	MaxHP       int
	Handle      string
	Tier        int
	CurrentRoom Coord
	Modifiers   []Modifier // Append-only
	TagStats    TagStats
	History     []string // Newest first
}

// NewPlayer creates a player at full HP with the given seeded stats.
func NewPlayer(handle string, stats TagStats) Player {
	return Player{
		HP:       InitialHP,
		MaxHP:    InitialHP,
		Handle:   handle,
		TagStats: stats,
	}
}

// Log prepends an event to the history.
func (p *Player) Log(msg string) {
	p.History = append([]string{msg}, p.History...)
}

// IsDead reports whether the player has run out of HP.
func (p Player) IsDead() bool {
	return p.HP <= 0
}

// Clone returns a copy that shares no mutable state with p.
func (p Player) Clone() Player {
	c := p
	c.Modifiers = append([]Modifier(nil), p.Modifiers...)
	c.History = append([]string(nil), p.History...)
	c.TagStats = p.TagStats.Clone()
	return c
}
