// Package game drives a dungeon run: it owns the session, turns player
// intents into state transitions and fetches problems as rooms open up.
package game

// Status is the overall state of a run.
type Status int

const (
	// StatusSetup is the state before a run starts and after a reset.
	StatusSetup Status = iota
	// StatusPlaying is an ongoing run.
	StatusPlaying
	// StatusWon means the final boss was defeated.
	StatusWon
	// StatusLost means HP reached zero.
	StatusLost
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSetup:
		return "setup"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the run has ended.
func (s Status) Over() bool {
	return s == StatusWon || s == StatusLost
}
