// Package encounter implements the per-room lifecycle: what solving,
// skipping, leaving and travelling do in each room type.
package encounter

import (
	"fmt"

	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/world"
)

// FinalBossGoal is the number of solves that defeats the final boss.
const FinalBossGoal = 3

// Phase is where a room is in its lifecycle.
type Phase int

const (
	PhaseUnvisited Phase = iota // Hidden by fog
	PhaseRevealed               // Visible, never entered
	PhaseActive                 // Entered and not yet cleared
	PhaseCleared                // Terminal
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnvisited:
		return "unvisited"
	case PhaseRevealed:
		return "revealed"
	case PhaseActive:
		return "active"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// PhaseOf derives the lifecycle phase from a room's flags.
func PhaseOf(r *world.Room) Phase {
	switch {
	case r.Cleared:
		return PhaseCleared
	case r.Visited:
		return PhaseActive
	case r.Revealed:
		return PhaseRevealed
	default:
		return PhaseUnvisited
	}
}

// Action is a player intent resolved against the current room.
type Action int

const (
	// ActionSolve records a confirmed solve of one problem.
	ActionSolve Action = iota
	// ActionSkip abandons one problem.
	ActionSkip
	// ActionLeave finalizes the room on the player's request ("finish" for mini bosses).
	ActionLeave
	// ActionExit is the bookkeeping run when the player walks out.
	ActionExit
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionSolve:
		return "solve"
	case ActionSkip:
		return "skip"
	case ActionLeave:
		return "leave"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Outcome describes what resolving an action did to the room and what the
// caller must do next.
type Outcome struct {
	Applied bool   // False when the action was refused; the room is untouched
	Reason  string // Why the action was refused

	HPDelta            int
	Cleared            bool             // The room became cleared by this action
	Revealed           bool             // Neighbours should be revealed
	Reward             *entity.Modifier // Artifact reward to apply
	RequestReplacement bool             // Fetch one more final boss problem
	Victory            bool
	Message            string // History entry, empty for none
}

func refused(format string, args ...any) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// Resolve applies action to room r, mutating it in place. uid names the
// problem for solve and skip. Callers working copy-on-write pass a copy.
func Resolve(r *world.Room, action Action, uid string) Outcome {
	if r == nil {
		return refused("no room")
	}

	switch action {
	case ActionSolve:
		return resolveSolve(r, uid)
	case ActionSkip:
		return resolveSkip(r, uid)
	case ActionLeave:
		return resolveLeave(r)
	case ActionExit:
		return resolveExit(r)
	default:
		return refused("unknown action %d", action)
	}
}

// Interactive reports whether the problem with uid can still be attempted.
func Interactive(r *world.Room, uid string) bool {
	if r == nil || r.Cleared {
		return false
	}
	i := r.Problem(uid)
	if i < 0 || r.Problems[i].IsSolved {
		return false
	}
	// First success in an artifact room locks the others.
	if r.Type == world.RoomArtifact && r.AnySolved() {
		return false
	}
	return true
}

// CanTravel returns true if the player may move from r to dest.
func CanTravel(r *world.Room, dest world.Coord) bool {
	return r != nil && r.Cleared && r.IsAdjacent(dest)
}

// resolveSolve handles a confirmed solve.
func resolveSolve(r *world.Room, uid string) Outcome {
	if !Interactive(r, uid) {
		return refused("problem %s is not interactive", uid)
	}

	p := &r.Problems[r.Problem(uid)]
	p.IsSolved = true
	r.SolvedCount++

	out := Outcome{Applied: true, Message: fmt.Sprintf("Solved problem %d!", p.ID)}

	switch r.Type {
	case world.RoomEntrance, world.RoomNormal:
		r.Cleared = true
		out.Cleared = true
		out.Revealed = true
	case world.RoomArtifact:
		r.Cleared = true
		out.Cleared = true
		out.Revealed = true
		if p.Reward != nil {
			reward := *p.Reward
			out.Reward = &reward
		}
	case world.RoomMiniBoss:
		// Stays open until the player finishes it.
		out.Revealed = true
	case world.RoomFinalBoss:
		if r.SolvedCount >= FinalBossGoal {
			r.Cleared = true
			out.Cleared = true
			out.Victory = true
		} else {
			out.RequestReplacement = true
		}
	}
	return out
}

// resolveSkip handles abandoning a problem.
func resolveSkip(r *world.Room, uid string) Outcome {
	switch r.Type {
	case world.RoomFinalBoss:
		if !Interactive(r, uid) {
			return refused("problem %s is not interactive", uid)
		}
		i := r.Problem(uid)
		r.Problems = append(r.Problems[:i:i], r.Problems[i+1:]...)
		return Outcome{
			Applied:            true,
			HPDelta:            -1,
			RequestReplacement: true,
			Message:            "Skipped Final Boss problem. -1 HP.",
		}
	case world.RoomEntrance, world.RoomNormal:
		if !Interactive(r, uid) {
			return refused("problem %s is not interactive", uid)
		}
		// Skipping the only problem is giving up on the room.
		return resolveLeave(r)
	default:
		return refused("%s problems cannot be skipped", r.Type)
	}
}

// resolveLeave finalizes a room the player chooses to leave or finish.
func resolveLeave(r *world.Room) Outcome {
	if r.Cleared {
		return refused("room already cleared")
	}

	hp := 0
	switch r.Type {
	case world.RoomEntrance, world.RoomNormal:
		if !r.AnySolved() {
			hp = -1
		}
	case world.RoomMiniBoss:
		hp = r.SolvedCount - 1
	case world.RoomArtifact:
		hp = 0
	case world.RoomFinalBoss:
		return refused("the final boss cannot be left")
	}

	r.Cleared = true
	out := Outcome{Applied: true, HPDelta: hp, Cleared: true, Revealed: true}
	if hp != 0 {
		out.Message = fmt.Sprintf("Room finalized. HP %+d", hp)
	} else {
		out.Message = "Room finalized."
	}
	return out
}

// resolveExit runs the bookkeeping for walking out of a room. Only a mini
// boss that was never finished is settled here; travel normally requires a
// cleared room, so this is a no-op on the usual path.
func resolveExit(r *world.Room) Outcome {
	if r.Cleared {
		return Outcome{Applied: true}
	}
	if r.Type != world.RoomMiniBoss {
		return refused("%s room is not cleared", r.Type)
	}

	hp := r.SolvedCount - 1
	r.Cleared = true
	out := Outcome{Applied: true, HPDelta: hp, Cleared: true}
	if hp != 0 {
		out.Message = fmt.Sprintf("Mini-Boss complete: %d solved. HP %+d", r.SolvedCount, hp)
	} else {
		out.Message = fmt.Sprintf("Mini-Boss complete: %d solved. No HP change.", r.SolvedCount)
	}
	return out
}
