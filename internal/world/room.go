package world

import "github.com/samdwyer/problemcrawl/internal/entity"

// Coord is a grid position; X is the column and Y the row.
type Coord = entity.Coord

// Room is one cell of the dungeon grid.
type Room struct {
	X, Y        int
	Type        RoomType
	Visited     bool
	Revealed    bool
	Cleared     bool
	Problems    []entity.Problem
	SolvedCount int
	// Adjacent is fixed at generation time and shared between copies.
	Adjacent []Coord
}

// Coord returns the room's position.
func (r *Room) Coord() Coord {
	return Coord{X: r.X, Y: r.Y}
}

// IsAdjacent returns true if c is linked to this room.
func (r *Room) IsAdjacent(c Coord) bool {
	for _, a := range r.Adjacent {
		if a == c {
			return true
		}
	}
	return false
}

// Problem returns the index of the problem instance with the given UID, or -1.
func (r *Room) Problem(uid string) int {
	for i := range r.Problems {
		if r.Problems[i].UID == uid {
			return i
		}
	}
	return -1
}

// AnySolved returns true if at least one problem in the room is solved.
func (r *Room) AnySolved() bool {
	for _, p := range r.Problems {
		if p.IsSolved {
			return true
		}
	}
	return false
}

// OpenProblems returns the number of unsolved problems.
func (r *Room) OpenProblems() int {
	n := 0
	for _, p := range r.Problems {
		if !p.IsSolved {
			n++
		}
	}
	return n
}

// ProblemIDs returns the external ids already present in the room.
func (r *Room) ProblemIDs() map[int]bool {
	ids := make(map[int]bool, len(r.Problems))
	for _, p := range r.Problems {
		ids[p.ID] = true
	}
	return ids
}

// clone copies the mutable parts of the room.
func (r Room) clone() Room {
	c := r
	if r.Problems != nil {
		c.Problems = make([]entity.Problem, len(r.Problems))
		for i, p := range r.Problems {
			c.Problems[i] = p.Clone()
		}
	}
	return c
}
