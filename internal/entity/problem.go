// Package entity provides the values a dungeon run is made of: problems,
// modifiers, per-tag sampling stats and the player.
package entity

import "fmt"

// ProblemURL returns the canonical judge URL for an external problem id.
func ProblemURL(id int) string {
	return fmt.Sprintf("https://acmicpc.net/problem/%d", id)
}

// ProblemSummary is what a problem supplier returns for a search.
type ProblemSummary struct {
	ID    int      `json:"id"`
	Title string   `json:"title"`
	Level int      `json:"level"`
	Tags  []string `json:"tags"`
	URL   string   `json:"url,omitempty"`
}

// Problem is one problem instance placed in a room. The same external
// problem may appear several times with different UIDs.
type Problem struct {
	UID      string    // Unique instance id
	ID       int       // External problem id
	Title    string    // Display title
	Level    int       // 1-30
	Tags     []string  // Topic tags
	URL      string    // Canonical URL
	IsSolved bool      // Solved during this run
	Reward   *Modifier // Pre-assigned reward, ARTIFACT rooms only
}

// NewProblem builds a problem instance from a supplier summary.
func NewProblem(uid string, s ProblemSummary) Problem {
	url := s.URL
	if url == "" {
		url = ProblemURL(s.ID)
	}
	return Problem{
		UID:   uid,
		ID:    s.ID,
		Title: s.Title,
		Level: s.Level,
		Tags:  append([]string(nil), s.Tags...),
		URL:   url,
	}
}

// HasTag reports whether the problem carries the given tag.
func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with p.
func (p Problem) Clone() Problem {
	c := p
	c.Tags = append([]string(nil), p.Tags...)
	if p.Reward != nil {
		r := *p.Reward
		c.Reward = &r
	}
	return c
}
