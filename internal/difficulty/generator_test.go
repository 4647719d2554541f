package difficulty

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
)

// fakeSearcher replays scripted responses and records the requests it saw.
type fakeSearcher struct {
	mu        sync.Mutex
	responses []func(ctx context.Context) (*entity.ProblemSummary, error)
	calls     int
	tags      []string
	levels    []int
	handles   []string
}

func (f *fakeSearcher) SearchProblem(ctx context.Context, tag string, level int, exclude string) (*entity.ProblemSummary, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.tags = append(f.tags, tag)
	f.levels = append(f.levels, level)
	f.handles = append(f.handles, exclude)
	var resp func(ctx context.Context) (*entity.ProblemSummary, error)
	if len(f.responses) > 0 {
		resp = f.responses[len(f.responses)-1]
		if i < len(f.responses) {
			resp = f.responses[i]
		}
	}
	f.mu.Unlock()
	if resp == nil {
		return nil, nil
	}
	return resp(ctx)
}

func found(id, level int, tags ...string) func(context.Context) (*entity.ProblemSummary, error) {
	return func(context.Context) (*entity.ProblemSummary, error) {
		return &entity.ProblemSummary{ID: id, Title: fmt.Sprintf("P%d", id), Level: level, Tags: tags}, nil
	}
}

func failing(context.Context) (*entity.ProblemSummary, error) {
	return nil, errors.New("connection refused")
}

func empty(context.Context) (*entity.ProblemSummary, error) {
	return nil, nil
}

func blocking(ctx context.Context) (*entity.ProblemSummary, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestGenerator(s Searcher, opts Options) *Generator {
	counter := 0
	if opts.NewUID == nil {
		opts.NewUID = func() string {
			counter++
			return fmt.Sprintf("uid-%d", counter)
		}
	}
	return NewGenerator(s, gamedata.MustLoadProblemPool(), NewSampler(rand.New(rand.NewSource(42))), opts)
}

func testStats(mean float64) entity.TagStats {
	return entity.NewTagStats([]string{"math", "dp", "graphs"}, mean)
}

func TestGenerateUsesSearchResult(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){found(1753, 12, "graphs")}}
	g := newTestGenerator(s, Options{})

	p := g.Generate(context.Background(), "alice", testStats(10))

	if p.ID != 1753 || p.Level != 12 {
		t.Errorf("Generate() = %+v, want problem 1753", p)
	}
	if p.URL != "https://acmicpc.net/problem/1753" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.UID != "uid-1" {
		t.Errorf("UID = %q, want uid-1", p.UID)
	}
	if s.calls != 1 || s.handles[0] != "alice" {
		t.Errorf("calls = %d handles = %v", s.calls, s.handles)
	}
}

func TestGenerateRetriesWithFreshSample(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){
		failing, empty, found(9251, 11, "dp", "string"),
	}}
	g := newTestGenerator(s, Options{})

	p := g.Generate(context.Background(), "alice", testStats(10))

	if p.ID != 9251 {
		t.Errorf("Generate() id = %d, want 9251", p.ID)
	}
	if s.calls != 3 {
		t.Errorf("search calls = %d, want 3", s.calls)
	}
}

func TestGenerateFallsBackOfflineAfterAttempts(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){failing}}
	g := newTestGenerator(s, Options{})
	pool := gamedata.MustLoadProblemPool()

	stats := testStats(11)
	for i := 0; i < 20; i++ {
		p := g.Generate(context.Background(), "alice", stats)
		d := p.Level - 11
		if d < -5 || d > 5 {
			t.Fatalf("offline problem level %d outside window of 11", p.Level)
		}
		if p.UID == "" {
			t.Fatal("offline problem missing UID")
		}
	}
	if s.calls != 20*DefaultAttempts {
		t.Errorf("search calls = %d, want %d", s.calls, 20*DefaultAttempts)
	}
	if len(pool.Near(11)) == 0 {
		t.Fatal("pool should have problems near level 11")
	}
}

func TestGenerateTimeoutConsumesAttempt(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){
		blocking, found(2557, 1, "implementation"),
	}}
	g := newTestGenerator(s, Options{AttemptTimeout: 20 * time.Millisecond})

	start := time.Now()
	p := g.Generate(context.Background(), "alice", testStats(1))

	if p.ID != 2557 {
		t.Errorf("Generate() id = %d, want 2557", p.ID)
	}
	if s.calls != 2 {
		t.Errorf("search calls = %d, want 2", s.calls)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timed-out attempt was not aborted")
	}
}

func TestGenerateWithoutSearcherIsOffline(t *testing.T) {
	g := newTestGenerator(nil, Options{})

	p := g.Generate(context.Background(), "alice", testStats(1))
	if p.Level > 6 {
		t.Errorf("offline level = %d, want within 5 of 1", p.Level)
	}
}

func TestGenerateWithEmptyPoolReturnsFallback(t *testing.T) {
	g := NewGenerator(nil, gamedata.NewProblemPool(nil, entity.ProblemSummary{ID: 1000, Title: "A+B", Level: 1}),
		NewSampler(rand.New(rand.NewSource(1))), Options{})

	p := g.Generate(context.Background(), "alice", testStats(10))
	if p.ID != 1000 {
		t.Errorf("Generate() id = %d, want fallback 1000", p.ID)
	}
}

func TestGenerateGivesEachInstanceItsOwnUID(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){found(1000, 1, "math")}}
	g := NewGenerator(s, gamedata.MustLoadProblemPool(), NewSampler(rand.New(rand.NewSource(1))), Options{})

	a := g.Generate(context.Background(), "alice", testStats(1))
	b := g.Generate(context.Background(), "alice", testStats(1))
	if a.ID != b.ID {
		t.Fatalf("expected the same external problem, got %d and %d", a.ID, b.ID)
	}
	if a.UID == b.UID || a.UID == "" {
		t.Errorf("instances share UID %q", a.UID)
	}
}

func TestGenerateBatchAvoidsRepeats(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){
		found(1, 5), found(1, 5), found(2, 5), found(2, 5), found(3, 5),
	}}
	g := newTestGenerator(s, Options{})

	batch := g.GenerateBatch(context.Background(), "alice", testStats(5), 3)

	if len(batch) != 3 {
		t.Fatalf("batch size = %d, want 3", len(batch))
	}
	ids := []int{batch[0].ID, batch[1].ID, batch[2].ID}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("batch ids = %v, want [1 2 3]", ids)
	}
}

func TestGenerateUniqueKeepsLastDrawWhenAllRepeat(t *testing.T) {
	s := &fakeSearcher{responses: []func(context.Context) (*entity.ProblemSummary, error){found(7, 5)}}
	g := newTestGenerator(s, Options{})

	p := g.GenerateUnique(context.Background(), "alice", testStats(5), map[int]bool{7: true})
	if p.ID != 7 {
		t.Errorf("id = %d, want 7", p.ID)
	}
	if s.calls != duplicateRetries {
		t.Errorf("search calls = %d, want %d", s.calls, duplicateRetries)
	}
}

func TestOfflineTier(t *testing.T) {
	tests := []struct {
		stats entity.TagStats
		want  int
	}{
		{entity.TagStats{}, 10},
		{entity.TagStats{"math": {Mean: 4.6}}, 5},
		{entity.TagStats{"math": {Mean: 0}}, 10},
		{entity.TagStats{"dp": {Mean: 20}}, 10},
		{entity.TagStats{"math": {Mean: 0.2}}, 1},
	}
	for _, tt := range tests {
		if got := OfflineTier(tt.stats); got != tt.want {
			t.Errorf("OfflineTier(%v) = %d, want %d", tt.stats, got, tt.want)
		}
	}
}

func TestAssignRewards(t *testing.T) {
	g := newTestGenerator(nil, Options{})
	stats := entity.TagStats{"dp": {Chance: 1, Mean: 1, StdDev: 1}}
	problems := []entity.Problem{
		{UID: "a", Tags: []string{"knapsack", "dp"}},
		{UID: "b", Tags: []string{"bfs", "graphs"}},
		{UID: "c"},
	}

	g.AssignRewards(problems, stats)

	wantTags := []string{"dp", "bfs", "math"}
	for i, p := range problems {
		if p.Reward == nil {
			t.Fatalf("problem %s has no reward", p.UID)
		}
		if p.Reward.Tag != wantTags[i] {
			t.Errorf("problem %s reward tag = %q, want %q", p.UID, p.Reward.Tag, wantTags[i])
		}
		if !p.Reward.Type.Valid() {
			t.Errorf("problem %s reward type %q invalid", p.UID, p.Reward.Type)
		}
		if p.Reward.Description != entity.DescribeModifier(p.Reward.Type, p.Reward.Tag) {
			t.Errorf("problem %s description %q not derived from type and tag", p.UID, p.Reward.Description)
		}
	}
}

func TestAssignRewardsCoversAllTypes(t *testing.T) {
	g := newTestGenerator(nil, Options{})
	problems := make([]entity.Problem, 300)

	g.AssignRewards(problems, entity.TagStats{})

	seen := map[entity.ModifierType]bool{}
	for _, p := range problems {
		seen[p.Reward.Type] = true
	}
	if len(seen) != len(entity.ModifierTypes) {
		t.Errorf("drew %d distinct modifier types, want %d", len(seen), len(entity.ModifierTypes))
	}
}
