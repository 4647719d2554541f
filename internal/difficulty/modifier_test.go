package difficulty

import (
	"errors"
	"testing"

	"github.com/samdwyer/problemcrawl/internal/entity"
)

func TestApplyModifierArithmetic(t *testing.T) {
	base := entity.TagStats{"dp": {Chance: 1, Mean: 5, StdDev: 2}}

	tests := []struct {
		typ    entity.ModifierType
		want   entity.TagStat
		wantHP int
	}{
		{entity.ModifierHP, entity.TagStat{Chance: 1, Mean: 5, StdDev: 2}, 1},
		{entity.ModifierHardcore, entity.TagStat{Chance: 1, Mean: 5.5, StdDev: 2.5}, 0},
		{entity.ModifierGambling, entity.TagStat{Chance: 1, Mean: 5, StdDev: 3}, 0},
		{entity.ModifierNoGambling, entity.TagStat{Chance: 1, Mean: 5, StdDev: 1.5}, 0},
		{entity.ModifierGamechanger, entity.TagStat{Chance: 1.5, Mean: 5, StdDev: 2}, 0},
		{entity.ModifierEquivalentExchange, entity.TagStat{Chance: 1, Mean: 4, StdDev: 2}, -1},
	}

	for _, tt := range tests {
		got, err := ApplyModifier(base, 20, entity.Modifier{Type: tt.typ, Tag: "dp"})
		if err != nil {
			t.Fatalf("ApplyModifier(%s) error: %v", tt.typ, err)
		}
		if got.Stats["dp"] != tt.want {
			t.Errorf("ApplyModifier(%s) stat = %+v, want %+v", tt.typ, got.Stats["dp"], tt.want)
		}
		if got.HPDelta != tt.wantHP {
			t.Errorf("ApplyModifier(%s) HPDelta = %d, want %d", tt.typ, got.HPDelta, tt.wantHP)
		}
		if got.Modifier.Description != entity.DescribeModifier(tt.typ, "dp") {
			t.Errorf("ApplyModifier(%s) description = %q", tt.typ, got.Modifier.Description)
		}
	}

	if base["dp"] != (entity.TagStat{Chance: 1, Mean: 5, StdDev: 2}) {
		t.Errorf("input stats were mutated: %+v", base["dp"])
	}
}

func TestApplyModifierChained(t *testing.T) {
	stats := entity.TagStats{"math": {Chance: 1, Mean: 5, StdDev: 2}}

	step := func(typ entity.ModifierType) Applied {
		a, err := ApplyModifier(stats, 0, entity.Modifier{Type: typ})
		if err != nil {
			t.Fatalf("ApplyModifier(%s) error: %v", typ, err)
		}
		stats = a.Stats
		return a
	}

	step(entity.ModifierHardcore)
	if got := stats["math"]; got.Mean != 5.5 || got.StdDev != 2.5 {
		t.Fatalf("after HARDCORE = %+v", got)
	}
	step(entity.ModifierGambling)
	if got := stats["math"]; got.StdDev != 3.75 {
		t.Fatalf("after GAMBLING stdDev = %v, want 3.75", got.StdDev)
	}
	a := step(entity.ModifierEquivalentExchange)
	if got := stats["math"]; got.Mean != 4.5 || a.HPDelta != -1 {
		t.Fatalf("after EXCHANGE = %+v hp %d", got, a.HPDelta)
	}
}

func TestApplyModifierFloorsMeanAtOne(t *testing.T) {
	stats := entity.TagStats{"greedy": {Chance: 1, Mean: 1.5, StdDev: 1}}

	a, _ := ApplyModifier(stats, 0, entity.Modifier{Type: entity.ModifierEquivalentExchange, Tag: "greedy"})
	if got := a.Stats["greedy"].Mean; got != 1 {
		t.Errorf("mean = %v, want 1", got)
	}
}

func TestApplyModifierCreatesUntrackedTag(t *testing.T) {
	a, err := ApplyModifier(entity.TagStats{}, 18, entity.Modifier{Type: entity.ModifierGamechanger, Tag: "bfs"})
	if err != nil {
		t.Fatalf("ApplyModifier error: %v", err)
	}
	want := entity.TagStat{Chance: 1.5, Mean: 8, StdDev: 1}
	if got := a.Stats["bfs"]; got != want {
		t.Errorf("new tag stat = %+v, want %+v", got, want)
	}

	low, _ := ApplyModifier(entity.TagStats{}, 3, entity.Modifier{Type: entity.ModifierHP, Tag: "bfs"})
	if got := low.Stats["bfs"].Mean; got != 1 {
		t.Errorf("low-tier seed mean = %v, want 1", got)
	}
}

func TestApplyModifierDefaultsToMath(t *testing.T) {
	a, _ := ApplyModifier(entity.TagStats{}, 0, entity.Modifier{Type: entity.ModifierHardcore})
	if _, ok := a.Stats["math"]; !ok {
		t.Fatal("modifier without a tag should target math")
	}
	if a.Modifier.Tag != "math" {
		t.Errorf("applied modifier tag = %q, want math", a.Modifier.Tag)
	}
}

func TestApplyModifierRejectsUnknownType(t *testing.T) {
	_, err := ApplyModifier(entity.TagStats{}, 0, entity.Modifier{Type: "DOUBLE_OR_NOTHING"})
	if !errors.Is(err, ErrUnknownModifier) {
		t.Errorf("error = %v, want ErrUnknownModifier", err)
	}
}
