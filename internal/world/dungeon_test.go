package world

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func generate(t *testing.T, size int, seed int64) *Dungeon {
	t.Helper()
	d, err := Generate(context.Background(), size, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("Generate(%d) error: %v", size, err)
	}
	return d
}

func TestGenerateRejectsTinyGrid(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		d, err := Generate(context.Background(), size, rand.New(rand.NewSource(1)))
		if !errors.Is(err, ErrGridTooSmall) {
			t.Errorf("Generate(%d) error = %v, want ErrGridTooSmall", size, err)
		}
		if d != nil {
			t.Errorf("Generate(%d) should not return a dungeon", size)
		}
	}
}

func TestGenerateIsSpanningTree(t *testing.T) {
	for size := 2; size <= 8; size++ {
		for seed := int64(1); seed <= 5; seed++ {
			d := generate(t, size, seed)

			if got, want := d.EdgeCount(), size*size-1; got != want {
				t.Errorf("size %d seed %d: %d edges, want %d", size, seed, got, want)
			}
			if got := len(d.Distances(Coord{})); got != size*size {
				t.Errorf("size %d seed %d: %d rooms reachable, want %d", size, seed, got, size*size)
			}
		}
	}
}

func TestAdjacencyIsSymmetricGridLinks(t *testing.T) {
	d := generate(t, 6, 42)

	for y := range d.Rooms {
		for x := range d.Rooms[y] {
			r := &d.Rooms[y][x]
			for _, a := range r.Adjacent {
				dx, dy := a.X-x, a.Y-y
				if dx*dx+dy*dy != 1 {
					t.Errorf("(%d,%d) linked to non-neighbour %v", x, y, a)
				}
				if !d.Room(a).IsAdjacent(r.Coord()) {
					t.Errorf("link (%d,%d)->%v is not symmetric", x, y, a)
				}
			}
		}
	}
}

func TestEntranceAndBossAreUniqueAndOnDiameter(t *testing.T) {
	for size := 2; size <= 7; size++ {
		for seed := int64(1); seed <= 5; seed++ {
			d := generate(t, size, seed)

			if n := d.CountType(RoomEntrance); n != 1 {
				t.Fatalf("size %d seed %d: %d entrances", size, seed, n)
			}
			if n := d.CountType(RoomFinalBoss); n != 1 {
				t.Fatalf("size %d seed %d: %d final bosses", size, seed, n)
			}

			pathLen := d.Distances(d.Entrance)[d.Boss]
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					for _, dist := range d.Distances(Coord{X: x, Y: y}) {
						if dist > pathLen {
							t.Fatalf("size %d seed %d: path of %d from (%d,%d) exceeds entrance-boss path %d",
								size, seed, dist, x, y, pathLen)
						}
					}
				}
			}
		}
	}
}

func TestInitialFog(t *testing.T) {
	d := generate(t, 5, 7)

	entrance := d.Room(d.Entrance)
	if !entrance.Visited || !entrance.Revealed {
		t.Error("entrance should start visited and revealed")
	}

	for y := range d.Rooms {
		for x := range d.Rooms[y] {
			c := Coord{X: x, Y: y}
			r := d.Room(c)
			if c == d.Entrance {
				continue
			}
			if r.Visited {
				t.Errorf("%v should not start visited", c)
			}
			if want := entrance.IsAdjacent(c); r.Revealed != want {
				t.Errorf("%v revealed = %v, want %v", c, r.Revealed, want)
			}
		}
	}
}

func TestRoleRatio(t *testing.T) {
	for size := 2; size <= 9; size++ {
		d := generate(t, size, int64(size))
		total := size*size - 2

		normal := total * 3 / 6
		artifact := total * 2 / 6
		mini := total - normal - artifact

		if got := d.CountType(RoomNormal); got != normal {
			t.Errorf("size %d: %d NORMAL, want %d", size, got, normal)
		}
		if got := d.CountType(RoomArtifact); got != artifact {
			t.Errorf("size %d: %d ARTIFACT, want %d", size, got, artifact)
		}
		if got := d.CountType(RoomMiniBoss); got != mini {
			t.Errorf("size %d: %d MINI_BOSS, want %d", size, got, mini)
		}
	}
}

func TestDungeonReproducibility(t *testing.T) {
	d1 := generate(t, 6, 12345)
	d2 := generate(t, 6, 12345)

	if d1.Entrance != d2.Entrance || d1.Boss != d2.Boss {
		t.Fatalf("special rooms differ: %v/%v vs %v/%v", d1.Entrance, d1.Boss, d2.Entrance, d2.Boss)
	}
	for y := range d1.Rooms {
		for x := range d1.Rooms[y] {
			r1, r2 := d1.Rooms[y][x], d2.Rooms[y][x]
			if r1.Type != r2.Type || len(r1.Adjacent) != len(r2.Adjacent) {
				t.Errorf("room (%d,%d) mismatch: %s/%d vs %s/%d", x, y, r1.Type, len(r1.Adjacent), r2.Type, len(r2.Adjacent))
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := generate(t, 3, 1)
	c := d.Clone()

	c.Room(d.Boss).Cleared = true
	c.Room(d.Boss).SolvedCount = 2

	if d.Room(d.Boss).Cleared || d.Room(d.Boss).SolvedCount != 0 {
		t.Error("mutating the clone changed the original")
	}
}

func TestRoomLookupOutOfBounds(t *testing.T) {
	d := generate(t, 3, 1)

	for _, c := range []Coord{{X: -1, Y: 0}, {X: 0, Y: 3}, {X: 3, Y: 3}} {
		if d.Room(c) != nil {
			t.Errorf("Room(%v) should be nil", c)
		}
	}
	var nilDungeon *Dungeon
	if nilDungeon.Room(Coord{}) != nil {
		t.Error("Room on nil dungeon should be nil")
	}
}

func TestProblemCount(t *testing.T) {
	tests := []struct {
		typ  RoomType
		want int
	}{
		{RoomEntrance, 1},
		{RoomNormal, 1},
		{RoomFinalBoss, 1},
		{RoomMiniBoss, 3},
		{RoomArtifact, 3},
	}
	for _, tt := range tests {
		if got := tt.typ.ProblemCount(); got != tt.want {
			t.Errorf("%s.ProblemCount() = %d, want %d", tt.typ, got, tt.want)
		}
	}
}
