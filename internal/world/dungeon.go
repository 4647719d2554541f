package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/problemcrawl/internal/telemetry"
)

// MinSize is the smallest grid with distinct entrance and final boss rooms.
const MinSize = 2

// ErrGridTooSmall is returned when a dungeon smaller than MinSize is requested.
var ErrGridTooSmall = errors.New("grid size below minimum")

// Role ratio for the non-special rooms: 3 normal, 2 artifact, remainder mini boss.
const (
	ratioNormal   = 3
	ratioArtifact = 2
	ratioTotal    = 6
)

// Dungeon is a Size x Size grid of rooms whose links form a spanning tree.
type Dungeon struct {
	Size     int
	Rooms    [][]Room // Indexed [y][x]
	Entrance Coord
	Boss     Coord
}

// Generate lays out a new dungeon: a random spanning tree over the grid,
// entrance and final boss at the two ends of a longest path, remaining roles
// assigned by ratio, and the entrance's neighbours revealed.
func Generate(ctx context.Context, size int, rng *rand.Rand) (*Dungeon, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrGridTooSmall, size, MinSize)
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	d := newDungeon(size)
	d.carveSpanningTree(rng)

	a, _ := d.farthestFrom(Coord{X: 0, Y: 0})
	b, diameter := d.farthestFrom(a)
	d.Entrance, d.Boss = a, b

	entrance := d.Room(a)
	entrance.Type = RoomEntrance
	entrance.Visited = true
	entrance.Revealed = true
	d.Room(b).Type = RoomFinalBoss

	d.assignRoles(rng)
	d.RevealNeighbors(a)

	span.SetAttributes(
		attribute.Int("dungeon.size", size),
		attribute.Int("dungeon.diameter", diameter),
		attribute.Int("dungeon.edges", d.EdgeCount()),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return d, nil
}

// newDungeon creates an unlinked grid of NORMAL rooms.
func newDungeon(size int) *Dungeon {
	rooms := make([][]Room, size)
	for y := range rooms {
		rooms[y] = make([]Room, size)
		for x := range rooms[y] {
			rooms[y][x] = Room{X: x, Y: y, Type: RoomNormal}
		}
	}
	return &Dungeon{Size: size, Rooms: rooms}
}

// InBounds returns true if c lies on the grid.
func (d *Dungeon) InBounds(c Coord) bool {
	return d != nil && c.X >= 0 && c.X < d.Size && c.Y >= 0 && c.Y < d.Size &&
		c.Y < len(d.Rooms) && c.X < len(d.Rooms[c.Y])
}

// Room returns the room at c, or nil if c is off the grid.
func (d *Dungeon) Room(c Coord) *Room {
	if !d.InBounds(c) {
		return nil
	}
	return &d.Rooms[c.Y][c.X]
}

// RevealNeighbors lifts the fog on every room linked to c.
func (d *Dungeon) RevealNeighbors(c Coord) {
	r := d.Room(c)
	if r == nil {
		return
	}
	for _, adj := range r.Adjacent {
		if n := d.Room(adj); n != nil {
			n.Revealed = true
		}
	}
}

// FindType returns the first room of the given type in row-major order.
func (d *Dungeon) FindType(t RoomType) (Coord, bool) {
	for y := range d.Rooms {
		for x := range d.Rooms[y] {
			if d.Rooms[y][x].Type == t {
				return Coord{X: x, Y: y}, true
			}
		}
	}
	return Coord{}, false
}

// CountType returns how many rooms have the given type.
func (d *Dungeon) CountType(t RoomType) int {
	n := 0
	for y := range d.Rooms {
		for x := range d.Rooms[y] {
			if d.Rooms[y][x].Type == t {
				n++
			}
		}
	}
	return n
}

// EdgeCount returns the number of undirected links.
func (d *Dungeon) EdgeCount() int {
	n := 0
	for y := range d.Rooms {
		for x := range d.Rooms[y] {
			n += len(d.Rooms[y][x].Adjacent)
		}
	}
	return n / 2
}

// Distances returns the hop count from start to every reachable room.
func (d *Dungeon) Distances(start Coord) map[Coord]int {
	dist := map[Coord]int{start: 0}
	queue := []Coord{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range d.Room(u).Adjacent {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// Clone returns a copy whose rooms can be mutated independently. Adjacency
// slices are shared since they never change after generation.
func (d *Dungeon) Clone() *Dungeon {
	if d == nil {
		return nil
	}
	c := &Dungeon{Size: d.Size, Entrance: d.Entrance, Boss: d.Boss}
	c.Rooms = make([][]Room, len(d.Rooms))
	for y := range d.Rooms {
		c.Rooms[y] = make([]Room, len(d.Rooms[y]))
		for x := range d.Rooms[y] {
			c.Rooms[y][x] = d.Rooms[y][x].clone()
		}
	}
	return c
}

// gridNeighbors returns the in-bounds orthogonal neighbours of c
// in up, down, left, right order.
func (d *Dungeon) gridNeighbors(c Coord) []Coord {
	candidates := [4]Coord{
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
	}
	out := make([]Coord, 0, 4)
	for _, n := range candidates {
		if d.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// carveSpanningTree links the grid with an iterative randomized depth-first walk.
func (d *Dungeon) carveSpanningTree(rng *rand.Rand) {
	visited := make(map[Coord]bool, d.Size*d.Size)
	start := Coord{X: rng.Intn(d.Size), Y: rng.Intn(d.Size)}
	stack := []Coord{start}
	visited[start] = true

	for len(stack) > 0 {
		current := stack[len(stack)-1]

		var unvisited []Coord
		for _, n := range d.gridNeighbors(current) {
			if !visited[n] {
				unvisited = append(unvisited, n)
			}
		}
		if len(unvisited) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := unvisited[rng.Intn(len(unvisited))]
		d.link(current, next)
		visited[next] = true
		stack = append(stack, next)
	}
}

// link adds an undirected edge between a and b.
func (d *Dungeon) link(a, b Coord) {
	ra, rb := d.Room(a), d.Room(b)
	ra.Adjacent = append(ra.Adjacent, b)
	rb.Adjacent = append(rb.Adjacent, a)
}

// farthestFrom runs a BFS from start and returns the first room reached at
// maximum distance, with that distance. On a tree, two passes of this find
// the ends of a longest path.
func (d *Dungeon) farthestFrom(start Coord) (Coord, int) {
	dist := map[Coord]int{start: 0}
	queue := []Coord{start}
	farthest := start

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if dist[u] > dist[farthest] {
			farthest = u
		}
		for _, v := range d.Room(u).Adjacent {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return farthest, dist[farthest]
}

// assignRoles shuffles the non-special rooms and splits them by ratio.
// Rounding loss falls to MINI_BOSS.
func (d *Dungeon) assignRoles(rng *rand.Rand) {
	coords := make([]Coord, 0, d.Size*d.Size)
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			c := Coord{X: x, Y: y}
			if c == d.Entrance || c == d.Boss {
				continue
			}
			coords = append(coords, c)
		}
	}

	// Fisher-Yates
	for i := len(coords) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		coords[i], coords[j] = coords[j], coords[i]
	}

	total := len(coords)
	normal, artifact := RoleCounts(total)
	for i, c := range coords {
		switch {
		case i < normal:
			d.Room(c).Type = RoomNormal
		case i < normal+artifact:
			d.Room(c).Type = RoomArtifact
		default:
			d.Room(c).Type = RoomMiniBoss
		}
	}
}

// RoleCounts returns how many of total non-special rooms become NORMAL and
// ARTIFACT; the rest are MINI_BOSS.
func RoleCounts(total int) (normal, artifact int) {
	return total * ratioNormal / ratioTotal, total * ratioArtifact / ratioTotal
}
