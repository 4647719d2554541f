package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/problemcrawl/internal/encounter"
	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/game"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
	"github.com/samdwyer/problemcrawl/internal/world"
)

// Map cell spacing: a room glyph every cellW columns and cellH rows, with
// corridors drawn in between.
const (
	cellW = 4
	cellH = 2

	historyLines = 8
)

// Canvas is the drawing surface. *Screen implements it.
type Canvas interface {
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
}

// View is everything drawn in one frame besides the session itself.
type View struct {
	Handle   string // Handle being typed on the setup screen
	Config   game.Config
	TierName string
	Selected int    // Index of the highlighted problem
	Message  string // Transient status line
	Busy     bool   // A request is in flight
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	canvas Canvas
	styles map[string]gamedata.RoomStyle
}

// NewRenderer creates a renderer drawing room types with styles.
func NewRenderer(canvas Canvas, styles map[string]gamedata.RoomStyle) *Renderer {
	return &Renderer{canvas: canvas, styles: styles}
}

var (
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Render draws one frame for session s.
func (r *Renderer) Render(s *game.Session, v View) {
	r.canvas.Clear()

	switch s.Status {
	case game.StatusSetup:
		r.renderSetup(v)
	default:
		r.renderMap(s.Dungeon, s.Player.CurrentRoom)
		r.renderPanel(s, v, s.Dungeon.Size*cellW+2)
	}

	_, h := r.canvas.Size()
	if v.Message != "" {
		r.text(0, h-2, v.Message, errorStyle)
	}
	r.text(0, h-1, r.helpLine(s.Status, v.Busy), dimStyle)

	r.canvas.Show()
}

func (r *Renderer) renderSetup(v View) {
	r.text(2, 1, "PROBLEMCRAWL", titleStyle)
	r.text(2, 3, "Handle: "+v.Handle+"_", textStyle)
	r.text(2, 4, fmt.Sprintf("Grid size: %d", v.Config.GridSize), textStyle)
	mode := "off"
	if v.Config.TestMode {
		mode = "on"
	}
	r.text(2, 5, "Test mode: "+mode, textStyle)
}

// renderMap draws the room grid with fog. Unrevealed rooms and the
// corridors touching them are not drawn.
func (r *Renderer) renderMap(d *world.Dungeon, current world.Coord) {
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			room := d.Room(world.Coord{X: x, Y: y})
			if !room.Revealed {
				continue
			}
			sx, sy := x*cellW, y*cellH

			glyph, style := r.roomGlyph(room)
			if room.Coord() == current {
				glyph, style = '@', playerStyle
			}
			r.canvas.SetContent(sx, sy, glyph, style)

			right := world.Coord{X: x + 1, Y: y}
			if room.IsAdjacent(right) && d.Room(right).Revealed {
				for i := 1; i < cellW; i++ {
					r.canvas.SetContent(sx+i, sy, '─', dimStyle)
				}
			}
			down := world.Coord{X: x, Y: y + 1}
			if room.IsAdjacent(down) && d.Room(down).Revealed {
				for i := 1; i < cellH; i++ {
					r.canvas.SetContent(sx, sy+i, '│', dimStyle)
				}
			}
		}
	}
}

// roomGlyph returns the map glyph for a room. Cleared rooms are dimmed.
func (r *Renderer) roomGlyph(room *world.Room) (rune, tcell.Style) {
	s, ok := r.styles[room.Type.String()]
	if !ok {
		return '?', textStyle
	}
	if room.Cleared {
		return s.GlyphRune(), dimStyle
	}
	return s.GlyphRune(), tcell.StyleDefault.Foreground(s.TCellColor())
}

func (r *Renderer) roomName(t world.RoomType) string {
	if s, ok := r.styles[t.String()]; ok {
		return s.Name
	}
	return t.String()
}

func (r *Renderer) renderPanel(s *game.Session, v View, x int) {
	p := s.Player
	y := 0
	line := func(text string, style tcell.Style) {
		r.text(x, y, text, style)
		y++
	}

	line(fmt.Sprintf("%s  HP %d/%d  %s", p.Handle, p.HP, p.MaxHP, v.TierName), titleStyle)
	switch s.Status {
	case game.StatusWon:
		line("Victory! The final boss is defeated.", titleStyle)
	case game.StatusLost:
		line("Defeat. You ran out of HP.", errorStyle)
	}
	y++

	room := s.ActiveRoom()
	header := r.roomName(room.Type)
	if room.Cleared {
		header += " (cleared)"
	}
	line(header, textStyle)
	if st, ok := r.styles[room.Type.String()]; ok && st.Hint != "" {
		line(st.Hint, dimStyle)
	}
	if room.Type == world.RoomFinalBoss {
		line(fmt.Sprintf("Defeated %d/%d", room.SolvedCount, encounter.FinalBossGoal), textStyle)
	}

	if s.Pending(room.Coord()) && room.OpenProblems() == 0 {
		line("Loading problems...", dimStyle)
	}
	for i, prob := range room.Problems {
		line(problemLine(i, prob, i == v.Selected), problemStyle(prob, i == v.Selected))
		if prob.Reward != nil {
			line("    "+prob.Reward.Description, dimStyle)
		}
	}
	y++

	if len(p.Modifiers) > 0 {
		descs := make([]string, len(p.Modifiers))
		for i, m := range p.Modifiers {
			descs[i] = m.Description
		}
		line("Artifacts: "+strings.Join(descs, ", "), dimStyle)
		y++
	}

	line("History", textStyle)
	for i, h := range p.History {
		if i == historyLines {
			break
		}
		line("  "+h, dimStyle)
	}
}

func problemLine(i int, p entity.Problem, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	mark := " "
	if p.IsSolved {
		mark = "✓"
	}
	return fmt.Sprintf("%s%s [%d] #%d %s (Lv %d) %s", cursor, mark, i+1, p.ID, p.Title, p.Level, strings.Join(p.Tags, ","))
}

func problemStyle(p entity.Problem, selected bool) tcell.Style {
	switch {
	case p.IsSolved:
		return dimStyle
	case selected:
		return textStyle.Bold(true)
	default:
		return textStyle
	}
}

func (r *Renderer) helpLine(status game.Status, busy bool) string {
	var help string
	switch status {
	case game.StatusSetup:
		help = "type handle  Tab test mode  +/- grid size  Enter start  Esc quit"
	case game.StatusPlaying:
		help = "arrows travel  1-3 select  Enter solve  k skip  l leave  r reset  q quit"
	default:
		help = "r new game  q quit"
	}
	if busy {
		help = "[working] " + help
	}
	return help
}

// text draws s starting at (x, y) and returns the column after it.
func (r *Renderer) text(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.canvas.SetContent(x, y, ch, style)
		x++
	}
	return x
}
