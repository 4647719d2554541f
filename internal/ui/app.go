package ui

import (
	"context"
	"errors"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/problemcrawl/internal/game"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
	"github.com/samdwyer/problemcrawl/internal/logger"
	"github.com/samdwyer/problemcrawl/internal/world"
)

const maxGridSize = 9

// intentKind is what a key press asks for.
type intentKind int

const (
	intentNone intentKind = iota
	intentQuit
	intentTravel
	intentSelect
	intentSolve
	intentSkip
	intentLeave
	intentReset
)

type intent struct {
	kind  intentKind
	delta world.Coord // Travel direction
	index int         // Selected problem
}

// playIntent maps a key press during a run to an intent.
func playIntent(ev *tcell.EventKey) intent {
	return keyIntent(ev.Key(), ev.Rune())
}

func keyIntent(key tcell.Key, r rune) intent {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return intent{kind: intentQuit}
	case tcell.KeyUp:
		return intent{kind: intentTravel, delta: world.Coord{X: 0, Y: -1}}
	case tcell.KeyDown:
		return intent{kind: intentTravel, delta: world.Coord{X: 0, Y: 1}}
	case tcell.KeyLeft:
		return intent{kind: intentTravel, delta: world.Coord{X: -1, Y: 0}}
	case tcell.KeyRight:
		return intent{kind: intentTravel, delta: world.Coord{X: 1, Y: 0}}
	case tcell.KeyEnter:
		return intent{kind: intentSolve}
	case tcell.KeyRune:
		switch r {
		case '1', '2', '3':
			return intent{kind: intentSelect, index: int(r - '1')}
		case 'k', 'K':
			return intent{kind: intentSkip}
		case 'l', 'L':
			return intent{kind: intentLeave}
		case 'r', 'R':
			return intent{kind: intentReset}
		case 'q', 'Q':
			return intent{kind: intentQuit}
		}
	}
	return intent{}
}

// opDone is posted back to the event loop when a background request ends.
type opDone struct {
	err error
}

// App runs the terminal front end on top of a game controller.
type App struct {
	screen   *Screen
	renderer *Renderer
	ctrl     *game.Controller
	catalog  *gamedata.Catalog
	log      *logrus.Entry

	view    View
	busy    int
	running bool
}

// NewApp creates the front end. handle and cfg prefill the setup screen.
func NewApp(screen *Screen, ctrl *game.Controller, catalog *gamedata.Catalog, styles map[string]gamedata.RoomStyle, handle string, cfg game.Config, log *logrus.Entry) *App {
	if log == nil {
		log = logger.Discard()
	}
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen, styles),
		ctrl:     ctrl,
		catalog:  catalog,
		log:      log,
		view:     View{Handle: handle, Config: cfg},
		running:  true,
	}
}

// Run executes the main loop until the player quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.screen.Close()

	for a.running {
		a.render()

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			// Screen finalized.
			return nil
		case *tcell.EventKey:
			a.handleKey(ctx, ev)
		case *tcell.EventInterrupt:
			if done, ok := ev.Data().(opDone); ok {
				a.busy--
				if done.err != nil {
					a.view.Message = done.err.Error()
				}
			}
		case *tcell.EventResize:
			a.screen.Sync()
		}
	}
	return nil
}

func (a *App) render() {
	s := a.ctrl.Snapshot()
	a.view.Busy = a.busy > 0
	a.view.TierName = a.catalog.TierName(s.Player.Tier)
	if room := s.ActiveRoom(); room != nil && a.view.Selected >= len(room.Problems) {
		a.view.Selected = 0
	}
	a.renderer.Render(s, a.view)
}

// async runs op off the event loop and reports back through an interrupt.
func (a *App) async(ctx context.Context, op func(ctx context.Context) error) {
	a.busy++
	a.view.Message = ""
	go func() {
		err := op(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.WithError(err).Debug("action rejected")
		}
		a.screen.Post(opDone{err: err})
	}()
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	if a.ctrl.Status() == game.StatusSetup {
		a.handleSetupKey(ctx, ev)
		return
	}

	in := playIntent(ev)
	switch in.kind {
	case intentQuit:
		a.running = false
	case intentReset:
		a.ctrl.Reset()
		a.view.Selected = 0
		a.view.Message = ""
	case intentSelect:
		a.view.Selected = in.index
	case intentTravel:
		cur := a.ctrl.Player().CurrentRoom
		dest := world.Coord{X: cur.X + in.delta.X, Y: cur.Y + in.delta.Y}
		a.view.Selected = 0
		a.async(ctx, func(ctx context.Context) error {
			return a.ctrl.Travel(ctx, dest)
		})
	case intentSolve:
		if uid, ok := a.selectedUID(); ok {
			a.async(ctx, func(ctx context.Context) error {
				_, err := a.ctrl.AttemptSolve(ctx, uid)
				return err
			})
		}
	case intentSkip:
		if uid, ok := a.selectedUID(); ok {
			a.async(ctx, func(ctx context.Context) error {
				return a.ctrl.Skip(ctx, uid)
			})
		}
	case intentLeave:
		a.async(ctx, a.ctrl.LeaveRoom)
	}
}

func (a *App) selectedUID() (string, bool) {
	room := a.ctrl.ActiveRoom()
	if room == nil || a.view.Selected >= len(room.Problems) {
		return "", false
	}
	return room.Problems[a.view.Selected].UID, true
}

func (a *App) handleSetupKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.running = false
	case tcell.KeyTab:
		a.view.Config.TestMode = !a.view.Config.TestMode
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.view.Handle); n > 0 {
			a.view.Handle = a.view.Handle[:n-1]
		}
	case tcell.KeyEnter:
		if a.busy > 0 {
			return
		}
		handle, cfg := a.view.Handle, a.view.Config
		a.view.Selected = 0
		a.async(ctx, func(ctx context.Context) error {
			return a.ctrl.StartGame(ctx, handle, cfg)
		})
	case tcell.KeyRune:
		a.view.Handle, a.view.Config.GridSize = editSetup(a.view.Handle, a.view.Config.GridSize, ev.Rune())
	}
}

// editSetup applies a typed rune to the setup form: +/- resize the grid,
// handle characters are appended.
func editSetup(handle string, size int, r rune) (string, int) {
	switch {
	case r == '+' || r == '=':
		if size < maxGridSize {
			size++
		}
	case r == '-':
		if size > world.MinSize {
			size--
		}
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		if r < unicode.MaxASCII {
			handle += string(r)
		}
	}
	return handle, size
}
