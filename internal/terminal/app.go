package terminal

import (
	"context"
	"fmt"

	"room-planner/internal/planner/planar"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
)

// Шаг сдвига вида стрелками, пиксели холста.
const panStep = 4 * CellWidth

// ============================================================
// App
// ============================================================

// App связывает 2D-контроллер с терминалом: мышь превращается в события
// указателя, клавиши переключают режимы и сдвигают вид.
type App struct {
	screen  tcell.Screen
	surface *Surface
	ctrl    *planar.Controller
	view    *planar.View
	log     hclog.Logger

	pressed bool
	col     int
	row     int
}

func NewApp(screen tcell.Screen, ctrl *planar.Controller, logger hclog.Logger) *App {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	surface := NewSurface(screen)
	view := planar.NewView(ctrl, surface, Style())
	view.ShowGrid = false

	a := &App{
		screen:  screen,
		surface: surface,
		ctrl:    ctrl,
		view:    view,
		log:     logger.Named("terminal"),
		col:     -1,
		row:     -1,
	}
	ctrl.OnRedraw(a.Draw)
	a.resize()
	return a
}

// Style стиль плана для терминала: без сетки, заливка комнат тёмная.
func Style() planar.Style {
	s := planar.DefaultStyle()
	s.GridColor = ""
	s.RoomColor = "#303030"
	s.WallColor = "#d0d0d0"
	s.EdgeColor = ""
	s.CornerRadius = 1
	s.LabelColor = "#ffd75f"
	return s
}

func (a *App) Draw() {
	a.view.Draw()
	a.surface.Status(a.status())
	a.screen.Show()
}

func (a *App) status() string {
	bp := a.ctrl.Blueprint()
	return fmt.Sprintf(" %s | corners %d walls %d rooms %d | m move  d draw  x delete  r reset  q quit",
		a.ctrl.Mode(), len(bp.Corners()), len(bp.Walls()), len(bp.Rooms()))
}

func (a *App) resize() {
	a.ctrl.Resize(a.surface.Size())
}

// Handle обрабатывает одно событие; false означает выход.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !a.handleKey(ev) {
			return false
		}
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	a.Draw()
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.ctrl.Viewport().Pan(-panStep, 0)
	case tcell.KeyRight:
		a.ctrl.Viewport().Pan(panStep, 0)
	case tcell.KeyUp:
		a.ctrl.Viewport().Pan(0, -panStep)
	case tcell.KeyDown:
		a.ctrl.Viewport().Pan(0, panStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'm':
			a.ctrl.SetMode(planar.ModeMove)
		case 'd':
			a.ctrl.SetMode(planar.ModeDraw)
		case 'x':
			a.ctrl.SetMode(planar.ModeDelete)
		case 'r':
			a.ctrl.ResetOrigin()
		}
	}
	return true
}

// handleMouse переводит клетку под курсором в пиксели холста. Нажатие и
// отпускание выводятся из смены кнопок. Движение передаётся только при смене
// клетки, иначе отпускание на месте считалось бы перетаскиванием.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	if col != a.col || row != a.row {
		a.col, a.row = col, row
		a.ctrl.PointerMove(Pixel(col, row))
	}

	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !a.pressed:
		a.ctrl.PointerDown()
	case !down && a.pressed:
		a.ctrl.PointerUp()
	}
	a.pressed = down
}

// pump переносит события экрана в канал, пока не закрыт stop.
// PollEvent возвращает nil после Fini.
func (a *App) pump(events chan<- tcell.Event, stop <-chan struct{}) {
	defer close(events)
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// Run крутит цикл событий до выхода или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	defer a.screen.DisableMouse()
	a.Draw()

	stop := make(chan struct{})
	defer close(stop)
	events := make(chan tcell.Event, 100)
	go a.pump(events, stop)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.Handle(ev) {
				a.log.Debug("terminal closed by user")
				return nil
			}
		}
	}
}
