package planar

import (
	"math"

	"room-planner/internal/planner/blueprint"

	"github.com/hashicorp/go-hclog"
	"github.com/jbeda/geom"
)

// ============================================================
// Options
// ============================================================

type Options struct {
	// SnapTolerance притяжение цели и вершин к осям соседей, см.
	SnapTolerance float64
	CmPerPixel    float64
	Width         float64
	Height        float64
}

func DefaultOptions() Options {
	return Options{
		SnapTolerance: 25,
		CmPerPixel:    DefaultCmPerPixel,
		Width:         800,
		Height:        600,
	}
}

// ============================================================
// Controller
// ============================================================

// Controller автомат 2D-редактора: рисование, перемещение и удаление
// вершин и стен по событиям указателя. Не потокобезопасен.
type Controller struct {
	bp   *blueprint.Blueprint
	vp   *Viewport
	opts Options
	log  hclog.Logger

	mode Mode

	mouse  geom.Coord // см
	raw    geom.Coord // пиксели
	last   geom.Coord // пиксели, точка предыдущего сдвига
	target geom.Coord

	down  bool
	moved bool

	activeCorner *blueprint.Corner
	activeWall   *blueprint.Wall
	lastNode     *blueprint.Corner

	redraw      func()
	unsubscribe []func()
}

func NewController(bp *blueprint.Blueprint, opts Options, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	def := DefaultOptions()
	if opts.SnapTolerance <= 0 {
		opts.SnapTolerance = def.SnapTolerance
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}

	c := &Controller{
		bp:     bp,
		vp:     NewViewport(opts.Width, opts.Height, opts.CmPerPixel),
		opts:   opts,
		log:    logger.Named("planar"),
		mode:   ModeDraw,
		redraw: func() {},
	}

	// удалённые элементы не должны оставаться активными
	c.unsubscribe = append(c.unsubscribe,
		bp.Events().Subscribe(blueprint.EventCornerRemoved, func(ev blueprint.Event) {
			if ev.Corner == c.activeCorner {
				c.activeCorner = nil
			}
			if ev.Corner == c.lastNode {
				c.lastNode = nil
			}
		}),
		bp.Events().Subscribe(blueprint.EventWallRemoved, func(ev blueprint.Event) {
			if ev.Wall == c.activeWall {
				c.activeWall = nil
			}
		}),
	)

	c.ResetOrigin()
	return c
}

// Close отписывает контроллер от событий плана.
func (c *Controller) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
}

// OnRedraw задаёт функцию перерисовки; вызывается после каждого видимого изменения.
func (c *Controller) OnRedraw(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	c.redraw = fn
}

func (c *Controller) Blueprint() *blueprint.Blueprint     { return c.bp }
func (c *Controller) Viewport() *Viewport                 { return c.vp }
func (c *Controller) Mode() Mode                          { return c.mode }
func (c *Controller) Target() geom.Coord                  { return c.target }
func (c *Controller) Mouse() geom.Coord                   { return c.mouse }
func (c *Controller) ActiveCorner() *blueprint.Corner     { return c.activeCorner }
func (c *Controller) ActiveWall() *blueprint.Wall         { return c.activeWall }
func (c *Controller) LastNode() *blueprint.Corner         { return c.lastNode }
func (c *Controller) ConvertX(x float64) float64          { return c.vp.ConvertX(x) }
func (c *Controller) ConvertY(y float64) float64          { return c.vp.ConvertY(y) }
func (c *Controller) ToScreen(p geom.Coord) geom.Coord    { return c.vp.ToScreen(p) }

// SetMode переключает режим и завершает текущую цепочку рисования,
// даже если режим не меняется.
func (c *Controller) SetMode(mode Mode) {
	if c.lastNode != nil && len(c.lastNode.Walls()) == 0 {
		// цепочка обрывается: одиночная вершина без стен не остаётся в графе
		c.lastNode.RemoveAll()
	}
	if mode == ModeDraw {
		c.activeCorner = nil
		c.activeWall = nil
	}

	c.lastNode = nil
	c.mode = mode
	c.log.Debug("mode changed", "mode", mode)
	c.updateTarget()
}

func (c *Controller) updateTarget() {
	c.target = c.mouse
	if c.mode == ModeDraw && c.lastNode != nil {
		if math.Abs(c.mouse.X-c.lastNode.X()) < c.opts.SnapTolerance {
			c.target.X = c.lastNode.X()
		}
		if math.Abs(c.mouse.Y-c.lastNode.Y()) < c.opts.SnapTolerance {
			c.target.Y = c.lastNode.Y()
		}
	}
	c.redraw()
}

// ============================================================
// Pointer events
// ============================================================

func (c *Controller) PointerDown() {
	c.down = true
	c.moved = false
	c.last = c.raw

	if c.mode != ModeDelete {
		return
	}

	switch {
	case c.activeCorner != nil:
		c.log.Debug("delete corner", "corner", c.activeCorner.ID())
		c.activeCorner.RemoveAll()
	case c.activeWall != nil:
		c.log.Debug("delete wall", "wall", c.activeWall.ID())
		c.activeWall.Remove()
	default:
		c.SetMode(ModeMove)
	}
	c.redraw()
}

// PointerMove x, y в пикселях относительно левого верхнего угла холста.
func (c *Controller) PointerMove(x, y float64) {
	c.moved = true
	c.raw = geom.Coord{X: x, Y: y}
	c.mouse = c.vp.ToWorld(x, y)

	if c.mode == ModeDraw || (c.mode == ModeMove && c.down) {
		c.updateTarget()
	}

	if c.mode != ModeDraw && !c.down {
		c.updateHover()
	}

	if c.down && c.activeCorner == nil && c.activeWall == nil {
		c.vp.Pan(c.last.X-c.raw.X, c.last.Y-c.raw.Y)
		c.last = c.raw
		c.redraw()
	}

	if c.mode == ModeMove && c.down {
		c.dragActive()
	}
}

func (c *Controller) PointerUp() {
	c.down = false

	if c.mode != ModeDraw || c.moved {
		return
	}

	corner := c.bp.NewCorner(c.target.X, c.target.Y, "")
	if c.lastNode != nil {
		c.bp.NewWall(c.lastNode, corner)
	}
	if corner.MergeWithIntersected() && c.lastNode != nil {
		// замкнули контур или попали в существующую стену
		c.SetMode(ModeMove)
	}
	if c.mode == ModeDraw {
		c.lastNode = corner
	}
	c.redraw()
}

func (c *Controller) updateHover() {
	hoverCorner := c.bp.OverlappedCorner(c.mouse.X, c.mouse.Y, 0)
	hoverWall := c.bp.OverlappedWall(c.mouse.X, c.mouse.Y, 0)

	changed := false
	if hoverCorner != c.activeCorner {
		c.activeCorner = hoverCorner
		changed = true
	}

	if c.activeCorner == nil {
		if hoverWall != c.activeWall {
			c.activeWall = hoverWall
			changed = true
		}
	} else {
		c.activeWall = nil
	}

	if changed {
		c.redraw()
	}
}

func (c *Controller) dragActive() {
	switch {
	case c.activeCorner != nil:
		c.activeCorner.Move(c.mouse.X, c.mouse.Y)
		if c.activeCorner != nil {
			c.activeCorner.SnapToAxis(c.opts.SnapTolerance)
		}
	case c.activeWall != nil:
		k := c.vp.CmPerPixel()
		c.activeWall.RelativeMove((c.raw.X-c.last.X)*k, (c.raw.Y-c.last.Y)*k)
		if c.activeWall != nil {
			c.activeWall.SnapToAxis(c.opts.SnapTolerance)
		}
		c.last = c.raw
	}

	c.bp.Update()
	c.redraw()
}

// ============================================================
// Viewport
// ============================================================

// ResetOrigin центрирует план на холсте.
func (c *Controller) ResetOrigin() {
	c.vp.CenterOn(c.bp.Center())
	c.redraw()
}

// Resize пересчитывает проекцию под новый размер холста.
func (c *Controller) Resize(width, height float64) {
	c.vp.Resize(width, height)
	c.redraw()
}
