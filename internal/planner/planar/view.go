package planar

import (
	"math"

	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/geometry"

	"github.com/jbeda/geom"
)

// ============================================================
// View
// ============================================================

// View рисует план на Surface. Без контроллера рисуется статичная картинка
// (без подсветки и цели рисования).
type View struct {
	bp      *blueprint.Blueprint
	vp      *Viewport
	ctrl    *Controller
	surface Surface
	style   Style

	ShowGrid bool
}

// NewView привязывает вид к контроллеру и подписывает его на перерисовку.
func NewView(ctrl *Controller, surface Surface, style Style) *View {
	v := &View{
		bp:       ctrl.Blueprint(),
		vp:       ctrl.Viewport(),
		ctrl:     ctrl,
		surface:  surface,
		style:    style,
		ShowGrid: true,
	}
	ctrl.OnRedraw(v.Draw)
	return v
}

// NewStaticView вид без интерактивного состояния.
func NewStaticView(bp *blueprint.Blueprint, vp *Viewport, surface Surface, style Style) *View {
	return &View{bp: bp, vp: vp, surface: surface, style: style}
}

func (v *View) Draw() {
	v.surface.Clear()
	if v.ShowGrid {
		v.drawGrid()
	}

	for _, r := range v.bp.Rooms() {
		v.drawRoom(r)
	}

	walls := v.bp.Walls()
	for _, w := range walls {
		v.drawWall(w)
	}

	for _, c := range v.bp.Corners() {
		v.drawCorner(c)
	}

	if v.ctrl != nil && v.ctrl.Mode() == ModeDraw && v.ctrl.LastNode() != nil {
		v.drawTarget(v.ctrl.Target(), v.ctrl.LastNode())
	}

	for _, w := range walls {
		v.drawWallLabel(w)
	}
}

func (v *View) hoverCorner(c *blueprint.Corner) bool {
	return v.ctrl != nil && v.ctrl.ActiveCorner() == c
}

func (v *View) hoverWall(w *blueprint.Wall) bool {
	return v.ctrl != nil && v.ctrl.ActiveWall() == w
}

func (v *View) deleting() bool {
	return v.ctrl != nil && v.ctrl.Mode() == ModeDelete
}

// ============================================================
// Grid
// ============================================================

func gridOffset(n, spacing float64) float64 {
	if n >= 0 {
		return math.Mod(n+spacing/2, spacing) - spacing/2
	}
	return math.Mod(n-spacing/2, spacing) + spacing/2
}

func (v *View) drawGrid() {
	s := v.style
	if s.GridSpacing <= 0 {
		return
	}
	width, height := v.surface.Size()
	offsetX := gridOffset(-v.vp.OriginX, s.GridSpacing)
	offsetY := gridOffset(-v.vp.OriginY, s.GridSpacing)

	for x := 0.0; x <= width/s.GridSpacing; x++ {
		px := s.GridSpacing*x + offsetX
		v.surface.Line(px, 0, px, height, s.GridWidth, s.GridColor)
	}
	for y := 0.0; y <= height/s.GridSpacing; y++ {
		py := s.GridSpacing*y + offsetY
		v.surface.Line(0, py, width, py, s.GridWidth, s.GridColor)
	}
}

// ============================================================
// Elements
// ============================================================

func (v *View) project(points []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(points))
	for i, p := range points {
		out[i] = v.vp.ToScreen(p)
	}
	return out
}

func (v *View) drawRoom(r *blueprint.Room) {
	v.surface.Polygon(v.project(r.Points()), v.style.RoomColor, "", 0)
}

func (v *View) drawWall(w *blueprint.Wall) {
	hover := v.hoverWall(w)

	color := v.style.WallColor
	width := v.style.WallWidth
	switch {
	case hover && v.deleting():
		color = v.style.DeleteColor
		width = v.style.WallWidthHover
	case hover:
		color = v.style.WallColorHover
		width = v.style.WallWidthHover
	}

	start := v.vp.ToScreen(w.Start().Position())
	end := v.vp.ToScreen(w.End().Position())
	v.surface.Line(start.X, start.Y, end.X, end.Y, width, color)

	if hover {
		return
	}
	edges := v.bp.Edges()
	for _, id := range []blueprint.EdgeID{w.FrontEdge(), w.BackEdge()} {
		if id == blueprint.NoEdge {
			continue
		}
		quad := edges.Corners(id)
		v.surface.Polygon(v.project(quad[:]), "", v.style.EdgeColor, v.style.EdgeWidth)
	}
}

func (v *View) drawCorner(c *blueprint.Corner) {
	color := v.style.CornerColor
	radius := v.style.CornerRadius
	switch {
	case v.hoverCorner(c) && v.deleting():
		color = v.style.DeleteColor
	case v.hoverCorner(c):
		color = v.style.CornerColorHover
		radius = v.style.CornerRadiusHover
	}

	p := v.vp.ToScreen(c.Position())
	v.surface.Circle(p.X, p.Y, radius+1, v.style.EdgeColor)
	v.surface.Circle(p.X, p.Y, radius, color)
}

func (v *View) drawTarget(target geom.Coord, last *blueprint.Corner) {
	t := v.vp.ToScreen(target)
	v.surface.Circle(t.X, t.Y, v.style.CornerRadiusHover, v.style.CornerColorHover)

	l := v.vp.ToScreen(last.Position())
	v.surface.Line(l.X, l.Y, t.X, t.Y, v.style.WallWidthHover, v.style.WallColorHover)
}

// drawWallLabel подписывает более короткую из внутренних сторон стены.
func (v *View) drawWallLabel(w *blueprint.Wall) {
	edges := v.bp.Edges()
	front, back := w.FrontEdge(), w.BackEdge()

	id := front
	switch {
	case front != blueprint.NoEdge && back != blueprint.NoEdge:
		if edges.InteriorDistance(back) < edges.InteriorDistance(front) {
			id = back
		}
	case back != blueprint.NoEdge:
		id = back
	case front == blueprint.NoEdge:
		return
	}

	length := edges.InteriorDistance(id)
	if length < v.style.LabelMinLength {
		return
	}
	pos := v.vp.ToScreen(edges.InteriorCenter(id))
	v.surface.Text(pos.X, pos.Y, geometry.CmToMeasure(length), v.style.LabelColor)
}
