package blueprint

import (
	"room-planner/internal/planner/geometry"

	"github.com/jbeda/geom"
)

// ============================================================
// Wall
// ============================================================

// Wall ребро графа. Направление start → end определяет, какая сторона
// стены считается лицевой (front) для комнаты.
type Wall struct {
	id    string
	start *Corner
	end   *Corner

	front EdgeID
	back  EdgeID

	orphan    bool
	thickness float64
	height    float64

	bp      *Blueprint
	removed bool
}

func (w *Wall) ID() string          { return w.id }
func (w *Wall) Start() *Corner      { return w.start }
func (w *Wall) End() *Corner        { return w.end }
func (w *Wall) FrontEdge() EdgeID   { return w.front }
func (w *Wall) BackEdge() EdgeID    { return w.back }
func (w *Wall) Orphan() bool        { return w.orphan }
func (w *Wall) Thickness() float64  { return w.thickness }
func (w *Wall) Height() float64     { return w.height }
func (w *Wall) Removed() bool       { return w.removed }
func (w *Wall) Length() float64     { return w.start.pos.DistanceFrom(w.end.pos) }
func (w *Wall) Center() geom.Coord  { return geometry.Midpoint(w.start.pos, w.end.pos) }
func (w *Wall) Segment() [2]geom.Coord {
	return [2]geom.Coord{w.start.pos, w.end.pos}
}

// SetStart переносит начало стены на corner; старая вершина без стен удаляется.
func (w *Wall) SetStart(c *Corner) {
	w.start.detachWall(w)
	c.attachStart(w)
	w.start = c
	w.fireMoved()
}

// SetEnd переносит конец стены на corner; старая вершина без стен удаляется.
func (w *Wall) SetEnd(c *Corner) {
	w.end.detachWall(w)
	c.attachEnd(w)
	w.end = c
	w.fireMoved()
}

// SetThickness меняет толщину; смещения граней пересчитываются при следующем Update.
func (w *Wall) SetThickness(t float64) {
	if t > 0 {
		w.thickness = t
	}
}

func (w *Wall) SetHeight(h float64) {
	if h > 0 {
		w.height = h
	}
}

func (w *Wall) DistanceFrom(p geom.Coord) float64 {
	return geometry.PointDistanceFromLine(p, w.start.pos, w.end.pos)
}

func (w *Wall) SnapToAxis(tolerance float64) {
	w.start.SnapToAxis(tolerance)
	w.end.SnapToAxis(tolerance)
}

func (w *Wall) RelativeMove(dx, dy float64) {
	w.start.RelativeMove(dx, dy)
	w.end.RelativeMove(dx, dy)
}

// Remove отсоединяет стену от обеих вершин и убирает её из плана.
func (w *Wall) Remove() {
	if w.removed {
		return
	}
	w.removed = true

	w.start.detachWall(w)
	w.end.detachWall(w)
	w.bp.removeWall(w)
}

func (w *Wall) resetFrontBack() {
	w.front = NoEdge
	w.back = NoEdge
	w.orphan = false
}

func (w *Wall) fireMoved() {
	w.bp.events.Publish(Event{Kind: EventWallMoved, Wall: w})
}
