package blueprint

import (
	"math"

	"room-planner/internal/planner/geometry"

	"github.com/jbeda/geom"
)

// ============================================================
// Corner
// ============================================================

// Corner вершина графа стен. Координаты в сантиметрах.
type Corner struct {
	id  string
	pos geom.Coord

	wallStarts []*Wall
	wallEnds   []*Wall

	bp      *Blueprint
	removed bool
}

func (c *Corner) ID() string           { return c.id }
func (c *Corner) X() float64           { return c.pos.X }
func (c *Corner) Y() float64           { return c.pos.Y }
func (c *Corner) Position() geom.Coord { return c.pos }

// WallStarts стены, начинающиеся в этой вершине.
func (c *Corner) WallStarts() []*Wall { return append([]*Wall(nil), c.wallStarts...) }

// WallEnds стены, заканчивающиеся в этой вершине.
func (c *Corner) WallEnds() []*Wall { return append([]*Wall(nil), c.wallEnds...) }

func (c *Corner) Walls() []*Wall {
	out := make([]*Wall, 0, len(c.wallStarts)+len(c.wallEnds))
	out = append(out, c.wallStarts...)
	return append(out, c.wallEnds...)
}

// AdjacentCorners соседи: сначала концы исходящих стен, затем начала входящих.
func (c *Corner) AdjacentCorners() []*Corner {
	out := make([]*Corner, 0, len(c.wallStarts)+len(c.wallEnds))
	for _, w := range c.wallStarts {
		out = append(out, w.end)
	}
	for _, w := range c.wallEnds {
		out = append(out, w.start)
	}
	return out
}

func (c *Corner) DistanceFrom(p geom.Coord) float64 {
	return c.pos.DistanceFrom(p)
}

func (c *Corner) DistanceFromCorner(other *Corner) float64 {
	return c.pos.DistanceFrom(other.pos)
}

func (c *Corner) DistanceFromWall(w *Wall) float64 {
	return w.DistanceFrom(c.pos)
}

// WallTo стена c → other, если есть.
func (c *Corner) WallTo(other *Corner) *Wall {
	for _, w := range c.wallStarts {
		if w.end == other {
			return w
		}
	}
	return nil
}

// WallFrom стена other → c, если есть.
func (c *Corner) WallFrom(other *Corner) *Wall {
	for _, w := range c.wallEnds {
		if w.start == other {
			return w
		}
	}
	return nil
}

func (c *Corner) IsConnected(w *Wall) bool {
	return w.start == c || w.end == c
}

// ============================================================
// Mutation
// ============================================================

// SnapToAxis выравнивает вершину по x/y соседей, если отклонение меньше tolerance.
func (c *Corner) SnapToAxis(tolerance float64) (snappedX, snappedY bool) {
	for _, other := range c.AdjacentCorners() {
		if math.Abs(other.pos.X-c.pos.X) < tolerance {
			c.pos.X = other.pos.X
			snappedX = true
		}
		if math.Abs(other.pos.Y-c.pos.Y) < tolerance {
			c.pos.Y = other.pos.Y
			snappedY = true
		}
	}
	return snappedX, snappedY
}

// Move перемещает вершину и проверяет слияние с соседними вершинами и стенами.
func (c *Corner) Move(x, y float64) {
	if c.removed {
		return
	}
	c.pos = geom.Coord{X: x, Y: y}
	c.MergeWithIntersected()

	c.bp.events.Publish(Event{Kind: EventCornerMoved, Corner: c})
	for _, w := range c.Walls() {
		w.fireMoved()
	}
}

func (c *Corner) RelativeMove(dx, dy float64) {
	c.Move(c.pos.X+dx, c.pos.Y+dy)
}

// MergeWithIntersected сливает вершину с ближайшей вершиной в пределах допуска,
// либо разбивает ближайшую стену в точке проекции. Возвращает true, если граф изменился.
func (c *Corner) MergeWithIntersected() bool {
	if c.removed {
		return false
	}
	tolerance := c.bp.opts.CornerTolerance

	for _, other := range c.bp.corners {
		if other != c && c.DistanceFromCorner(other) < tolerance {
			c.combineWithCorner(other)
			return true
		}
	}

	for _, w := range c.bp.walls {
		if c.IsConnected(w) || c.DistanceFromWall(w) >= tolerance {
			continue
		}

		c.pos = geometry.ClosestPointOnLine(c.pos, w.start.pos, w.end.pos)
		c.bp.log.Debug("split wall", "wall", w.id, "corner", c.id)

		end := w.end
		c.bp.addWall(c, end, "")
		w.SetEnd(c)
		c.bp.Update()
		return true
	}

	return false
}

// combineWithCorner поглощает other: занимает его позицию и забирает его стены.
func (c *Corner) combineWithCorner(other *Corner) {
	c.bp.log.Debug("merge corners", "into", c.id, "absorbed", other.id)
	c.pos = other.pos

	for i := len(other.wallStarts) - 1; i >= 0; i-- {
		other.wallStarts[i].SetStart(c)
	}
	for i := len(other.wallEnds) - 1; i >= 0; i-- {
		other.wallEnds[i].SetEnd(c)
	}

	other.RemoveAll()
	c.removeDuplicateWalls()
	c.bp.Update()
}

// removeDuplicateWalls удаляет петли и стены с тем же соседом (в любом направлении).
// Остаётся стена, созданная раньше остальных.
func (c *Corner) removeDuplicateWalls() {
	seen := make(map[*Corner]bool)
	for _, w := range c.bp.walls {
		if w.removed || !c.IsConnected(w) {
			continue
		}

		if w.start == w.end {
			w.Remove()
			continue
		}

		far := w.end
		if far == c {
			far = w.start
		}
		if seen[far] {
			w.Remove()
			continue
		}
		seen[far] = true
	}
}

// RemoveAll удаляет все стены вершины, а затем и её саму.
func (c *Corner) RemoveAll() {
	for _, w := range c.Walls() {
		w.Remove()
	}
	c.remove()
}

func (c *Corner) attachStart(w *Wall) {
	c.wallStarts = append(c.wallStarts, w)
}

func (c *Corner) attachEnd(w *Wall) {
	c.wallEnds = append(c.wallEnds, w)
}

func (c *Corner) detachWall(w *Wall) {
	c.wallStarts = without(c.wallStarts, w)
	c.wallEnds = without(c.wallEnds, w)

	if len(c.wallStarts) == 0 && len(c.wallEnds) == 0 {
		c.remove()
	}
}

func (c *Corner) remove() {
	if c.removed {
		return
	}
	c.removed = true
	c.bp.removeCorner(c)
}

func without(walls []*Wall, target *Wall) []*Wall {
	out := walls[:0:0]
	for _, w := range walls {
		if w != target {
			out = append(out, w)
		}
	}
	return out
}
