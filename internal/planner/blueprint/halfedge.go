package blueprint

import (
	"room-planner/internal/planner/geometry"

	"github.com/jbeda/geom"
)

// ============================================================
// HalfEdge arena
// ============================================================

// EdgeID индекс полуребра в арене Edges.
type EdgeID int

// NoEdge отсутствующая ссылка.
const NoEdge EdgeID = -1

// HalfEdge одна сторона стены. Для стены, ограничивающей комнату, prev/next
// образуют замкнутый контур вокруг комнаты; у стены-сироты ссылаются на себя.
type HalfEdge struct {
	wall  *Wall
	front bool
	prev  EdgeID
	next  EdgeID
	room  int
}

func (h *HalfEdge) Wall() *Wall  { return h.wall }
func (h *HalfEdge) Front() bool  { return h.front }
func (h *HalfEdge) Prev() EdgeID { return h.prev }
func (h *HalfEdge) Next() EdgeID { return h.next }

// Room индекс комнаты в Blueprint.Rooms или -1 для стены-сироты.
func (h *HalfEdge) Room() int { return h.room }

func (h *HalfEdge) Offset() float64 { return h.wall.thickness / 2 }
func (h *HalfEdge) Height() float64 { return h.wall.height }

// Start вершина, с которой полуребро начинается в направлении обхода.
func (h *HalfEdge) Start() *Corner {
	if h.front {
		return h.wall.start
	}
	return h.wall.end
}

func (h *HalfEdge) End() *Corner {
	if h.front {
		return h.wall.end
	}
	return h.wall.start
}

// Edges плоское хранилище полурёбер; пересоздаётся при каждом Blueprint.Update.
type Edges struct {
	list []HalfEdge
}

func (e *Edges) Len() int { return len(e.list) }

func (e *Edges) Get(id EdgeID) *HalfEdge {
	if id < 0 || int(id) >= len(e.list) {
		return nil
	}
	return &e.list[id]
}

func (e *Edges) reset() {
	e.list = e.list[:0]
}

func (e *Edges) add(w *Wall, front bool, room int) EdgeID {
	id := EdgeID(len(e.list))
	e.list = append(e.list, HalfEdge{wall: w, front: front, prev: id, next: id, room: room})
	if front {
		w.front = id
	} else {
		w.back = id
	}
	return id
}

func (e *Edges) link(from, to EdgeID) {
	e.list[from].next = to
	e.list[to].prev = from
}

// ============================================================
// Miter geometry
// ============================================================

func (e *Edges) InteriorStart(id EdgeID) geom.Coord {
	h := &e.list[id]
	return h.Start().pos.Plus(e.halfAngleVector(e.neighbour(id, h.prev), id, h.Offset()))
}

func (e *Edges) InteriorEnd(id EdgeID) geom.Coord {
	h := &e.list[id]
	return h.End().pos.Plus(e.halfAngleVector(id, e.neighbour(id, h.next), h.Offset()))
}

func (e *Edges) ExteriorStart(id EdgeID) geom.Coord {
	h := &e.list[id]
	return h.Start().pos.Minus(e.halfAngleVector(e.neighbour(id, h.prev), id, h.Offset()))
}

func (e *Edges) ExteriorEnd(id EdgeID) geom.Coord {
	h := &e.list[id]
	return h.End().pos.Minus(e.halfAngleVector(id, e.neighbour(id, h.next), h.Offset()))
}

func (e *Edges) InteriorCenter(id EdgeID) geom.Coord {
	return geometry.Midpoint(e.InteriorStart(id), e.InteriorEnd(id))
}

func (e *Edges) InteriorDistance(id EdgeID) float64 {
	return e.InteriorStart(id).DistanceFrom(e.InteriorEnd(id))
}

// Corners четырёхугольник полосы стены: внутренние начало и конец, затем внешние в обратном порядке.
func (e *Edges) Corners(id EdgeID) [4]geom.Coord {
	return [4]geom.Coord{
		e.InteriorStart(id),
		e.InteriorEnd(id),
		e.ExteriorEnd(id),
		e.ExteriorStart(id),
	}
}

// neighbour ссылка на себя означает отсутствие соседа.
func (e *Edges) neighbour(self, other EdgeID) EdgeID {
	if other == self {
		return NoEdge
	}
	return other
}

// halfAngleVector смещение в вершине между входящим in и исходящим out полурёбрами.
// Отсутствующий сосед заменяется продолжением имеющегося полуребра.
func (e *Edges) halfAngleVector(in, out EdgeID, offset float64) geom.Coord {
	if in == NoEdge && out == NoEdge {
		return geom.Coord{}
	}

	var inStart, inEnd, outStart, outEnd geom.Coord
	switch {
	case in != NoEdge && out != NoEdge:
		inStart, inEnd = e.list[in].Start().pos, e.list[in].End().pos
		outStart, outEnd = e.list[out].Start().pos, e.list[out].End().pos
	case out != NoEdge:
		outStart, outEnd = e.list[out].Start().pos, e.list[out].End().pos
		inStart = outStart.Minus(outEnd.Minus(outStart))
		inEnd = outStart
	default:
		inStart, inEnd = e.list[in].Start().pos, e.list[in].End().pos
		outStart = inEnd
		outEnd = inEnd.Plus(inEnd.Minus(inStart))
	}

	return geometry.HalfAngleVector(inStart, inEnd, outStart, outEnd, offset)
}
