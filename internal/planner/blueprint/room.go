package blueprint

import (
	"sort"
	"strings"

	"room-planner/internal/planner/geometry"

	"github.com/google/uuid"
	"github.com/jbeda/geom"
)

// ============================================================
// Room
// ============================================================

// roomNamespace пространство имён для детерминированных uuid комнат.
var roomNamespace = uuid.MustParse("6f1d3c8e-2a47-4b1e-9d35-7c0e5a9b2f61")

// Room замкнутый контур вершин с обходом против часовой стрелки.
// Пересоздаётся при каждом Blueprint.Update.
type Room struct {
	corners  []*Corner
	edges    []EdgeID
	interior []geom.Coord
	uuid     string
	bp       *Blueprint
}

func newRoom(bp *Blueprint, index int, corners []*Corner) *Room {
	r := &Room{bp: bp, corners: corners, uuid: roomUUID(corners)}
	r.updateWalls(index)
	r.updateInteriorCorners()
	return r
}

// roomUUID хэш отсортированных id вершин: не зависит от точки начала обхода.
func roomUUID(corners []*Corner) string {
	ids := make([]string, len(corners))
	for i, c := range corners {
		ids[i] = c.id
	}
	sort.Strings(ids)
	return uuid.NewSHA1(roomNamespace, []byte(strings.Join(ids, ","))).String()
}

func (r *Room) updateWalls(index int) {
	edges := r.bp.edges
	for i, first := range r.corners {
		second := r.corners[(i+1)%len(r.corners)]

		var id EdgeID
		if w := first.WallTo(second); w != nil {
			id = edges.add(w, true, index)
		} else if w := first.WallFrom(second); w != nil {
			id = edges.add(w, false, index)
		} else {
			r.bp.log.Warn("corners are not connected by a wall", "from", first.id, "to", second.id)
			continue
		}
		r.edges = append(r.edges, id)
	}

	for i, id := range r.edges {
		edges.link(id, r.edges[(i+1)%len(r.edges)])
	}
}

func (r *Room) updateInteriorCorners() {
	r.interior = make([]geom.Coord, 0, len(r.edges))
	for _, id := range r.edges {
		r.interior = append(r.interior, r.bp.edges.InteriorStart(id))
	}
}

func (r *Room) UUID() string { return r.uuid }

func (r *Room) Corners() []*Corner { return append([]*Corner(nil), r.corners...) }

func (r *Room) CornerIDs() []string {
	ids := make([]string, len(r.corners))
	for i, c := range r.corners {
		ids[i] = c.id
	}
	return ids
}

// Edges полурёбра комнаты в порядке обхода.
func (r *Room) Edges() []EdgeID { return append([]EdgeID(nil), r.edges...) }

func (r *Room) Points() []geom.Coord {
	pts := make([]geom.Coord, len(r.corners))
	for i, c := range r.corners {
		pts[i] = c.pos
	}
	return pts
}

// InteriorCorners контур пола с учётом толщины стен.
func (r *Room) InteriorCorners() []geom.Coord {
	return append([]geom.Coord(nil), r.interior...)
}

// Area площадь по осям стен, см².
func (r *Room) Area() float64 {
	return geometry.SignedArea(r.Points())
}

// InteriorArea площадь пола за вычетом стен, см².
func (r *Room) InteriorArea() float64 {
	return geometry.Area(r.interior)
}

// FloorTriangles триангуляция внутреннего контура (индексы в InteriorCorners).
func (r *Room) FloorTriangles() [][3]int {
	return geometry.Triangulate(r.interior)
}

func (r *Room) Texture() (string, bool) {
	return r.bp.FloorTexture(r.uuid)
}
