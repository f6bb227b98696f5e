package scene

import (
	"room-planner/internal/planner/blueprint"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/jbeda/geom"
)

// ============================================================
// Mesh
// ============================================================

type MeshID int

type MeshKind int

const (
	MeshWallExterior MeshKind = iota
	MeshWallInterior
	MeshBaseFiller
	MeshTopFiller
	MeshSideFiller
	MeshFloor
)

func (k MeshKind) String() string {
	switch k {
	case MeshWallExterior:
		return "wall_exterior"
	case MeshWallInterior:
		return "wall_interior"
	case MeshBaseFiller:
		return "base_filler"
	case MeshTopFiller:
		return "top_filler"
	case MeshSideFiller:
		return "side_filler"
	case MeshFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// Mesh плоский треугольный меш: 3 float на вершину, 2 на uv, 3 индекса на треугольник.
type Mesh struct {
	ID       MeshID    `json:"id"`
	Kind     MeshKind  `json:"kind"`
	Vertices []float32 `json:"vertices"`
	UVs      []float32 `json:"uvs,omitempty"`
	Indices  []uint32  `json:"indices"`
	Color    uint32    `json:"color"`
	Visible  bool      `json:"visible"`

	edge blueprint.EdgeID
}

func (m *Mesh) VertexCount() int   { return len(m.Vertices) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
func (m *Mesh) IsEmpty() bool      { return len(m.Vertices) == 0 }

// Vertex i-я вершина меша.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

const (
	ColorFloor       uint32 = 0xcccccc
	ColorEdgeFiller  uint32 = 0x999999
	ColorEdgeBase    uint32 = 0x666666
	ColorEdgeSide    uint32 = 0x888888
	ColorWallSurface uint32 = 0xffffff
)

// ============================================================
// Builder
// ============================================================

// Builder пересобирает меши стен и полов после каждого обновления комнат.
// Принадлежность меша пола комнате хранится в отдельной таблице.
type Builder struct {
	bp  *blueprint.Blueprint
	log hclog.Logger

	meshes    []*Mesh
	floorRoom map[MeshID]string
	nextID    MeshID

	eye         v3.Vec
	unsubscribe func()
}

func NewBuilder(bp *blueprint.Blueprint, logger hclog.Logger) *Builder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	b := &Builder{
		bp:        bp,
		log:       logger.Named("builder"),
		floorRoom: make(map[MeshID]string),
		eye:       v3.Vec{Y: 2000},
	}
	b.unsubscribe = bp.Events().Subscribe(blueprint.EventRoomsUpdated, func(blueprint.Event) {
		b.Rebuild()
	})
	b.Rebuild()
	return b
}

func (b *Builder) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *Builder) Meshes() []*Mesh { return append([]*Mesh(nil), b.meshes...) }

// RoomOf uuid комнаты, которой принадлежит меш пола.
func (b *Builder) RoomOf(id MeshID) (string, bool) {
	roomID, ok := b.floorRoom[id]
	return roomID, ok
}

func (b *Builder) MeshesOf(kind MeshKind) []*Mesh {
	var out []*Mesh
	for _, m := range b.meshes {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Rebuild выбрасывает все меши и строит их заново по текущему плану.
func (b *Builder) Rebuild() {
	b.meshes = b.meshes[:0:0]
	b.floorRoom = make(map[MeshID]string)
	b.nextID = 0

	for _, r := range b.bp.Rooms() {
		b.buildFloor(r)
	}
	for _, id := range b.bp.WallEdges() {
		b.buildEdge(id)
	}

	b.UpdateVisibility(b.eye)
	b.log.Trace("meshes rebuilt", "count", len(b.meshes))
}

func (b *Builder) add(m *Mesh) *Mesh {
	m.ID = b.nextID
	b.nextID++
	m.Visible = true
	b.meshes = append(b.meshes, m)
	return m
}

// ============================================================
// Floors
// ============================================================

// toWorld точка плана (x, y) в мировые (x, height, y).
func toWorld(p geom.Coord, height float64) v3.Vec {
	return v3.Vec{X: p.X, Y: height, Z: p.Y}
}

func (b *Builder) buildFloor(r *blueprint.Room) {
	points := r.InteriorCorners()
	tris := r.FloorTriangles()
	if len(tris) == 0 {
		return
	}

	m := &Mesh{Kind: MeshFloor, Color: ColorFloor, edge: blueprint.NoEdge}
	for _, p := range points {
		appendVertex(m, toWorld(p, 0))
	}
	for _, t := range tris {
		m.Indices = append(m.Indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}

	m = b.add(m)
	b.floorRoom[m.ID] = r.UUID()
}

// ============================================================
// Walls
// ============================================================

func (b *Builder) buildEdge(id blueprint.EdgeID) {
	edges := b.bp.Edges()
	h := edges.Get(id)
	height := h.Height()

	iS, iE := edges.InteriorStart(id), edges.InteriorEnd(id)
	eS, eE := edges.ExteriorStart(id), edges.ExteriorEnd(id)

	b.add(wallQuad(MeshWallExterior, eS, eE, height, ColorEdgeFiller, id))
	b.add(wallQuad(MeshWallInterior, iS, iE, height, ColorWallSurface, id))

	b.add(filler(MeshBaseFiller, [4]geom.Coord{eS, eE, iE, iS}, 0, ColorEdgeBase, id))
	b.add(filler(MeshTopFiller, [4]geom.Coord{eS, eE, iE, iS}, height, ColorEdgeFiller, id))

	b.add(sideFiller(iS, eS, height, id))
	b.add(sideFiller(iE, eE, height, id))
}

// wallQuad вертикальная плоскость над отрезком start-end.
func wallQuad(kind MeshKind, start, end geom.Coord, height float64, color uint32, id blueprint.EdgeID) *Mesh {
	m := &Mesh{Kind: kind, Color: color, edge: id}
	appendVertex(m, toWorld(start, 0))
	appendVertex(m, toWorld(end, 0))
	appendVertex(m, toWorld(end, height))
	appendVertex(m, toWorld(start, height))
	m.UVs = []float32{0, 0, 1, 0, 1, 1, 0, 1}
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

// filler горизонтальная полоса толщины стены на высоте height.
func filler(kind MeshKind, quad [4]geom.Coord, height float64, color uint32, id blueprint.EdgeID) *Mesh {
	m := &Mesh{Kind: kind, Color: color, edge: id}
	for _, p := range quad {
		appendVertex(m, toWorld(p, height))
	}
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

// sideFiller торец стены между внутренней и внешней гранью.
func sideFiller(p1, p2 geom.Coord, height float64, id blueprint.EdgeID) *Mesh {
	m := &Mesh{Kind: MeshSideFiller, Color: ColorEdgeSide, edge: id}
	appendVertex(m, toWorld(p1, 0))
	appendVertex(m, toWorld(p2, 0))
	appendVertex(m, toWorld(p2, height))
	appendVertex(m, toWorld(p1, height))
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

func appendVertex(m *Mesh, v v3.Vec) {
	m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
}

// ============================================================
// Visibility
// ============================================================

// UpdateVisibility скрывает стены, внутренняя сторона которых смотрит от камеры.
// Основание стены видно всегда.
func (b *Builder) UpdateVisibility(eye v3.Vec) {
	b.eye = eye
	edges := b.bp.Edges()

	for _, m := range b.meshes {
		if m.Kind == MeshFloor || m.Kind == MeshBaseFiller || m.edge == blueprint.NoEdge {
			continue
		}
		m.Visible = EdgeVisible(edges.InteriorStart(m.edge), edges.InteriorEnd(m.edge), eye)
	}
}

// EdgeVisible нормаль (-y, 0, x) внутренней грани смотрит в сторону камеры.
func EdgeVisible(start, end geom.Coord, eye v3.Vec) bool {
	dx, dy := end.X-start.X, end.Y-start.Y
	normal := v3.Vec{X: -dy, Z: dx}
	if normal.Length() == 0 {
		return true
	}

	focus := v3.Vec{X: (start.X + end.X) / 2, Z: (start.Y + end.Y) / 2}
	dir := eye.Sub(focus)
	if dir.Length() == 0 {
		return true
	}
	return normal.Normalize().Dot(dir.Normalize()) >= 0
}
