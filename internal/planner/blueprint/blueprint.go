package blueprint

import (
	"room-planner/internal/planner/geometry"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/jbeda/geom"
)

// ============================================================
// Options
// ============================================================

type Options struct {
	// CornerTolerance расстояние слияния вершин и врезки вершины в стену, см.
	CornerTolerance float64
	// HoverTolerance радиус попадания курсора в вершину или стену, см.
	HoverTolerance float64
	WallThickness  float64
	WallHeight     float64
}

func DefaultOptions() Options {
	return Options{
		CornerTolerance: 20,
		HoverTolerance:  20,
		WallThickness:   10,
		WallHeight:      250,
	}
}

// ============================================================
// Blueprint
// ============================================================

// Blueprint единственный владелец графа вершин и стен. Все изменения идут через
// его методы, поэтому Rooms всегда соответствует последнему Update.
type Blueprint struct {
	opts Options
	log  hclog.Logger

	corners []*Corner
	walls   []*Wall
	rooms   []*Room
	edges   *Edges

	floorTextures map[string]string
	events        *Bus
}

func New(opts Options, logger hclog.Logger) *Blueprint {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	def := DefaultOptions()
	if opts.CornerTolerance <= 0 {
		opts.CornerTolerance = def.CornerTolerance
	}
	if opts.HoverTolerance <= 0 {
		opts.HoverTolerance = def.HoverTolerance
	}
	if opts.WallThickness <= 0 {
		opts.WallThickness = def.WallThickness
	}
	if opts.WallHeight <= 0 {
		opts.WallHeight = def.WallHeight
	}

	return &Blueprint{
		opts:          opts,
		log:           logger.Named("blueprint"),
		edges:         &Edges{},
		floorTextures: make(map[string]string),
		events:        NewBus(),
	}
}

func (bp *Blueprint) Options() Options { return bp.opts }
func (bp *Blueprint) Events() *Bus     { return bp.events }
func (bp *Blueprint) Edges() *Edges    { return bp.edges }

func (bp *Blueprint) Corners() []*Corner { return append([]*Corner(nil), bp.corners...) }
func (bp *Blueprint) Walls() []*Wall     { return append([]*Wall(nil), bp.walls...) }
func (bp *Blueprint) Rooms() []*Room     { return append([]*Room(nil), bp.rooms...) }

func (bp *Blueprint) Corner(id string) *Corner {
	for _, c := range bp.corners {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (bp *Blueprint) Wall(id string) *Wall {
	for _, w := range bp.walls {
		if w.id == id {
			return w
		}
	}
	return nil
}

// ============================================================
// Graph mutation
// ============================================================

// NewCorner создаёт вершину; пустой id заменяется новым uuid.
func (bp *Blueprint) NewCorner(x, y float64, id string) *Corner {
	if id == "" {
		id = uuid.NewString()
	}
	c := &Corner{id: id, pos: geom.Coord{X: x, Y: y}, bp: bp}
	bp.corners = append(bp.corners, c)
	return c
}

// NewWall создаёт стену start → end и пересчитывает комнаты.
func (bp *Blueprint) NewWall(start, end *Corner) *Wall {
	w := bp.addWall(start, end, "")
	bp.Update()
	return w
}

func (bp *Blueprint) addWall(start, end *Corner, id string) *Wall {
	if id == "" {
		id = uuid.NewString()
	}
	w := &Wall{
		id:        id,
		start:     start,
		end:       end,
		front:     NoEdge,
		back:      NoEdge,
		thickness: bp.opts.WallThickness,
		height:    bp.opts.WallHeight,
		bp:        bp,
	}
	start.attachStart(w)
	end.attachEnd(w)
	bp.walls = append(bp.walls, w)
	return w
}

func (bp *Blueprint) removeCorner(c *Corner) {
	out := make([]*Corner, 0, len(bp.corners))
	for _, other := range bp.corners {
		if other != c {
			out = append(out, other)
		}
	}
	bp.corners = out
	bp.events.Publish(Event{Kind: EventCornerRemoved, Corner: c})
}

func (bp *Blueprint) removeWall(w *Wall) {
	out := make([]*Wall, 0, len(bp.walls))
	for _, other := range bp.walls {
		if other != w {
			out = append(out, other)
		}
	}
	bp.walls = out
	bp.events.Publish(Event{Kind: EventWallRemoved, Wall: w})
	bp.Update()
}

// Reset удаляет весь граф без рассылки событий удаления.
func (bp *Blueprint) Reset() {
	for _, c := range bp.corners {
		c.removed = true
	}
	for _, w := range bp.walls {
		w.removed = true
	}
	bp.corners = nil
	bp.walls = nil
	bp.floorTextures = make(map[string]string)
	bp.Update()
}

// ============================================================
// Update
// ============================================================

// Update пересчитывает комнаты, полурёбра и уведомляет подписчиков.
func (bp *Blueprint) Update() {
	for _, w := range bp.walls {
		w.resetFrontBack()
	}
	bp.edges.reset()

	bp.rooms = bp.rooms[:0:0]
	for i, cycle := range bp.findRooms() {
		bp.rooms = append(bp.rooms, newRoom(bp, i, cycle))
	}

	bp.assignOrphanEdges()
	bp.updateFloorTextures()

	bp.events.Publish(Event{Kind: EventRoomsUpdated})
}

func (bp *Blueprint) findRooms() [][]*Corner {
	index := make(map[*Corner]int, len(bp.corners))
	g := geometry.Graph{
		IDs:       make([]string, len(bp.corners)),
		Positions: make([]geom.Coord, len(bp.corners)),
		Adjacent:  make([][]int, len(bp.corners)),
	}
	for i, c := range bp.corners {
		index[c] = i
		g.IDs[i] = c.id
		g.Positions[i] = c.pos
	}

	for i, c := range bp.corners {
		for _, other := range c.AdjacentCorners() {
			j, ok := index[other]
			if !ok {
				bp.log.Warn("wall references a corner outside the plan", "corner", c.id, "dangling", other.id)
				continue
			}
			if j == i {
				continue
			}
			g.Adjacent[i] = append(g.Adjacent[i], j)
		}
	}

	cycles := geometry.FindRooms(g)
	out := make([][]*Corner, len(cycles))
	for i, cycle := range cycles {
		out[i] = make([]*Corner, len(cycle))
		for k, v := range cycle {
			out[i][k] = bp.corners[v]
		}
	}
	return out
}

func (bp *Blueprint) assignOrphanEdges() {
	for _, w := range bp.walls {
		if w.front != NoEdge || w.back != NoEdge {
			continue
		}
		w.orphan = true
		bp.edges.add(w, false, -1)
		bp.edges.add(w, true, -1)
	}
}

func (bp *Blueprint) updateFloorTextures() {
	live := make(map[string]bool, len(bp.rooms))
	for _, r := range bp.rooms {
		live[r.uuid] = true
	}
	for id := range bp.floorTextures {
		if !live[id] {
			delete(bp.floorTextures, id)
		}
	}
}

// ============================================================
// Queries
// ============================================================

// OverlappedCorner первая вершина ближе tolerance к точке; при tolerance <= 0 берётся допуск по умолчанию.
func (bp *Blueprint) OverlappedCorner(x, y, tolerance float64) *Corner {
	if tolerance <= 0 {
		tolerance = bp.opts.HoverTolerance
	}
	p := geom.Coord{X: x, Y: y}
	for _, c := range bp.corners {
		if c.DistanceFrom(p) < tolerance {
			return c
		}
	}
	return nil
}

// OverlappedWall первая стена ближе tolerance к точке; при tolerance <= 0 берётся допуск по умолчанию.
func (bp *Blueprint) OverlappedWall(x, y, tolerance float64) *Wall {
	if tolerance <= 0 {
		tolerance = bp.opts.HoverTolerance
	}
	p := geom.Coord{X: x, Y: y}
	for _, w := range bp.walls {
		if w.DistanceFrom(p) < tolerance {
			return w
		}
	}
	return nil
}

// WallEdges все полурёбра стен: лицевое, затем обратное.
func (bp *Blueprint) WallEdges() []EdgeID {
	var out []EdgeID
	for _, w := range bp.walls {
		if w.front != NoEdge {
			out = append(out, w.front)
		}
		if w.back != NoEdge {
			out = append(out, w.back)
		}
	}
	return out
}

func (bp *Blueprint) Bounds() (geom.Rect, bool) {
	pts := make([]geom.Coord, len(bp.corners))
	for i, c := range bp.corners {
		pts[i] = c.pos
	}
	return geometry.Bounds(pts)
}

// Center центр ограничивающего прямоугольника; для пустого плана начало координат.
func (bp *Blueprint) Center() geom.Coord {
	r, ok := bp.Bounds()
	if !ok {
		return geom.Coord{}
	}
	return geometry.Midpoint(r.Min, r.Max)
}

func (bp *Blueprint) Size() geom.Coord {
	r, ok := bp.Bounds()
	if !ok {
		return geom.Coord{}
	}
	return r.Max.Minus(r.Min)
}

func (bp *Blueprint) FloorTexture(roomUUID string) (string, bool) {
	tex, ok := bp.floorTextures[roomUUID]
	return tex, ok
}

func (bp *Blueprint) SetFloorTexture(roomUUID, texture string) {
	bp.floorTextures[roomUUID] = texture
}
