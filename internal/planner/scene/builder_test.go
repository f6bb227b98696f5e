package scene

import (
	"math"
	"testing"

	"room-planner/internal/planner/blueprint"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawRectangle(bp *blueprint.Blueprint) []*blueprint.Wall {
	a := bp.NewCorner(0, 0, "a")
	b := bp.NewCorner(400, 0, "b")
	c := bp.NewCorner(400, 300, "c")
	d := bp.NewCorner(0, 300, "d")
	return []*blueprint.Wall{
		bp.NewWall(a, b),
		bp.NewWall(b, c),
		bp.NewWall(c, d),
		bp.NewWall(d, a),
	}
}

func TestBuilderRebuildsOnRoomUpdate(t *testing.T) {
	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	b := NewBuilder(bp, nil)
	defer b.Close()
	assert.Empty(t, b.Meshes())

	drawRectangle(bp)
	require.Len(t, bp.Rooms(), 1)

	floors := b.MeshesOf(MeshFloor)
	require.Len(t, floors, 1)
	floor := floors[0]
	assert.Equal(t, 4, floor.VertexCount())
	assert.Equal(t, 2, floor.TriangleCount())
	assert.True(t, floor.Visible)

	roomID, ok := b.RoomOf(floor.ID)
	require.True(t, ok)
	assert.Equal(t, bp.Rooms()[0].UUID(), roomID)

	for _, kind := range []MeshKind{MeshWallExterior, MeshWallInterior, MeshBaseFiller, MeshTopFiller} {
		assert.Len(t, b.MeshesOf(kind), 4, kind.String())
	}
	assert.Len(t, b.MeshesOf(MeshSideFiller), 8)
	assert.Len(t, b.Meshes(), 25)

	for _, m := range b.MeshesOf(MeshWallInterior) {
		_, ok := b.RoomOf(m.ID)
		assert.False(t, ok)
	}
}

func TestWallMeshesHaveWallHeight(t *testing.T) {
	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	b := NewBuilder(bp, nil)
	defer b.Close()
	drawRectangle(bp)

	for _, m := range b.MeshesOf(MeshWallInterior) {
		require.Equal(t, 4, m.VertexCount())
		assert.InDelta(t, 0, m.Vertex(0).Y, 1e-6)
		assert.InDelta(t, 250, m.Vertex(2).Y, 1e-6)
		assert.Len(t, m.UVs, 8)
	}
	for _, m := range b.MeshesOf(MeshTopFiller) {
		assert.InDelta(t, 250, m.Vertex(0).Y, 1e-6)
	}

	// внутренняя грань стены a-b отстоит от оси на половину толщины
	var found bool
	for _, m := range b.MeshesOf(MeshWallInterior) {
		if math.Abs(m.Vertex(0).Z) < 10 && math.Abs(m.Vertex(1).Z) < 10 {
			found = true
			assert.InDelta(t, 5, math.Abs(m.Vertex(0).Z), 1e-4)
			assert.InDelta(t, 390, math.Abs(m.Vertex(1).X-m.Vertex(0).X), 1e-3)
		}
	}
	assert.True(t, found)
}

func TestBuilderStopsAfterClose(t *testing.T) {
	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	b := NewBuilder(bp, nil)
	walls := drawRectangle(bp)
	require.Len(t, b.Meshes(), 25)

	b.Close()
	walls[0].Remove()
	assert.Len(t, b.Meshes(), 25)
}

func TestUpdateVisibilityFlipsWithCamera(t *testing.T) {
	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	b := NewBuilder(bp, nil)
	defer b.Close()
	drawRectangle(bp)

	var ab *Mesh
	for _, m := range b.MeshesOf(MeshWallInterior) {
		if math.Abs(m.Vertex(0).Z) < 10 && math.Abs(m.Vertex(1).Z) < 10 {
			ab = m
		}
	}
	require.NotNil(t, ab)

	b.UpdateVisibility(v3.Vec{X: 200, Y: 100, Z: -5000})
	before := ab.Visible
	b.UpdateVisibility(v3.Vec{X: 200, Y: 100, Z: 5000})
	assert.NotEqual(t, before, ab.Visible)

	for _, m := range b.MeshesOf(MeshFloor) {
		assert.True(t, m.Visible)
	}
	for _, m := range b.MeshesOf(MeshBaseFiller) {
		assert.True(t, m.Visible)
	}
}

func TestEdgeVisible(t *testing.T) {
	start, end := geom.Coord{}, geom.Coord{X: 100}

	assert.True(t, EdgeVisible(start, end, v3.Vec{X: 50, Y: 100, Z: 500}))
	assert.False(t, EdgeVisible(start, end, v3.Vec{X: 50, Y: 100, Z: -500}))
	assert.True(t, EdgeVisible(end, start, v3.Vec{X: 50, Y: 100, Z: -500}))
	assert.True(t, EdgeVisible(start, start, v3.Vec{Z: -500}), "degenerate edge stays visible")
}
