package planar

import (
	"strings"
	"testing"

	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/geometry"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestController контроллер с масштабом 1 см = 1 px и началом координат в углу холста.
func newTestController(t *testing.T) (*Controller, *blueprint.Blueprint) {
	t.Helper()

	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	ctrl := NewController(bp, Options{CmPerPixel: 1, Width: 800, Height: 600}, nil)
	ctrl.Viewport().OriginX = 0
	ctrl.Viewport().OriginY = 0
	t.Cleanup(ctrl.Close)
	return ctrl, bp
}

func click(ctrl *Controller, x, y float64) {
	ctrl.PointerMove(x, y)
	ctrl.PointerDown()
	ctrl.PointerUp()
}

func drag(ctrl *Controller, from, to geom.Coord) {
	ctrl.PointerMove(from.X, from.Y)
	ctrl.PointerDown()
	ctrl.PointerMove(to.X, to.Y)
	ctrl.PointerUp()
}

func drawRectangle(ctrl *Controller) {
	click(ctrl, 0, 0)
	click(ctrl, 400, 0)
	click(ctrl, 400, 300)
	click(ctrl, 0, 300)
	click(ctrl, 0, 0)
}

func TestDrawClosedRectangle(t *testing.T) {
	ctrl, bp := newTestController(t)
	require.Equal(t, ModeDraw, ctrl.Mode())

	drawRectangle(ctrl)

	rooms := bp.Rooms()
	require.Len(t, rooms, 1)
	assert.False(t, geometry.IsClockwise(rooms[0].Points()))
	assert.InDelta(t, 400*300, rooms[0].Area(), 1e-9)
	assert.Len(t, bp.Corners(), 4)
	assert.Len(t, bp.Walls(), 4)

	// замыкание контура переводит редактор в режим перемещения
	assert.Equal(t, ModeMove, ctrl.Mode())
	assert.Nil(t, ctrl.LastNode())
}

func TestDrawWithDefaultScale(t *testing.T) {
	bp := blueprint.New(blueprint.DefaultOptions(), nil)
	ctrl := NewController(bp, DefaultOptions(), nil)
	defer ctrl.Close()

	vp := ctrl.Viewport()
	screen := func(x, y float64) geom.Coord { return vp.ToScreen(geometry.Pt(x, y)) }

	for _, p := range []geom.Coord{screen(0, 0), screen(400, 0), screen(400, 300), screen(0, 300), screen(0, 0)} {
		click(ctrl, p.X, p.Y)
	}

	rooms := bp.Rooms()
	require.Len(t, rooms, 1)
	assert.InDelta(t, 400*300, rooms[0].Area(), 1e-6)
}

func TestDrawMovementCancelsClick(t *testing.T) {
	ctrl, bp := newTestController(t)

	drag(ctrl, geometry.Pt(100, 100), geometry.Pt(150, 100))

	assert.Empty(t, bp.Corners())
	assert.Equal(t, 50.0, -ctrl.Viewport().OriginX)
}

func TestDrawTargetSnapsToLastCorner(t *testing.T) {
	ctrl, _ := newTestController(t)

	click(ctrl, 100, 100)
	ctrl.PointerMove(300, 110)
	assert.Equal(t, geometry.Pt(300, 100), ctrl.Target())

	ctrl.PointerMove(112, 240)
	assert.Equal(t, geometry.Pt(100, 240), ctrl.Target())

	ctrl.PointerMove(300, 240)
	assert.Equal(t, geometry.Pt(300, 240), ctrl.Target())
}

func TestDrawOntoExistingWallSplitsIt(t *testing.T) {
	ctrl, bp := newTestController(t)

	click(ctrl, 0, 0)
	click(ctrl, 400, 0)
	ctrl.SetMode(ModeDraw)

	click(ctrl, 200, 200)
	click(ctrl, 205, 8)

	assert.Equal(t, ModeMove, ctrl.Mode())
	assert.Len(t, bp.Walls(), 3)
	assert.NotNil(t, bp.OverlappedCorner(200, 0, 1))
}

func TestLeavingDrawDropsLoneCorner(t *testing.T) {
	ctrl, bp := newTestController(t)

	click(ctrl, 50, 50)
	require.Len(t, bp.Corners(), 1)

	ctrl.SetMode(ModeMove)
	assert.Empty(t, bp.Corners())
}

func TestRestartingDrawDropsLoneCorner(t *testing.T) {
	ctrl, bp := newTestController(t)

	click(ctrl, 100, 100)
	require.Len(t, bp.Corners(), 1)

	ctrl.SetMode(ModeDraw)
	assert.Empty(t, bp.Corners())
	assert.Nil(t, ctrl.LastNode())

	click(ctrl, 300, 300)
	ctrl.SetMode(ModeMove)
	assert.Empty(t, bp.Corners())
	corners, walls := bp.Export()
	assert.Empty(t, corners)
	assert.Empty(t, walls)
}

func TestRestartingDrawKeepsWalls(t *testing.T) {
	ctrl, bp := newTestController(t)

	click(ctrl, 100, 100)
	click(ctrl, 300, 100)
	ctrl.SetMode(ModeDraw)

	assert.Len(t, bp.Corners(), 2)
	assert.Len(t, bp.Walls(), 1)
	assert.Nil(t, ctrl.LastNode())
}

func TestMoveCornerReshapesRoom(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)
	require.Equal(t, ModeMove, ctrl.Mode())

	ctrl.PointerMove(400, 300)
	corner := ctrl.ActiveCorner()
	require.NotNil(t, corner)

	ctrl.PointerDown()
	ctrl.PointerMove(450, 350)
	ctrl.PointerUp()

	assert.Equal(t, geometry.Pt(450, 350), corner.Position())
	require.Len(t, bp.Rooms(), 1)
	assert.Greater(t, bp.Rooms()[0].Area(), 400.0*300)
}

func TestMoveCornerSnapsToNeighbourAxis(t *testing.T) {
	ctrl, _ := newTestController(t)
	drawRectangle(ctrl)

	ctrl.PointerMove(400, 300)
	corner := ctrl.ActiveCorner()
	require.NotNil(t, corner)

	ctrl.PointerDown()
	ctrl.PointerMove(410, 360)
	ctrl.PointerUp()

	assert.Equal(t, geometry.Pt(400, 360), corner.Position())
}

func TestMoveWallTranslatesBothEnds(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)

	ctrl.PointerMove(200, 0)
	wall := ctrl.ActiveWall()
	require.NotNil(t, wall)
	require.Nil(t, ctrl.ActiveCorner())

	ctrl.PointerDown()
	ctrl.PointerMove(200, 30)
	ctrl.PointerUp()

	assert.Equal(t, geometry.Pt(0, 30), wall.Start().Position())
	assert.Equal(t, geometry.Pt(400, 30), wall.End().Position())
	require.Len(t, bp.Rooms(), 1)
	assert.InDelta(t, 400*270, bp.Rooms()[0].Area(), 1e-9)
}

func TestPanWithNothingActive(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)

	drag(ctrl, geometry.Pt(200, 150), geometry.Pt(210, 160))

	assert.Equal(t, -10.0, ctrl.Viewport().OriginX)
	assert.Equal(t, -10.0, ctrl.Viewport().OriginY)
	assert.Len(t, bp.Corners(), 4)
}

func TestDeleteCornerCascades(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)

	ctrl.SetMode(ModeDelete)
	ctrl.PointerMove(398, 3)
	require.NotNil(t, ctrl.ActiveCorner())

	ctrl.PointerDown()
	ctrl.PointerUp()

	assert.Nil(t, ctrl.ActiveCorner())
	assert.Len(t, bp.Walls(), 2)
	assert.Len(t, bp.Corners(), 3)
	assert.Empty(t, bp.Rooms())
	assert.Equal(t, ModeDelete, ctrl.Mode())
}

func TestDeleteWall(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)

	ctrl.SetMode(ModeDelete)
	ctrl.PointerMove(0, 150)
	require.NotNil(t, ctrl.ActiveWall())

	ctrl.PointerDown()
	ctrl.PointerUp()

	assert.Nil(t, ctrl.ActiveWall())
	assert.Len(t, bp.Walls(), 3)
	assert.Len(t, bp.Corners(), 4)
	assert.Empty(t, bp.Rooms())
}

func TestDeleteOnEmptySpaceSwitchesToMove(t *testing.T) {
	ctrl, _ := newTestController(t)
	drawRectangle(ctrl)

	ctrl.SetMode(ModeDelete)
	ctrl.PointerMove(200, 150)
	ctrl.PointerDown()
	ctrl.PointerUp()

	assert.Equal(t, ModeMove, ctrl.Mode())
}

func TestResetOriginCentresBlueprint(t *testing.T) {
	ctrl, _ := newTestController(t)
	drawRectangle(ctrl)

	ctrl.ResetOrigin()
	center := ctrl.ToScreen(geometry.Pt(200, 150))
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeMove, ModeDraw, ModeDelete} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMode("erase")
	assert.Error(t, err)
}

// ============================================================
// View
// ============================================================

type recordingSurface struct {
	lines    int
	polygons [][]geom.Coord
	fills    []string
	circles  int
	texts    []string
}

func (s *recordingSurface) Size() (float64, float64) { return 800, 600 }
func (s *recordingSurface) Clear()                   { *s = recordingSurface{} }
func (s *recordingSurface) Line(_, _, _, _, _ float64, _ string) {
	s.lines++
}
func (s *recordingSurface) Polygon(points []geom.Coord, fill, _ string, _ float64) {
	s.polygons = append(s.polygons, points)
	s.fills = append(s.fills, fill)
}
func (s *recordingSurface) Circle(_, _, _ float64, _ string) { s.circles++ }
func (s *recordingSurface) Text(_, _ float64, text, _ string) {
	s.texts = append(s.texts, text)
}

func TestViewDrawsRoomsWallsAndLabels(t *testing.T) {
	ctrl, _ := newTestController(t)
	surface := &recordingSurface{}
	style := DefaultStyle()
	view := NewView(ctrl, surface, style)
	view.ShowGrid = false

	drawRectangle(ctrl)

	// одна заливка комнаты и по одному контуру на каждую стену
	require.Len(t, surface.polygons, 5)
	assert.Equal(t, style.RoomColor, surface.fills[0])
	assert.Len(t, surface.polygons[0], 4)
	assert.Equal(t, 4, surface.lines)
	assert.Equal(t, 8, surface.circles)
	assert.ElementsMatch(t, []string{"3.9 m", "2.9 m", "3.9 m", "2.9 m"}, surface.texts)
}

func TestViewDrawsTargetWhileDrawing(t *testing.T) {
	ctrl, _ := newTestController(t)
	surface := &recordingSurface{}
	view := NewView(ctrl, surface, DefaultStyle())
	view.ShowGrid = false

	click(ctrl, 0, 0)
	ctrl.PointerMove(100, 0)

	// вершина (2 круга) + цель (1 круг) и линия к цели
	assert.Equal(t, 3, surface.circles)
	assert.Equal(t, 1, surface.lines)
}

func TestExportSVG(t *testing.T) {
	ctrl, bp := newTestController(t)
	drawRectangle(ctrl)

	svg, err := ExportSVG(bp, 50, DefaultStyle())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, svg, `width="500" height="400"`)
	assert.Contains(t, svg, `fill="#f9f9f9"`)
	assert.Contains(t, svg, ">3.9 m</text>")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}
