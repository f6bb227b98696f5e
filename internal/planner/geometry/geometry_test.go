package geometry

import (
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestPointOnLine(t *testing.T) {
	a, b := Pt(0, 0), Pt(100, 0)

	tests := []struct {
		name string
		p    geom.Coord
		want geom.Coord
	}{
		{"projects inside", Pt(40, 25), Pt(40, 0)},
		{"clamps before start", Pt(-30, 10), Pt(0, 0)},
		{"clamps after end", Pt(150, -5), Pt(100, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnLine(tt.p, a, b)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}

	t.Run("degenerate segment", func(t *testing.T) {
		got := ClosestPointOnLine(Pt(5, 5), Pt(1, 1), Pt(1, 1))
		assert.Equal(t, Pt(1, 1), got)
	})
}

func TestPointDistanceFromLine(t *testing.T) {
	assert.InDelta(t, 25.0, PointDistanceFromLine(Pt(40, 25), Pt(0, 0), Pt(100, 0)), 1e-9)
	assert.InDelta(t, 5.0, PointDistanceFromLine(Pt(103, 4), Pt(0, 0), Pt(100, 0)), 1e-9)
}

func TestAngle2Pi(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Angle2Pi(Pt(0, 1), Pt(1, 0)), 1e-9)
	assert.InDelta(t, 3*math.Pi/2, Angle2Pi(Pt(1, 0), Pt(0, 1)), 1e-9)
	assert.InDelta(t, math.Pi, Angle2Pi(Pt(-1, 0), Pt(1, 0)), 1e-9)
	assert.InDelta(t, 0, Angle2Pi(Pt(1, 0), Pt(2, 0)), 1e-9)
}

func TestHalfAngleVector(t *testing.T) {
	const offset = 5.0

	t.Run("right angle miter", func(t *testing.T) {
		// (0,300) → (0,0) → (400,0), обход против часовой
		v := HalfAngleVector(Pt(0, 300), Pt(0, 0), Pt(0, 0), Pt(400, 0), offset)
		assert.InDelta(t, offset*math.Sqrt2, v.Magnitude(), 1e-9)
		assert.InDelta(t, 5.0, v.X, 1e-9)
		assert.InDelta(t, 5.0, v.Y, 1e-9)
	})

	t.Run("straight wall is perpendicular", func(t *testing.T) {
		v := HalfAngleVector(Pt(-100, 0), Pt(0, 0), Pt(0, 0), Pt(100, 0), offset)
		assert.InDelta(t, 0, v.X, 1e-9)
		assert.InDelta(t, offset, v.Y, 1e-9)
	})

	t.Run("folded back wall clamps to zero", func(t *testing.T) {
		v := HalfAngleVector(Pt(100, 0), Pt(0, 0), Pt(0, 0), Pt(100, 0), offset)
		assert.Equal(t, geom.Coord{}, v)
	})

	t.Run("zero length wall clamps to zero", func(t *testing.T) {
		v := HalfAngleVector(Pt(0, 100), Pt(0, 0), Pt(0, 0), Pt(0, 0), offset)
		assert.Equal(t, geom.Coord{}, v)
	})
}

func TestSignedArea(t *testing.T) {
	ccw := []geom.Coord{Pt(0, 0), Pt(400, 0), Pt(400, 300), Pt(0, 300)}
	assert.InDelta(t, 120000, SignedArea(ccw), 1e-9)
	assert.False(t, IsClockwise(ccw))

	cw := []geom.Coord{Pt(0, 0), Pt(0, 300), Pt(400, 300), Pt(400, 0)}
	assert.True(t, IsClockwise(cw))
	assert.InDelta(t, 120000, Area(cw), 1e-9)
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	r, ok := Bounds([]geom.Coord{Pt(10, -5), Pt(-20, 40), Pt(0, 0)})
	require.True(t, ok)
	assert.Equal(t, Pt(-20, -5), r.Min)
	assert.Equal(t, Pt(10, 40), r.Max)
}

func TestTriangulate(t *testing.T) {
	lshape := []geom.Coord{
		Pt(0, 0), Pt(200, 0), Pt(200, 100), Pt(100, 100), Pt(100, 200), Pt(0, 200),
	}

	tris := Triangulate(lshape)
	require.Len(t, tris, 4)

	var total float64
	for _, tri := range tris {
		pts := []geom.Coord{lshape[tri[0]], lshape[tri[1]], lshape[tri[2]]}
		assert.Greater(t, SignedArea(pts), 0.0)
		total += SignedArea(pts)
	}
	assert.InDelta(t, Area(lshape), total, 1e-6)
}

func TestContainsPoint(t *testing.T) {
	square := []geom.Coord{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	assert.True(t, ContainsPoint(square, Pt(5, 5)))
	assert.False(t, ContainsPoint(square, Pt(15, 5)))
}

func TestCmToMeasure(t *testing.T) {
	assert.Equal(t, "4 m", CmToMeasure(400))
	assert.Equal(t, "2.5 m", CmToMeasure(250.04))
}
