package scene

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ============================================================
// Ray
// ============================================================

// Ray луч в мировых координатах; Dir нормирован.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// GroundPlane невидимая горизонтальная плоскость для перетаскивания и вращения.
type GroundPlane struct {
	Y    float64
	Size float64
}

// DefaultGroundSize сторона квадрата плоскости, см.
const DefaultGroundSize = 10000

// Intersect точка пересечения луча с плоскостью в пределах её размера.
func (g GroundPlane) Intersect(r Ray) (v3.Vec, bool) {
	if math.Abs(r.Dir.Y) < 1e-12 {
		return v3.Vec{}, false
	}
	t := (g.Y - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return v3.Vec{}, false
	}

	p := r.At(t)
	half := g.Size / 2
	if g.Size > 0 && (math.Abs(p.X) > half || math.Abs(p.Z) > half) {
		return v3.Vec{}, false
	}
	p.Y = g.Y
	return p, true
}

// ============================================================
// Ray marching
// ============================================================

const (
	marchMaxSteps = 256
	marchEpsilon  = 1e-3
)

// slab отрезок [tmin, tmax] луча внутри бокса.
func slab(r Ray, box sdf.Box3) (float64, float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)

	axes := [3][4]float64{
		{r.Origin.X, r.Dir.X, box.Min.X, box.Max.X},
		{r.Origin.Y, r.Dir.Y, box.Min.Y, box.Max.Y},
		{r.Origin.Z, r.Dir.Z, box.Min.Z, box.Max.Z},
	}
	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

// march трассировка сферами по SDF; сначала отсекаем по ограничивающему боксу.
func march(r Ray, s sdf.SDF3) (float64, bool) {
	tmin, tmax, ok := slab(r, s.BoundingBox())
	if !ok {
		return 0, false
	}

	t := tmin
	for i := 0; i < marchMaxSteps && t <= tmax+marchEpsilon; i++ {
		d := s.Evaluate(r.At(t))
		if d < marchEpsilon {
			return t, true
		}
		t += d
	}
	return 0, false
}
