package scene

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ============================================================
// Camera
// ============================================================

// Camera переводит точку холста (пиксели) в луч мира.
type Camera interface {
	Ray(x, y float64) Ray
	Position() v3.Vec
	Resize(width, height float64)
}

// PerspectiveCamera камера с перспективой, FovY в градусах.
type PerspectiveCamera struct {
	Pos    v3.Vec
	Target v3.Vec
	Up     v3.Vec
	FovY   float64
	Width  float64
	Height float64
}

func NewPerspectiveCamera(pos, target v3.Vec, fovY, width, height float64) *PerspectiveCamera {
	return &PerspectiveCamera{
		Pos:    pos,
		Target: target,
		Up:     v3.Vec{Y: 1},
		FovY:   fovY,
		Width:  width,
		Height: height,
	}
}

func (c *PerspectiveCamera) Position() v3.Vec { return c.Pos }

func (c *PerspectiveCamera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

func (c *PerspectiveCamera) aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// Ray строит луч через нормализованные координаты устройства.
func (c *PerspectiveCamera) Ray(x, y float64) Ray {
	ndcX, ndcY := ndc(x, y, c.Width, c.Height)

	forward := c.Target.Sub(c.Pos).Normalize()
	up := c.Up
	if math.Abs(forward.Dot(up.Normalize())) > 1-1e-9 {
		// взгляд вдоль Up: берём -Z экрана как «верх»
		up = v3.Vec{Z: -1}
	}
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	tanHalf := math.Tan(c.FovY * math.Pi / 360)
	dir := forward.
		Add(right.MulScalar(ndcX * tanHalf * c.aspect())).
		Add(trueUp.MulScalar(ndcY * tanHalf))

	return Ray{Origin: c.Pos, Dir: dir.Normalize()}
}

// OrthographicCamera вид строго сверху; Scale в см на пиксель.
type OrthographicCamera struct {
	Center v3.Vec
	EyeY   float64
	Scale  float64
	Width  float64
	Height float64
}

func NewOrthographicCamera(center v3.Vec, scale, width, height float64) *OrthographicCamera {
	if scale <= 0 {
		scale = 1
	}
	return &OrthographicCamera{Center: center, EyeY: 5000, Scale: scale, Width: width, Height: height}
}

func (c *OrthographicCamera) Position() v3.Vec {
	return v3.Vec{X: c.Center.X, Y: c.EyeY, Z: c.Center.Z}
}

func (c *OrthographicCamera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

func (c *OrthographicCamera) Ray(x, y float64) Ray {
	return Ray{
		Origin: v3.Vec{
			X: c.Center.X + (x-c.Width/2)*c.Scale,
			Y: c.EyeY,
			Z: c.Center.Z + (y-c.Height/2)*c.Scale,
		},
		Dir: v3.Vec{Y: -1},
	}
}

func ndc(x, y, width, height float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x/width*2 - 1, -(y/height)*2 + 1
}
