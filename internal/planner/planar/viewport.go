package planar

import "github.com/jbeda/geom"

// DefaultCmPerPixel 30.48 см на фут при 15 пикселях на фут.
const DefaultCmPerPixel = 30.48 / 15.0

// Viewport проекция плана на холст. Origin хранится в пикселях, как смещение
// левого верхнего угла холста относительно начала координат плана.
type Viewport struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64

	cmPerPixel float64
}

func NewViewport(width, height, cmPerPixel float64) *Viewport {
	if cmPerPixel <= 0 {
		cmPerPixel = DefaultCmPerPixel
	}
	return &Viewport{Width: width, Height: height, cmPerPixel: cmPerPixel}
}

func (v *Viewport) CmPerPixel() float64  { return v.cmPerPixel }
func (v *Viewport) PixelsPerCm() float64 { return 1 / v.cmPerPixel }

// ToWorld переводит точку холста (пиксели) в координаты плана (см).
func (v *Viewport) ToWorld(x, y float64) geom.Coord {
	return geom.Coord{
		X: x*v.cmPerPixel + v.OriginX*v.cmPerPixel,
		Y: y*v.cmPerPixel + v.OriginY*v.cmPerPixel,
	}
}

func (v *Viewport) ConvertX(x float64) float64 {
	return (x - v.OriginX*v.cmPerPixel) * v.PixelsPerCm()
}

func (v *Viewport) ConvertY(y float64) float64 {
	return (y - v.OriginY*v.cmPerPixel) * v.PixelsPerCm()
}

// ToScreen переводит точку плана (см) в пиксели холста.
func (v *Viewport) ToScreen(p geom.Coord) geom.Coord {
	return geom.Coord{X: v.ConvertX(p.X), Y: v.ConvertY(p.Y)}
}

// Pan сдвигает начало координат на dx, dy пикселей.
func (v *Viewport) Pan(dx, dy float64) {
	v.OriginX += dx
	v.OriginY += dy
}

// CenterOn ставит точку плана в центр холста.
func (v *Viewport) CenterOn(p geom.Coord) {
	v.OriginX = p.X*v.PixelsPerCm() - v.Width/2
	v.OriginY = p.Y*v.PixelsPerCm() - v.Height/2
}

func (v *Viewport) Resize(width, height float64) {
	v.Width = width
	v.Height = height
}
