package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Vector helpers
// ============================================================

// Epsilon порог, ниже которого длины и синусы считаются нулём.
const Epsilon = 0.0001

func Pt(x, y float64) geom.Coord {
	return geom.Coord{X: x, Y: y}
}

func Dot(a, b geom.Coord) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Det псевдоскалярное произведение a × b.
func Det(a, b geom.Coord) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Rotate поворачивает вектор на theta радиан.
func Rotate(v geom.Coord, theta float64) geom.Coord {
	cs, sn := math.Cos(theta), math.Sin(theta)
	return geom.Coord{
		X: v.X*cs - v.Y*sn,
		Y: v.X*sn + v.Y*cs,
	}
}

// Scale масштабирует v до длины length; нулевой вектор остаётся нулевым.
func Scale(v geom.Coord, length float64) geom.Coord {
	mag := v.Magnitude()
	if mag < Epsilon {
		return geom.Coord{}
	}
	return v.Times(length / mag)
}

func Midpoint(a, b geom.Coord) geom.Coord {
	return a.Plus(b).Times(0.5)
}

func NearlyEqual(a, b geom.Coord, tolerance float64) bool {
	return a.DistanceFrom(b) <= tolerance
}

// CmToMeasure форматирует длину в сантиметрах как метры с точностью до миллиметра.
func CmToMeasure(cm float64) string {
	return fmt.Sprintf("%g m", math.Round(10*cm)/1000)
}
