package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Lines & Angles
// ============================================================

// ClosestPointOnLine возвращает ближайшую к p точку отрезка ab.
func ClosestPointOnLine(p, a, b geom.Coord) geom.Coord {
	ab := b.Minus(a)
	lenSq := Dot(ab, ab)
	if lenSq == 0 {
		return a
	}

	t := Dot(p.Minus(a), ab) / lenSq
	switch {
	case t < 0:
		return a
	case t > 1:
		return b
	default:
		return a.Plus(ab.Times(t))
	}
}

func PointDistanceFromLine(p, a, b geom.Coord) float64 {
	return p.DistanceFrom(ClosestPointOnLine(p, a, b))
}

// Angle возвращает угол от a к b, отсчитанный по часовой стрелке, в (-π, π].
func Angle(a, b geom.Coord) float64 {
	return -math.Atan2(Det(a, b), Dot(a, b))
}

// Angle2Pi то же, что Angle, но нормализованный в [0, 2π).
func Angle2Pi(a, b geom.Coord) float64 {
	theta := Angle(a, b)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// HalfAngleVector строит вектор смещения угла стыка двух отрезков
// (in: inStart→inEnd, out: outStart→outEnd, inEnd == outStart) так, чтобы
// грани стен толщиной 2*offset сходились без зазора.
func HalfAngleVector(inStart, inEnd, outStart, outEnd geom.Coord, offset float64) geom.Coord {
	theta := Angle2Pi(inStart.Minus(inEnd), outEnd.Minus(inEnd))

	sn := math.Sin(theta / 2)
	if math.Abs(sn) < Epsilon {
		return geom.Coord{}
	}

	dir := outEnd.Minus(outStart)
	v := Rotate(dir, theta/2)
	if v.Magnitude() < Epsilon {
		return geom.Coord{}
	}
	return Scale(v, offset/sn)
}

// SegmentsIntersect проверяет пересечение отрезков p1p2 и p3p4 (включая касание).
func SegmentsIntersect(p1, p2, p3, p4 geom.Coord) bool {
	d1 := Det(p4.Minus(p3), p1.Minus(p3))
	d2 := Det(p4.Minus(p3), p2.Minus(p3))
	d3 := Det(p2.Minus(p1), p3.Minus(p1))
	d4 := Det(p2.Minus(p1), p4.Minus(p1))

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(p3, p4, p1)) ||
		(d2 == 0 && onSegment(p3, p4, p2)) ||
		(d3 == 0 && onSegment(p1, p2, p3)) ||
		(d4 == 0 && onSegment(p1, p2, p4))
}

func onSegment(a, b, p geom.Coord) bool {
	return p.X <= math.Max(a.X, b.X) && p.X >= math.Min(a.X, b.X) &&
		p.Y <= math.Max(a.Y, b.Y) && p.Y >= math.Min(a.Y, b.Y)
}
