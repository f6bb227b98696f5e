package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// ============================================================
// Polygons
// ============================================================

// SignedArea площадь многоугольника по формуле шнурка; > 0 для обхода против часовой стрелки.
func SignedArea(points []geom.Coord) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// IsClockwise считает вырожденный (нулевой площади) контур тоже обходом по часовой.
func IsClockwise(points []geom.Coord) bool {
	return SignedArea(points) <= 0
}

func Area(points []geom.Coord) float64 {
	return math.Abs(SignedArea(points))
}

// Bounds ограничивающий прямоугольник; ok=false для пустого набора.
func Bounds(points []geom.Coord) (geom.Rect, bool) {
	if len(points) == 0 {
		return geom.Rect{}, false
	}

	r := geom.Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.ExpandToContainCoord(p)
	}
	return r, true
}

func Centroid(points []geom.Coord) geom.Coord {
	if len(points) == 0 {
		return geom.Coord{}
	}

	var c geom.Coord
	for _, p := range points {
		c = c.Plus(p)
	}
	return c.Times(1 / float64(len(points)))
}

// ContainsPoint even-odd тест принадлежности точки многоугольнику.
func ContainsPoint(points []geom.Coord, p geom.Coord) bool {
	inside := false
	for i, j := 0, len(points)-1; i < len(points); j, i = i, i+1 {
		a, b := points[i], points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Triangulate разбивает простой многоугольник на треугольники методом отсечения ушей.
// Возвращает тройки индексов в исходном массиве с обходом против часовой стрелки.
func Triangulate(points []geom.Coord) [][3]int {
	n := len(points)
	if n < 3 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if SignedArea(points) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	var out [][3]int
	guard := 0
	for len(idx) > 3 && guard < n*n {
		guard++
		clipped := false
		for i := range idx {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if !isEar(points, idx, prev, cur, next) {
				continue
			}
			out = append(out, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// самопересечение: добиваем веером, чтобы не терять пол
			break
		}
	}

	for i := 1; i+1 < len(idx); i++ {
		out = append(out, [3]int{idx[0], idx[i], idx[i+1]})
	}
	return out
}

func isEar(points []geom.Coord, idx []int, prev, cur, next int) bool {
	a, b, c := points[prev], points[cur], points[next]
	if Det(b.Minus(a), c.Minus(b)) <= 0 {
		return false
	}

	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		if inTriangle(points[k], a, b, c) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c geom.Coord) bool {
	d1 := Det(b.Minus(a), p.Minus(a))
	d2 := Det(c.Minus(b), p.Minus(b))
	d3 := Det(a.Minus(c), p.Minus(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}
