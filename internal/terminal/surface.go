package terminal

import (
	"math"

	"room-planner/internal/planner/geometry"
	"room-planner/internal/planner/planar"

	"github.com/gdamore/tcell/v2"
	"github.com/jbeda/geom"
)

// Размер клетки терминала в пикселях холста.
const (
	CellWidth  = 8
	CellHeight = 16
)

// ============================================================
// Surface
// ============================================================

// Surface холст плана поверх tcell.Screen. Одна клетка терминала покрывает
// CellWidth×CellHeight пикселей; нижняя строка оставлена под статус.
type Surface struct {
	screen tcell.Screen
}

func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

var _ planar.Surface = (*Surface)(nil)

func (s *Surface) Size() (float64, float64) {
	cols, rows := s.screen.Size()
	if rows > 0 {
		rows--
	}
	return float64(cols * CellWidth), float64(rows * CellHeight)
}

func (s *Surface) Clear() { s.screen.Clear() }

// Cell клетка, в которую попадает пиксель холста.
func Cell(x, y float64) (int, int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// Pixel центр клетки в пикселях холста.
func Pixel(col, row int) (float64, float64) {
	return float64(col)*CellWidth + CellWidth/2, float64(row)*CellHeight + CellHeight/2
}

func (s *Surface) inside(col, row int) bool {
	cols, rows := s.screen.Size()
	return col >= 0 && row >= 0 && col < cols && row < rows-1
}

// set пишет символ, сохраняя фон клетки (заливку комнаты).
func (s *Surface) set(col, row int, r rune, fg tcell.Color) {
	if !s.inside(col, row) {
		return
	}
	_, _, style, _ := s.screen.GetContent(col, row)
	s.screen.SetContent(col, row, r, nil, style.Foreground(fg))
}

func (s *Surface) Line(x1, y1, x2, y2, width float64, color string) {
	if color == "" || width <= 0 {
		return
	}
	fg := tcell.GetColor(color)
	r := lineRune(x2-x1, y2-y1)

	c1, r1 := Cell(x1, y1)
	c2, r2 := Cell(x2, y2)
	dc, dr := abs(c2-c1), -abs(r2-r1)
	sc, sr := sign(c2-c1), sign(r2-r1)
	e := dc + dr
	for {
		s.set(c1, r1, r, fg)
		if c1 == c2 && r1 == r2 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c1 += sc
		}
		if e2 <= dc {
			e += dc
			r1 += sr
		}
	}
}

// Polygon заливает клетки, центр которых внутри многоугольника.
func (s *Surface) Polygon(points []geom.Coord, fill, stroke string, strokeWidth float64) {
	if len(points) < 3 {
		return
	}
	if fill != "" {
		bg := tcell.GetColor(fill)
		box, _ := geometry.Bounds(points)
		cols, rows := s.screen.Size()
		c1, r1 := Cell(box.Min.X, box.Min.Y)
		c2, r2 := Cell(box.Max.X, box.Max.Y)
		c1, r1 = max(c1, 0), max(r1, 0)
		c2, r2 = min(c2, cols-1), min(r2, rows-2)
		for row := r1; row <= r2; row++ {
			for col := c1; col <= c2; col++ {
				if !s.inside(col, row) {
					continue
				}
				x, y := Pixel(col, row)
				if geometry.ContainsPoint(points, geom.Coord{X: x, Y: y}) {
					s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(bg))
				}
			}
		}
	}
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		s.Line(a.X, a.Y, b.X, b.Y, strokeWidth, stroke)
	}
}

func (s *Surface) Circle(cx, cy, radius float64, fill string) {
	if fill == "" || radius <= 0 {
		return
	}
	col, row := Cell(cx, cy)
	s.set(col, row, '●', tcell.GetColor(fill))
}

// Text пишет строку по центру относительно x.
func (s *Surface) Text(x, y float64, text, color string) {
	runes := []rune(text)
	col, row := Cell(x, y)
	col -= len(runes) / 2
	fg := tcell.GetColor(color)
	for i, r := range runes {
		s.set(col+i, row, r, fg)
	}
}

// Status пишет строку в нижний ряд экрана.
func (s *Surface) Status(text string) {
	cols, rows := s.screen.Size()
	if rows == 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(text)
	for col := 0; col < cols; col++ {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		s.screen.SetContent(col, rows-1, r, nil, style)
	}
}

func lineRune(dx, dy float64) rune {
	switch {
	case math.Abs(dy) <= math.Abs(dx)/4:
		return '─'
	case math.Abs(dx) <= math.Abs(dy)/4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
