package planar

import "github.com/jbeda/geom"

// Surface холст, на который View выводит план. Координаты в пикселях.
// Пустой цвет означает «не рисовать» (без заливки или без обводки).
type Surface interface {
	Size() (width, height float64)
	Clear()
	Line(x1, y1, x2, y2, width float64, color string)
	Polygon(points []geom.Coord, fill, stroke string, strokeWidth float64)
	Circle(cx, cy, radius float64, fill string)
	Text(x, y float64, text, color string)
}

// Style цвета и размеры элементов плана.
type Style struct {
	GridSpacing float64
	GridWidth   float64
	GridColor   string

	RoomColor string

	WallWidth      float64
	WallWidthHover float64
	WallColor      string
	WallColorHover string

	EdgeColor string
	EdgeWidth float64

	CornerRadius      float64
	CornerRadiusHover float64
	CornerColor       string
	CornerColorHover  string

	DeleteColor string

	LabelColor string
	// LabelMinLength стены короче (см) подписываются без длины.
	LabelMinLength float64
}

func DefaultStyle() Style {
	return Style{
		GridSpacing: 20,
		GridWidth:   1,
		GridColor:   "#f1f1f1",

		RoomColor: "#f9f9f9",

		WallWidth:      5,
		WallWidthHover: 7,
		WallColor:      "#dddddd",
		WallColorHover: "#008cba",

		EdgeColor: "#888888",
		EdgeWidth: 1,

		CornerRadius:      0,
		CornerRadiusHover: 7,
		CornerColor:       "#cccccc",
		CornerColorHover:  "#008cba",

		DeleteColor: "#ff0000",

		LabelColor:     "#222222",
		LabelMinLength: 30,
	}
}
