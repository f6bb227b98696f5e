package planar

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"room-planner/internal/planner/blueprint"

	"github.com/jbeda/geom"
)

// ============================================================
// SVG surface
// ============================================================

// SVGSurface копит элементы и собирает из них документ SVG.
type SVGSurface struct {
	width    float64
	height   float64
	elements []string
}

func NewSVGSurface(width, height float64) *SVGSurface {
	return &SVGSurface{width: width, height: height}
}

func (s *SVGSurface) Size() (float64, float64) { return s.width, s.height }

func (s *SVGSurface) Clear() { s.elements = s.elements[:0] }

func (s *SVGSurface) Line(x1, y1, x2, y2, width float64, color string) {
	s.elements = append(s.elements, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
		formatFloat(x1), formatFloat(y1), formatFloat(x2), formatFloat(y2), color, formatFloat(width)))
}

func (s *SVGSurface) Polygon(points []geom.Coord, fill, stroke string, strokeWidth float64) {
	if len(points) < 3 {
		return
	}

	var path strings.Builder
	path.WriteString(`<path d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" fill="`)
	path.WriteString(orNone(fill))
	path.WriteString(`" stroke="`)
	path.WriteString(orNone(stroke))
	path.WriteString(`"`)
	if stroke != "" && strokeWidth > 0 {
		path.WriteString(` stroke-width="` + formatFloat(strokeWidth) + `"`)
	}
	path.WriteString(` />`)

	s.elements = append(s.elements, path.String())
}

func (s *SVGSurface) Circle(cx, cy, radius float64, fill string) {
	if radius <= 0 {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" />`,
		formatFloat(cx), formatFloat(cy), formatFloat(radius), fill))
}

func (s *SVGSurface) Text(x, y float64, text, color string) {
	s.elements = append(s.elements, fmt.Sprintf(`<text x="%s" y="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`,
		formatFloat(x), formatFloat(y), color, html.EscapeString(text)))
}

// String собирает документ.
func (s *SVGSurface) String() string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(s.width), formatFloat(s.height), formatFloat(s.width), formatFloat(s.height)))
	builder.WriteString("\n")

	for _, elem := range s.elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Export
// ============================================================

// ExportSVG рисует план целиком в масштабе 1 px = 1 см с полями margin.
func ExportSVG(bp *blueprint.Blueprint, margin float64, style Style) (string, error) {
	if bp == nil {
		return "", fmt.Errorf("blueprint is nil")
	}

	size := bp.Size()
	width := size.X + 2*margin
	height := size.Y + 2*margin
	if width <= 0 || height <= 0 {
		width, height = 1000, 1000
	}

	vp := NewViewport(width, height, 1)
	vp.CenterOn(bp.Center())

	surface := NewSVGSurface(width, height)
	NewStaticView(bp, vp, surface, style).Draw()
	return surface.String(), nil
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p geom.Coord) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}

func orNone(color string) string {
	if color == "" {
		return "none"
	}
	return color
}
