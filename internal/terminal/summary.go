package terminal

import (
	"fmt"
	"io"

	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/geometry"

	"github.com/fatih/color"
)

// WriteSummary печатает итог сессии: число вершин и стен, площади комнат.
func WriteSummary(w io.Writer, bp *blueprint.Blueprint) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	ok := color.RGB(0, 175, 0)

	bold.Fprintln(w, "Blueprint")
	fmt.Fprintf(w, "  corners %d, walls %d\n", len(bp.Corners()), len(bp.Walls()))

	rooms := bp.Rooms()
	if len(rooms) == 0 {
		dim.Fprintln(w, "  no closed rooms")
		return
	}
	var total float64
	for i, r := range rooms {
		area := r.InteriorArea() / 10000
		total += area
		fmt.Fprintf(w, "  room %d: %s m², %d corners ", i+1, formatArea(area), len(r.Corners()))
		dim.Fprintf(w, "(%s)\n", r.UUID())
	}
	ok.Fprintf(w, "  total %s m²\n", formatArea(total))

	if size := bp.Size(); size.X > 0 {
		dim.Fprintf(w, "  extent %s × %s\n", geometry.CmToMeasure(size.X), geometry.CmToMeasure(size.Y))
	}
}

func formatArea(m2 float64) string {
	return fmt.Sprintf("%.2f", m2)
}
