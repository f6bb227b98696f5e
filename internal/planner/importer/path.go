package importer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/jbeda/geom"
)

var ErrEmptyPath = errors.New("empty path")

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ============================================================
// Path Parser
// ============================================================

// ParsePath точки ломаной из атрибута d. Поддерживаются M, L, H, V, Z
// в абсолютной и относительной форме; повтор пар после M/L продолжает линию.
func ParsePath(d string) ([]geom.Coord, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, ErrEmptyPath
	}

	var points []geom.Coord
	var cur, start geom.Coord

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		args := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(args); i += 2 {
				next := geom.Coord{X: args[i], Y: args[i+1]}
				if relative {
					next = cur.Plus(next)
				}
				cur = next
				if strings.ToUpper(cmd) == "M" && i == 0 {
					start = cur
				}
				points = append(points, cur)
			}
		case "H":
			for _, x := range args {
				if relative {
					x += cur.X
				}
				cur.X = x
				points = append(points, cur)
			}
		case "V":
			for _, y := range args {
				if relative {
					y += cur.Y
				}
				cur.Y = y
				points = append(points, cur)
			}
		case "Z":
			if len(points) > 0 {
				cur = start
				points = append(points, start)
			}
		}
	}

	return points, nil
}

func parseCoords(s string) []float64 {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))

	coords := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			coords = append(coords, v)
		}
	}
	return coords
}
