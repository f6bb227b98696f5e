package assets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var ErrEmptyModel = errors.New("model has no vertices")

// MeasureOBJ габариты Wavefront OBJ по строкам вершин "v x y z".
func MeasureOBJ(data []byte) (v3.Vec, error) {
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	count := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "v" {
			continue
		}

		var p [3]float64
		for i := range p {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return v3.Vec{}, fmt.Errorf("line %d: bad vertex: %w", line, err)
			}
			p[i] = f
		}
		lo = v3.Vec{X: math.Min(lo.X, p[0]), Y: math.Min(lo.Y, p[1]), Z: math.Min(lo.Z, p[2])}
		hi = v3.Vec{X: math.Max(hi.X, p[0]), Y: math.Max(hi.Y, p[1]), Z: math.Max(hi.Z, p[2])}
		count++
	}
	if err := sc.Err(); err != nil {
		return v3.Vec{}, fmt.Errorf("scan model: %w", err)
	}
	if count == 0 {
		return v3.Vec{}, ErrEmptyModel
	}
	return hi.Sub(lo), nil
}
