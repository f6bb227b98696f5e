package importer

import (
	"fmt"
	"io"
	"math"

	"room-planner/internal/planner/blueprint"

	"github.com/hashicorp/go-hclog"
	"github.com/jbeda/geom"
)

// ============================================================
// Options
// ============================================================

// Options перевод координат SVG в сантиметры плана: p*Scale + Offset.
type Options struct {
	Scale  float64
	Offset geom.Coord
}

func DefaultOptions() Options {
	return Options{Scale: 1}
}

func (o Options) transform(p geom.Coord) geom.Coord {
	scale := o.Scale
	if scale <= 0 {
		scale = 1
	}
	return p.Times(scale).Plus(o.Offset)
}

// Result итог импорта.
type Result struct {
	Walls   int      `json:"walls"`
	Ignored int      `json:"ignored"`
	Skipped []string `json:"skipped"`
}

// ============================================================
// Importer
// ============================================================

// Importer добавляет стены из размеченного SVG в план. Каждая стена проходит
// через обычное слияние вершин, так что соседние стены сходятся в общих углах.
type Importer struct {
	bp   *blueprint.Blueprint
	opts Options
	log  hclog.Logger
}

func New(bp *blueprint.Blueprint, opts Options, logger hclog.Logger) *Importer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Importer{bp: bp, opts: opts, log: logger.Named("importer")}
}

func (im *Importer) Import(r io.Reader) (Result, error) {
	elements, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{Skipped: []string{}}
	for _, el := range elements {
		if el.Kind != KindWall {
			res.Ignored++
			continue
		}

		p1, p2, err := centerline(el)
		if err != nil {
			im.log.Warn("wall skipped", "element", el.ID, "error", err)
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}
		p1, p2 = im.opts.transform(p1), im.opts.transform(p2)
		if p1.DistanceFrom(p2) < im.bp.Options().CornerTolerance {
			im.log.Debug("wall too short", "element", el.ID)
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}

		im.addWall(p1, p2)
		res.Walls++
	}

	im.log.Info("svg imported", "walls", res.Walls, "ignored", res.Ignored, "skipped", len(res.Skipped))
	return res, nil
}

func (im *Importer) addWall(p1, p2 geom.Coord) {
	start := im.bp.NewCorner(p1.X, p1.Y, "")
	end := im.bp.NewCorner(p2.X, p2.Y, "")
	im.bp.NewWall(start, end)
	start.MergeWithIntersected()
	end.MergeWithIntersected()
}

// centerline ось стены: середина короткой стороны габаритного прямоугольника
// вдоль длинной.
func centerline(el Element) (geom.Coord, geom.Coord, error) {
	var minX, minY, maxX, maxY float64

	if el.Rect != nil {
		minX, minY = el.Rect.X, el.Rect.Y
		maxX, maxY = el.Rect.X+el.Rect.Width, el.Rect.Y+el.Rect.Height
	} else {
		points, err := ParsePath(el.D)
		if err != nil {
			return geom.Coord{}, geom.Coord{}, err
		}
		if len(points) < 2 {
			return geom.Coord{}, geom.Coord{}, fmt.Errorf("path %s: need at least two points", el.ID)
		}
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		for _, p := range points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	width, height := maxX-minX, maxY-minY
	if width >= height {
		midY := minY + height/2
		return geom.Coord{X: minX, Y: midY}, geom.Coord{X: maxX, Y: midY}, nil
	}
	midX := minX + width/2
	return geom.Coord{X: midX, Y: minY}, geom.Coord{X: midX, Y: maxY}, nil
}
