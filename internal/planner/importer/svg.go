package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name   `xml:"svg"`
	Rects   []svgRect  `xml:"rect"`
	Paths   []svgPath  `xml:"path"`
	Groups  []svgGroup `xml:"g"`
}

type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Groups []svgGroup `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Elements
// ============================================================

// Kind назначение элемента плана по префиксу id.
type Kind string

const (
	KindWall    Kind = "wall"
	KindDoor    Kind = "door"
	KindWindow  Kind = "window"
	KindRoom    Kind = "room"
	KindBalcony Kind = "balcony"
)

// Element размеченный элемент SVG: либо прямоугольник, либо path.
type Element struct {
	ID   string
	Kind Kind
	Rect *svgRect
	D    string
}

// Parse читает SVG и возвращает элементы с распознанными id.
func Parse(r io.Reader) ([]Element, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []Element
	collect(&elements, doc.Rects, doc.Paths, doc.Groups)
	return elements, nil
}

func collect(out *[]Element, rects []svgRect, paths []svgPath, groups []svgGroup) {
	for i := range rects {
		if kind := classify(rects[i].ID); kind != "" {
			*out = append(*out, Element{ID: rects[i].ID, Kind: kind, Rect: &rects[i]})
		}
	}
	for _, p := range paths {
		if kind := classify(p.ID); kind != "" {
			*out = append(*out, Element{ID: p.ID, Kind: kind, D: p.D})
		}
	}
	for _, g := range groups {
		collect(out, g.Rects, g.Paths, g.Groups)
	}
}

func classify(id string) Kind {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return KindWall
	case strings.HasPrefix(id, "Door_"):
		return KindDoor
	case strings.HasPrefix(id, "Window_"):
		return KindWindow
	case strings.HasPrefix(id, "Room_"), strings.HasSuffix(id, "_room"), strings.HasSuffix(id, "_Room"):
		return KindRoom
	case strings.HasPrefix(id, "Balcony"):
		return KindBalcony
	}
	return ""
}
