package scene

import (
	"fmt"
	"math"

	"room-planner/internal/planner/models"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// ============================================================
// Layers & parts
// ============================================================

// Layers битовая маска слоёв для трассировки лучей.
type Layers uint8

const (
	LayerFurniture Layers = 1 << iota
	LayerGizmo
)

// Part часть предмета, в которую попал луч.
type Part int

const (
	PartBody Part = iota
	PartGizmo
)

func (p Part) String() string {
	if p == PartGizmo {
		return "gizmo"
	}
	return "body"
}

// ============================================================
// Highlight
// ============================================================

const (
	EmissiveNone     uint32 = 0x000000
	EmissiveSelected uint32 = 0x444444
	EmissiveHover    uint32 = 0x0000ff
	EmissiveDelete   uint32 = 0xff0000
)

// ============================================================
// Rotation
// ============================================================

const (
	SnapAngle      = 45 * math.Pi / 180
	SnapThreshold  = 5 * math.Pi / 180
	GizmoSizeRatio = 1.2

	// кольцо лежит у пола и имеет ширину 2*gizmoBand
	gizmoHeight = 1.0
	gizmoBand   = 6.0
	gizmoDepth  = 2.0
)

// SnapRotation притягивает угол к ближайшему кратному SnapAngle,
// если отклонение строго меньше SnapThreshold.
func SnapRotation(raw float64) float64 {
	snapped := math.Round(raw/SnapAngle) * SnapAngle
	if math.Abs(raw-snapped) < SnapThreshold-1e-9 {
		return snapped
	}
	return raw
}

// ============================================================
// Item
// ============================================================

// Item размещённый предмет мебели. Позиция задаёт центр основания, Y вверх.
type Item struct {
	id        string
	furniture models.Furniture

	size     v3.Vec // габариты модели в её координатах
	scale    v3.Vec
	position v3.Vec
	rotation float64

	fixed       bool
	placeholder bool
	errored     bool

	hover    bool
	selected bool
	emissive uint32

	gizmoVisible bool
	gizmoLayers  Layers

	dragOffset      v3.Vec
	initialRotation float64
	startDragAngle  float64

	body  sdf.SDF3
	gizmo sdf.SDF3
}

// NewItem создаёт предмет; нулевой масштаб заменяется единичным.
func NewItem(furniture models.Furniture, size, position v3.Vec, rotation float64, scale v3.Vec) *Item {
	if scale.X == 0 && scale.Y == 0 && scale.Z == 0 {
		scale = v3.Vec{X: 1, Y: 1, Z: 1}
	}
	return &Item{
		id:          uuid.NewString(),
		furniture:   furniture,
		size:        size,
		scale:       scale,
		position:    position,
		rotation:    rotation,
		gizmoLayers: LayerGizmo,
	}
}

// NewPlaceholder куб 1×1×1, который держит место, пока грузится модель.
func NewPlaceholder(furniture models.Furniture, position v3.Vec, rotation float64) *Item {
	it := NewItem(furniture, v3.Vec{X: 1, Y: 1, Z: 1}, position, rotation, v3.Vec{X: 1, Y: 1, Z: 1})
	it.placeholder = true
	return it
}

func (it *Item) ID() string                  { return it.id }
func (it *Item) Furniture() models.Furniture { return it.furniture }
func (it *Item) Position() v3.Vec            { return it.position }
func (it *Item) Rotation() float64           { return it.rotation }
func (it *Item) Scale() v3.Vec               { return it.scale }
func (it *Item) Fixed() bool                 { return it.fixed }
func (it *Item) Placeholder() bool           { return it.placeholder }
func (it *Item) Errored() bool               { return it.errored }
func (it *Item) Hover() bool                 { return it.hover }
func (it *Item) Selected() bool              { return it.selected }
func (it *Item) Emissive() uint32            { return it.emissive }
func (it *Item) GizmoVisible() bool          { return it.gizmoVisible }

// Dimensions габариты предмета в мире с учётом масштаба.
func (it *Item) Dimensions() v3.Vec {
	return v3.Vec{X: it.size.X * it.scale.X, Y: it.size.Y * it.scale.Y, Z: it.size.Z * it.scale.Z}
}

// GizmoRadius радиус кольца вращения.
func (it *Item) GizmoRadius() float64 {
	d := it.Dimensions()
	return math.Max(d.X, d.Z) / 2 * GizmoSizeRatio
}

func (it *Item) SetFixed(fixed bool) { it.fixed = fixed }

// SetError помечает заглушку как неудачную загрузку.
func (it *Item) SetError() {
	it.errored = true
}

func (it *Item) SetPosition(p v3.Vec) {
	it.position = p
	it.invalidate()
}

func (it *Item) SetRotation(yaw float64) {
	it.rotation = yaw
	it.invalidate()
}

func (it *Item) invalidate() {
	it.body = nil
	it.gizmo = nil
}

// ============================================================
// Selection
// ============================================================

func (it *Item) MouseOver(deleting bool) {
	it.hover = true
	it.updateHighlight(deleting)
}

func (it *Item) MouseOff() {
	it.hover = false
	it.updateHighlight(false)
}

// SetSelected показывает кольцо и делает его доступным для трассировки.
func (it *Item) SetSelected() {
	it.selected = true
	it.updateHighlight(false)
	it.gizmoVisible = true
	it.gizmoLayers |= LayerFurniture
}

func (it *Item) SetUnselected() {
	it.selected = false
	it.updateHighlight(false)
	it.gizmoVisible = false
	it.gizmoLayers &^= LayerFurniture
}

func (it *Item) updateHighlight(deleting bool) {
	on := it.hover || it.selected
	switch {
	case deleting:
		it.emissive = EmissiveDelete
	case it.hover && !it.selected:
		it.emissive = EmissiveHover
	case on:
		it.emissive = EmissiveSelected
	default:
		it.emissive = EmissiveNone
	}
}

// ============================================================
// Drag & rotate
// ============================================================

// ClickPressed запоминает смещение точки захвата относительно позиции.
func (it *Item) ClickPressed(hit v3.Vec) {
	it.dragOffset = hit.Sub(it.position)
}

func (it *Item) ClickDragged(hit v3.Vec) {
	it.SetPosition(hit.Sub(it.dragOffset))
}

func (it *Item) StartRotation(hit v3.Vec) {
	it.initialRotation = it.rotation
	it.startDragAngle = math.Atan2(hit.X-it.position.X, hit.Z-it.position.Z)
}

func (it *Item) Rotate(hit v3.Vec) {
	current := math.Atan2(hit.X-it.position.X, hit.Z-it.position.Z)
	it.SetRotation(SnapRotation(it.initialRotation + current - it.startDragAngle))
}

// ============================================================
// Hulls
// ============================================================

// Body оболочка предмета: бокс габаритов, повёрнутый вокруг Y.
func (it *Item) Body() (sdf.SDF3, error) {
	if it.body != nil {
		return it.body, nil
	}

	d := it.Dimensions()
	box, err := sdf.Box3D(positive(d), 0)
	if err != nil {
		return nil, fmt.Errorf("item %s hull: %w", it.id, err)
	}
	center := it.position.Add(v3.Vec{Y: d.Y / 2})
	m := sdf.Translate3d(center).Mul(sdf.RotateY(it.rotation))
	it.body = sdf.Transform3D(box, m)
	return it.body, nil
}

// Gizmo кольцо вращения вокруг основания предмета.
func (it *Item) Gizmo() (sdf.SDF3, error) {
	if it.gizmo != nil {
		return it.gizmo, nil
	}

	r := it.GizmoRadius()
	outer, err := sdf.Cylinder3D(gizmoDepth, r+gizmoBand, 0)
	if err != nil {
		return nil, fmt.Errorf("item %s gizmo: %w", it.id, err)
	}
	inner, err := sdf.Cylinder3D(gizmoDepth*2, math.Max(r-gizmoBand, gizmoBand/2), 0)
	if err != nil {
		return nil, fmt.Errorf("item %s gizmo: %w", it.id, err)
	}

	// цилиндры sdfx вытянуты вдоль Z, кладём кольцо в плоскость XZ
	ring := sdf.Difference3D(outer, inner)
	m := sdf.Translate3d(it.position.Add(v3.Vec{Y: gizmoHeight})).Mul(sdf.RotateX(math.Pi / 2))
	it.gizmo = sdf.Transform3D(ring, m)
	return it.gizmo, nil
}

// intersect ближайшее попадание луча в видимые на слоях mask части предмета.
func (it *Item) intersect(r Ray, mask Layers) (float64, Part, bool) {
	best, part, found := math.Inf(1), PartBody, false

	if mask&LayerFurniture != 0 {
		if body, err := it.Body(); err == nil {
			if t, ok := march(r, body); ok {
				best, part, found = t, PartBody, true
			}
		}
	}

	if it.gizmoLayers&mask != 0 {
		if gizmo, err := it.Gizmo(); err == nil {
			if t, ok := march(r, gizmo); ok && t < best {
				best, part, found = t, PartGizmo, true
			}
		}
	}
	return best, part, found
}

func positive(v v3.Vec) v3.Vec {
	if v.X <= 0 {
		v.X = 1
	}
	if v.Y <= 0 {
		v.Y = 1
	}
	if v.Z <= 0 {
		v.Z = 1
	}
	return v
}
