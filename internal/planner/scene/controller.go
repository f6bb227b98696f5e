package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hashicorp/go-hclog"
)

// ============================================================
// State
// ============================================================

// State состояние 3D-редактора. Режим удаления задаётся отдельно.
type State int

const (
	StateUnselected State = iota
	StateSelected
	StateDragging
	StateRotating
)

func (s State) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateSelected:
		return "selected"
	case StateDragging:
		return "dragging"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// ============================================================
// Controller
// ============================================================

// Controller автомат выбора, перетаскивания и вращения предметов.
// Не потокобезопасен.
type Controller struct {
	scene  *Scene
	camera Camera
	log    hclog.Logger

	state    State
	deleting bool

	selected    *Item
	intersected *Item
	hitPart     Part
	mouseover   *Item

	mouseX, mouseY float64
	down           bool
	moved          bool

	cameraControls bool
}

func NewController(sc *Scene, camera Camera, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		scene:          sc,
		camera:         camera,
		log:            logger.Named("scene-controller"),
		state:          StateUnselected,
		cameraControls: true,
	}
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Selected() *Item  { return c.selected }
func (c *Controller) Hovered() *Item   { return c.mouseover }
func (c *Controller) Camera() Camera   { return c.camera }
func (c *Controller) DeleteMode() bool { return c.deleting }

// CameraControlsEnabled орбитальная камера выключена на время перетаскивания и вращения.
func (c *Controller) CameraControlsEnabled() bool { return c.cameraControls }

func (c *Controller) SetCamera(camera Camera) { c.camera = camera }

// SetDeleteMode включает режим удаления; выбор при этом снимается.
func (c *Controller) SetDeleteMode(on bool) {
	if on == c.deleting {
		return
	}
	c.deleting = on
	if on {
		c.switchState(StateUnselected)
	}
	c.log.Debug("delete mode", "on", on)
}

// Select выбирает предмет программно (например, только что размещённый).
func (c *Controller) Select(it *Item) {
	if it == nil {
		c.switchState(StateUnselected)
		return
	}
	c.setSelected(it)
}

func (c *Controller) switchState(s State) {
	if s == c.state {
		return
	}
	c.log.Trace("state", "from", c.state, "to", s)
	c.state = s

	switch s {
	case StateUnselected:
		c.setSelected(nil)
		c.cameraControls = true
	case StateSelected:
		c.cameraControls = true
	case StateDragging:
		c.clickPressed()
		c.cameraControls = false
	case StateRotating:
		c.cameraControls = false
	}
}

func (c *Controller) setSelected(it *Item) {
	if c.selected != nil {
		c.selected.SetUnselected()
	}
	c.selected = it
	if it == nil {
		return
	}
	it.SetSelected()
	if c.state == StateUnselected {
		c.state = StateSelected
		c.cameraControls = true
	}
}

// ============================================================
// Pointer events
// ============================================================

func (c *Controller) PointerMove(x, y float64) {
	c.moved = true
	c.mouseX, c.mouseY = x, y

	if !c.down {
		c.updateIntersections()
	}

	switch c.state {
	case StateUnselected, StateSelected:
		c.updateMouseover()
	case StateDragging:
		if c.selected != nil {
			if hit, ok := c.groundHit(); ok {
				c.selected.ClickDragged(hit)
			}
		}
	case StateRotating:
		if c.selected != nil {
			if hit, ok := c.groundHit(); ok {
				c.selected.Rotate(hit)
			}
		}
	}
}

func (c *Controller) PointerDown() {
	c.moved = false
	c.down = true
	c.updateIntersections()

	if c.deleting {
		c.deleteIntersected()
		return
	}

	switch c.state {
	case StateUnselected:
		if c.intersected != nil {
			it := c.intersected
			c.setSelected(it)
			if !it.Fixed() {
				c.switchState(StateDragging)
			}
		}
	case StateSelected:
		switch {
		case c.intersected != nil && c.intersected == c.selected:
			if c.hitPart == PartGizmo {
				if hit, ok := c.groundHit(); ok {
					c.selected.StartRotation(hit)
				}
				c.switchState(StateRotating)
			} else {
				c.switchState(StateDragging)
			}
		case c.intersected != nil:
			it := c.intersected
			c.setSelected(it)
			if !it.Fixed() {
				c.switchState(StateDragging)
			}
		default:
			c.switchState(StateUnselected)
		}
	case StateDragging, StateRotating:
	}
}

func (c *Controller) PointerUp() {
	c.down = false

	switch c.state {
	case StateSelected:
		if c.intersected == nil && !c.moved {
			c.switchState(StateUnselected)
		}
	case StateDragging, StateRotating:
		c.switchState(StateSelected)
	case StateUnselected:
	}
}

func (c *Controller) deleteIntersected() {
	it := c.intersected
	if it == nil {
		return
	}
	if it == c.selected {
		c.switchState(StateUnselected)
	}
	if it == c.mouseover {
		c.mouseover = nil
	}
	c.intersected = nil
	c.scene.RemoveItem(it)
	c.log.Debug("item deleted", "item", it.ID())
}

func (c *Controller) updateMouseover() {
	switch {
	case c.intersected != nil && c.mouseover != c.intersected:
		if c.mouseover != nil {
			c.mouseover.MouseOff()
		}
		c.mouseover = c.intersected
		c.mouseover.MouseOver(c.deleting)
	case c.intersected == nil && c.mouseover != nil:
		c.mouseover.MouseOff()
		c.mouseover = nil
	}
}

func (c *Controller) updateIntersections() {
	c.intersected = nil
	c.hitPart = PartBody
	if c.camera == nil {
		return
	}
	if hit, ok := c.scene.Pick(c.camera.Ray(c.mouseX, c.mouseY)); ok {
		c.intersected = hit.Item
		c.hitPart = hit.Part
	}
}

func (c *Controller) clickPressed() {
	if c.selected == nil {
		return
	}
	if hit, ok := c.groundHit(); ok {
		c.selected.ClickPressed(hit)
	}
}

func (c *Controller) groundHit() (v3.Vec, bool) {
	if c.camera == nil {
		return v3.Vec{}, false
	}
	return c.scene.GroundHit(c.camera.Ray(c.mouseX, c.mouseY))
}
