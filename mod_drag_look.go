package gallery

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HotspotHitTester finds the hotspot under a screen point.
type HotspotHitTester interface {
	HitTest(ndcX, ndcY float32) (*HotspotComponent, bool)
}

// DragLookController looks around while the left button is dragged. A double click
// opens the hotspot under the cursor or walks to the floor point under it, keeping
// eye height. A single click closes an open overlay.
type DragLookController struct {
	rig      *CameraRig
	input    *Input
	picker   *FloorPicker
	animator *TransitionAnimator
	hotspots HotspotHitTester
	overlay  *OverlayPresenter
	log      Logger

	Sensitivity float32
	Limits      PolarLimits
}

func NewDragLookController(
	rig *CameraRig,
	input *Input,
	picker *FloorPicker,
	animator *TransitionAnimator,
	hotspots HotspotHitTester,
	overlay *OverlayPresenter,
	log Logger,
) *DragLookController {
	if log == nil {
		log = NewNopLogger()
	}
	return &DragLookController{
		rig:         rig,
		input:       input,
		picker:      picker,
		animator:    animator,
		hotspots:    hotspots,
		overlay:     overlay,
		log:         log,
		Sensitivity: 0.003,
		Limits:      DefaultPolarLimits(),
	}
}

func (c *DragLookController) Update(dt float32) {
	in := c.input

	if in.Dragging && (in.MouseDeltaX != 0 || in.MouseDeltaY != 0) {
		if c.animator != nil {
			c.animator.CancelOrientation()
		}
		look(c.rig, in.MouseDeltaX, in.MouseDeltaY, c.Sensitivity, c.Limits)
	}

	switch {
	case in.DoubleClicked:
		c.activate(in.MouseNDC())
	case in.Clicked:
		if c.overlay != nil && c.overlay.IsOpen() {
			c.overlay.Close()
		}
	}
}

func (c *DragLookController) activate(x, y float32) {
	if c.hotspots != nil && c.overlay != nil {
		if h, ok := c.hotspots.HitTest(x, y); ok {
			c.log.Debugf("opening hotspot %q", h.Name)
			c.overlay.Show(h.Payload)
			return
		}
	}
	if c.picker == nil || c.animator == nil {
		return
	}
	res := c.picker.Pick(x, y, c.rig)
	if !res.Ok() {
		c.log.Debugf("no floor under cursor (%s)", res.Outcome)
		return
	}
	target := mgl32.Vec3{res.Point.X(), c.rig.Position().Y(), res.Point.Z()}
	c.log.Debugf("walking to %v", target)
	c.animator.MoveTo(target)
}
