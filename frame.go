package gallery

import (
	"github.com/gekko3d/gallery/scenegraph"
)

// Updatable is implemented by everything that advances once per frame.
type Updatable interface {
	Update(dt float32)
}

// UpdateFunc adapts a plain function to Updatable.
type UpdateFunc func(dt float32)

func (f UpdateFunc) Update(dt float32) { f(dt) }

// Phase orders updatables within a frame. Lower phases run first.
type Phase int

const (
	PhaseNavigation Phase = iota
	PhaseTransition
	PhaseVisibility
	PhasePresentation

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseNavigation:
		return "navigation"
	case PhaseTransition:
		return "transition"
	case PhaseVisibility:
		return "visibility"
	case PhasePresentation:
		return "presentation"
	}
	return "unknown"
}

// RenderHook draws a frame. Rendering itself lives outside this module.
type RenderHook interface {
	Render(scene *scenegraph.Scene, rig *CameraRig)
}

// FrameDriver runs registered updatables in phase order, then registration order,
// and finally hands the frame to the render hook.
type FrameDriver struct {
	phases [phaseCount][]Updatable
	scene  *scenegraph.Scene
	rig    *CameraRig
	hook   RenderHook
}

func NewFrameDriver(scene *scenegraph.Scene, rig *CameraRig) *FrameDriver {
	return &FrameDriver{scene: scene, rig: rig}
}

func (d *FrameDriver) Register(phase Phase, u Updatable) {
	if phase < 0 || phase >= phaseCount {
		phase = PhasePresentation
	}
	d.phases[phase] = append(d.phases[phase], u)
}

func (d *FrameDriver) SetRenderHook(hook RenderHook) {
	d.hook = hook
}

func (d *FrameDriver) Tick(dt float32) {
	for _, phase := range d.phases {
		for _, u := range phase {
			u.Update(dt)
		}
	}
}

// Render calls the render hook, if any.
func (d *FrameDriver) Render() {
	if d.hook != nil {
		d.hook.Render(d.scene, d.rig)
	}
}
