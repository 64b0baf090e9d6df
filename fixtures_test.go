package gallery

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gallery/scenegraph"
)

// scriptedInput is an InputSource whose next snapshot is set by the test.
type scriptedInput struct {
	next       RawInput
	lockCalls  []bool
	lockFollow bool
}

func newScriptedInput(width, height int) *scriptedInput {
	return &scriptedInput{next: RawInput{Width: width, Height: height}, lockFollow: true}
}

func (s *scriptedInput) Poll(raw *RawInput) {
	*raw = s.next
	s.next.WheelY = 0
}

func (s *scriptedInput) SetPointerLock(locked bool) {
	s.lockCalls = append(s.lockCalls, locked)
	if s.lockFollow {
		s.next.PointerLocked = locked
	}
}

type recordingSink struct {
	mounted   []*OverlayPanel
	unmounted []*OverlayPanel
}

func (r *recordingSink) Mount(p *OverlayPanel)   { r.mounted = append(r.mounted, p) }
func (r *recordingSink) Unmount(p *OverlayPanel) { r.unmounted = append(r.unmounted, p) }

type countingRenderer struct {
	frames int
	last   CameraPose
}

func (c *countingRenderer) Render(scene *scenegraph.Scene, rig *CameraRig) {
	c.frames++
	c.last = rig.Pose()
}

type resizeRecorder struct {
	sizes [][2]int
}

func (r *resizeRecorder) Resize(w, h int) {
	r.sizes = append(r.sizes, [2]int{w, h})
}

// galleryRoot builds a small room: a 20x20 floor at y=0, a back wall at z=-5, a
// volume light in the middle of the room and one hotspot anchor in front of the wall.
func galleryRoot() *scenegraph.Node {
	root := scenegraph.NewNode("gallery")

	floor := scenegraph.NewMeshNode("floor", scenegraph.Plane(20, 20), scenegraph.TagFloor)

	wall := scenegraph.NewMeshNode("wall", scenegraph.Box(20, 4, 0.2), 0)
	wall.Transform.Position = mgl32.Vec3{0, 2, -5}

	light := scenegraph.NewMeshNode("Material.004", scenegraph.Box(1, 4, 1), scenegraph.TagIgnore)
	light.Transform.Position = mgl32.Vec3{0, 2, 0}

	anchor := scenegraph.NewNode("Point_Monet")
	anchor.Tags = scenegraph.TagHotspot
	anchor.Transform.Position = mgl32.Vec3{0, 1.5, -4.8}

	root.Add(floor, wall, light, anchor)
	return root
}

func galleryScene() *scenegraph.Scene {
	scene := scenegraph.NewScene()
	scene.Add(galleryRoot())
	return scene
}

func testRig(pos, target mgl32.Vec3) *CameraRig {
	return NewCameraRig(LookAtPose(pos, target), DefaultProjection(800, 600))
}
