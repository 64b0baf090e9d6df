package gallery

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gallery/scenegraph"
)

func topDownRig(height float32) *CameraRig {
	pose := PoseFromYawPitch(mgl32.Vec3{0, height, 0}, 0, -math.Pi/2+1e-4)
	return NewCameraRig(pose, Projection{FovY: 35, Aspect: 1, Near: 0.1, Far: 10000})
}

func TestFloorPicker_OffScenePointsPickNone(t *testing.T) {
	scene := scenegraph.NewScene()
	scene.Add(scenegraph.NewMeshNode("floor", scenegraph.Plane(2, 2), scenegraph.TagFloor))
	picker := NewFloorPicker(scene)
	rig := topDownRig(10)

	// The 2x2 floor seen from 10 units up covers about |ndc| < 0.32.
	for x := float32(-1); x <= 1; x += 0.1 {
		for y := float32(-1); y <= 1; y += 0.1 {
			if abs32(x) < 0.4 && abs32(y) < 0.4 {
				continue
			}
			res := picker.Pick(x, y, rig)
			assert.False(t, res.Ok(), "ndc (%.1f, %.1f)", x, y)
			assert.Equal(t, PickEmpty, res.Outcome)
		}
	}
}

func TestFloorPicker_FloorHeight(t *testing.T) {
	scene := scenegraph.NewScene()
	floor := scenegraph.NewMeshNode("floor", scenegraph.Plane(2, 2), scenegraph.TagFloor)
	floor.Transform.Position = mgl32.Vec3{0, 0.25, 0}
	scene.Add(floor)
	picker := NewFloorPicker(scene)
	rig := topDownRig(10)

	for _, p := range [][2]float32{{0, 0}, {0.2, 0.1}, {-0.25, -0.2}, {0.1, -0.28}} {
		res := picker.Pick(p[0], p[1], rig)
		require.True(t, res.Ok(), "ndc %v", p)
		assert.InDelta(t, 0.25, res.Point.Y(), 1e-4)
		assert.Same(t, floor, res.Node)
	}
}

func TestFloorPicker_SkipsIgnoredMeshes(t *testing.T) {
	picker := NewFloorPicker(galleryScene())

	// From the room entrance toward the floor behind the volume light.
	ray := scenegraph.RayTowards(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{0, 0, -1})
	res := picker.PickRay(ray)
	require.True(t, res.Ok())
	assert.Equal(t, PickFloor, res.Outcome)
	assert.InDelta(t, 0, res.Point.Y(), 1e-4)
	assert.InDelta(t, -1, res.Point.Z(), 1e-3)
}

func TestFloorPicker_Occluded(t *testing.T) {
	picker := NewFloorPicker(galleryScene())

	ray := scenegraph.NewRay(mgl32.Vec3{2, 1.6, 5}, mgl32.Vec3{0, 0, -1})
	res := picker.PickRay(ray)
	assert.False(t, res.Ok())
	assert.Equal(t, PickOccluded, res.Outcome)
	assert.Equal(t, "wall", res.Node.Name)
	assert.InDelta(t, 9.9, res.Distance, 1e-3)
}

func TestFloorPicker_EmptyScene(t *testing.T) {
	res := NewFloorPicker(scenegraph.NewScene()).Pick(0, 0, testRig(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{}))
	assert.False(t, res.Ok())
	assert.Equal(t, PickEmpty, res.Outcome)
	assert.Equal(t, "empty", res.Outcome.String())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
