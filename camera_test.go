package gallery

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v", i, actual)
	}
}

func TestCameraPose_AlwaysNormalized(t *testing.T) {
	pose := NewCameraPose(mgl32.Vec3{}, mgl32.Quat{W: 2, V: mgl32.Vec3{0, 2, 0}})
	assert.InDelta(t, 1, pose.Orientation.Len(), 1e-6)

	rig := NewCameraRig(pose, DefaultProjection(800, 600))
	rig.SetOrientation(mgl32.Quat{W: 0.1, V: mgl32.Vec3{3, 0, 0}})
	assert.InDelta(t, 1, rig.Orientation().Len(), 1e-6)

	rig.SetPose(CameraPose{Orientation: mgl32.Quat{W: 5}})
	assert.InDelta(t, 1, rig.Orientation().Len(), 1e-6)
}

func TestCameraPose_YawPitchRoundTrip(t *testing.T) {
	tests := []struct {
		yaw, pitch float32
	}{
		{0, 0},
		{0.5, 0.2},
		{-2.5, -0.7},
		{3, 1.2},
	}
	for _, tt := range tests {
		pose := PoseFromYawPitch(mgl32.Vec3{}, tt.yaw, tt.pitch)
		yaw, pitch := pose.YawPitch()
		assert.InDelta(t, tt.yaw, yaw, 1e-4)
		assert.InDelta(t, tt.pitch, pitch, 1e-4)
		assert.InDelta(t, 0, pose.Right().Y(), 1e-5, "no roll")
	}
}

func TestCameraPose_Axes(t *testing.T) {
	pose := PoseFromYawPitch(mgl32.Vec3{}, 0, 0)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, pose.Forward(), 1e-6)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, pose.Right(), 1e-6)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, pose.Up(), 1e-6)
	assert.InDelta(t, math.Pi/2, pose.PolarAngle(), 1e-6)

	// A positive yaw turns left, toward -X.
	left := PoseFromYawPitch(mgl32.Vec3{}, math.Pi/2, 0)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, left.Forward(), 1e-5)
}

func TestLookAtPose(t *testing.T) {
	pose := LookAtPose(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{0, 1.6, 0})
	assertVec3(t, mgl32.Vec3{0, 0, -1}, pose.Forward(), 1e-5)

	pose = LookAtPose(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 0, -1})
	expected := mgl32.Vec3{3, -2, -4}.Normalize()
	assertVec3(t, expected, pose.Forward(), 1e-5)

	degenerate := LookAtPose(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.QuatIdent(), degenerate.Orientation)
}

func TestCameraRig_ScreenRay(t *testing.T) {
	rig := testRig(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{0, 1.6, 0})

	center := rig.ScreenRay(0, 0)
	assertVec3(t, rig.Position(), center.Origin, 1e-6)
	assertVec3(t, rig.Forward(), center.Direction, 1e-4)

	top := rig.ScreenRay(0, 1)
	angle := math.Acos(float64(top.Direction.Dot(center.Direction)))
	assert.InDelta(t, mgl32.DegToRad(17.5), angle, 1e-3)
	assert.Greater(t, top.Direction.Y(), float32(0))

	right := rig.ScreenRay(1, 0)
	assert.Greater(t, right.Direction.X(), float32(0))
}

func TestCameraRig_ProjectInvertsScreenRay(t *testing.T) {
	rig := testRig(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{0, 1.6, 0})

	for _, p := range [][2]float32{{0, 0}, {0.5, -0.3}, {-0.8, 0.7}} {
		ray := rig.ScreenRay(p[0], p[1])
		ndc, ok := rig.Project(ray.At(7))
		require.True(t, ok)
		assert.InDelta(t, p[0], ndc.X(), 1e-3)
		assert.InDelta(t, p[1], ndc.Y(), 1e-3)
	}

	_, ok := rig.Project(mgl32.Vec3{0, 1.6, 10})
	assert.False(t, ok, "behind the camera")
}

func TestCameraRig_SetViewportResizesSurfaces(t *testing.T) {
	rig := testRig(mgl32.Vec3{0, 1.6, 5}, mgl32.Vec3{})
	surface := &resizeRecorder{}
	rig.AddSurface(surface)

	rig.SetViewport(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, rig.Projection().Aspect, 1e-6)
	assert.Equal(t, [][2]int{{1920, 1080}}, surface.sizes)

	rig.SetViewport(0, 0)
	assert.Len(t, surface.sizes, 1, "minimised windows are ignored")
	assert.InDelta(t, 1920.0/1080.0, rig.Projection().Aspect, 1e-6)
}

func TestCameraRig_UpdateRefreshesMatrices(t *testing.T) {
	rig := testRig(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	before := rig.View()

	rig.SetPosition(mgl32.Vec3{1, 0, 0})
	rig.Update(0)
	after := rig.View()
	assert.NotEqual(t, before, after)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, after.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3(), 1e-6)
}
