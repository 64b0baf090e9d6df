package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gallery/scenegraph"
)

var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	localForward = mgl32.Vec3{0, 0, -1}
	localRight   = mgl32.Vec3{1, 0, 0}
)

// CameraPose is a camera position and a unit orientation. The camera looks down its
// local -Z axis with +Y up.
type CameraPose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

func NewCameraPose(position mgl32.Vec3, orientation mgl32.Quat) CameraPose {
	return CameraPose{Position: position, Orientation: orientation.Normalize()}
}

// LookAtPose returns a roll-free pose at position facing target.
func LookAtPose(position, target mgl32.Vec3) CameraPose {
	dir := target.Sub(position)
	if dir.Len() < 1e-6 {
		return NewCameraPose(position, mgl32.QuatIdent())
	}
	yaw, pitch := yawPitchOf(dir.Normalize())
	return PoseFromYawPitch(position, yaw, pitch)
}

// PoseFromYawPitch builds a pose from yaw about world +Y and pitch about the local
// X axis, both in radians. Zero yaw and pitch look down -Z.
func PoseFromYawPitch(position mgl32.Vec3, yaw, pitch float32) CameraPose {
	return NewCameraPose(position, yawPitchQuat(yaw, pitch))
}

func yawPitchQuat(yaw, pitch float32) mgl32.Quat {
	return mgl32.QuatRotate(yaw, worldUp).Mul(mgl32.QuatRotate(pitch, localRight))
}

func yawPitchOf(forward mgl32.Vec3) (yaw, pitch float32) {
	y := mgl32.Clamp(forward.Y(), -1, 1)
	pitch = float32(math.Asin(float64(y)))
	yaw = float32(math.Atan2(float64(-forward.X()), float64(-forward.Z())))
	return yaw, pitch
}

func (p CameraPose) Forward() mgl32.Vec3 {
	return p.Orientation.Rotate(localForward)
}

func (p CameraPose) Right() mgl32.Vec3 {
	return p.Orientation.Rotate(localRight)
}

func (p CameraPose) Up() mgl32.Vec3 {
	return p.Orientation.Rotate(worldUp)
}

// YawPitch extracts yaw and pitch in radians from the forward direction.
func (p CameraPose) YawPitch() (yaw, pitch float32) {
	return yawPitchOf(p.Forward())
}

// PolarAngle is the angle between the view direction and world +Y, in radians.
func (p CameraPose) PolarAngle() float32 {
	_, pitch := p.YawPitch()
	return math.Pi/2 - pitch
}

type Projection struct {
	// FovY is the vertical field of view in degrees.
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

func DefaultProjection(width, height int) Projection {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return Projection{FovY: 35, Aspect: aspect, Near: 0.1, Far: 10000}
}

func (p Projection) Matrix() mgl32.Mat4 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FovY), aspect, p.Near, p.Far)
}

// Surface is anything sized to the window, resized together with the camera aspect.
type Surface interface {
	Resize(width, height int)
}

// CameraRig owns the camera pose and caches the matrices derived from it.
type CameraRig struct {
	pose       CameraPose
	projection Projection

	dirty       bool
	view        mgl32.Mat4
	proj        mgl32.Mat4
	viewProj    mgl32.Mat4
	invViewProj mgl32.Mat4

	surfaces []Surface
}

func NewCameraRig(pose CameraPose, projection Projection) *CameraRig {
	rig := &CameraRig{
		pose:       NewCameraPose(pose.Position, pose.Orientation),
		projection: projection,
		dirty:      true,
	}
	rig.refresh()
	return rig
}

func (r *CameraRig) Pose() CameraPose {
	return r.pose
}

func (r *CameraRig) SetPose(pose CameraPose) {
	r.pose = NewCameraPose(pose.Position, pose.Orientation)
	r.dirty = true
}

func (r *CameraRig) Position() mgl32.Vec3 {
	return r.pose.Position
}

func (r *CameraRig) SetPosition(position mgl32.Vec3) {
	r.pose.Position = position
	r.dirty = true
}

func (r *CameraRig) Orientation() mgl32.Quat {
	return r.pose.Orientation
}

func (r *CameraRig) SetOrientation(orientation mgl32.Quat) {
	r.pose.Orientation = orientation.Normalize()
	r.dirty = true
}

func (r *CameraRig) Forward() mgl32.Vec3 { return r.pose.Forward() }
func (r *CameraRig) Right() mgl32.Vec3   { return r.pose.Right() }
func (r *CameraRig) Up() mgl32.Vec3      { return r.pose.Up() }

func (r *CameraRig) YawPitch() (yaw, pitch float32) {
	return r.pose.YawPitch()
}

func (r *CameraRig) SetYawPitch(yaw, pitch float32) {
	r.SetOrientation(yawPitchQuat(yaw, pitch))
}

func (r *CameraRig) Projection() Projection {
	return r.projection
}

func (r *CameraRig) SetProjection(p Projection) {
	r.projection = p
	r.dirty = true
}

// AddSurface registers a surface resized by SetViewport.
func (r *CameraRig) AddSurface(s Surface) {
	r.surfaces = append(r.surfaces, s)
}

// SetViewport recomputes the aspect ratio and resizes every registered surface.
// Degenerate sizes (a minimized window) are ignored.
func (r *CameraRig) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.projection.Aspect = float32(width) / float32(height)
	r.dirty = true
	for _, s := range r.surfaces {
		s.Resize(width, height)
	}
}

// Update refreshes the cached matrices.
func (r *CameraRig) Update(dt float32) {
	r.refresh()
}

func (r *CameraRig) refresh() {
	if !r.dirty {
		return
	}
	eye := r.pose.Position
	r.view = mgl32.LookAtV(eye, eye.Add(r.pose.Forward()), r.pose.Up())
	r.proj = r.projection.Matrix()
	r.viewProj = r.proj.Mul4(r.view)
	r.invViewProj = r.viewProj.Inv()
	r.dirty = false
}

func (r *CameraRig) View() mgl32.Mat4 {
	r.refresh()
	return r.view
}

func (r *CameraRig) ProjectionMatrix() mgl32.Mat4 {
	r.refresh()
	return r.proj
}

func (r *CameraRig) ViewProjection() mgl32.Mat4 {
	r.refresh()
	return r.viewProj
}

// ScreenRay returns the world ray from the camera through a point given in normalized
// device coordinates (x right, y up, both in [-1, 1]).
func (r *CameraRig) ScreenRay(ndcX, ndcY float32) scenegraph.Ray {
	r.refresh()
	far := mgl32.Vec4{ndcX, ndcY, 1, 1}
	world := r.invViewProj.Mul4x1(far)
	if world.W() != 0 {
		world = world.Mul(1 / world.W())
	}
	return scenegraph.RayTowards(r.pose.Position, world.Vec3())
}

// Project maps a world point to normalized device coordinates. ok is false for points
// behind the camera or outside the view volume.
func (r *CameraRig) Project(world mgl32.Vec3) (ndc mgl32.Vec3, ok bool) {
	r.refresh()
	clip := r.viewProj.Mul4x1(world.Vec4(1))
	if clip.W() <= 1e-6 {
		return mgl32.Vec3{}, false
	}
	ndc = clip.Vec3().Mul(1 / clip.W())
	inside := ndc.X() >= -1 && ndc.X() <= 1 && ndc.Y() >= -1 && ndc.Y() <= 1 && ndc.Z() >= -1 && ndc.Z() <= 1
	return ndc, inside
}
