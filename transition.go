package gallery

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode selects how the animator weights each frame's step toward the target.
type BlendMode int

const (
	// BlendExponential uses alpha = 1 - exp(-rate*dt) and converges at the same speed
	// at any frame rate.
	BlendExponential BlendMode = iota
	// BlendFrameDelta uses alpha = clamp(rate*dt, 0, 1). Convergence speed depends on
	// the frame rate. Kept for parity with the original walkthrough.
	BlendFrameDelta
)

func (m BlendMode) String() string {
	if m == BlendFrameDelta {
		return "framedelta"
	}
	return "exponential"
}

const (
	arrivalDistance = 1e-3
	arrivalAngle    = 1e-4
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float32) float32

func Linear(t float32) float32 { return t }

func EaseOutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

type tween struct {
	from     CameraPose
	to       CameraPose
	duration float32
	elapsed  float32
	easing   Easing
}

// TransitionAnimator blends the rig toward a position and/or orientation target, or
// plays a timed tween between two poses. A new target replaces the previous one.
type TransitionAnimator struct {
	rig  *CameraRig
	mode BlendMode
	rate float32

	position    *mgl32.Vec3
	orientation *mgl32.Quat
	tween       *tween
}

// NewTransitionAnimator returns an animator driving rig. A non-positive rate picks
// the mode default: 1 for frame-delta blending, 4 for exponential.
func NewTransitionAnimator(rig *CameraRig, mode BlendMode, rate float32) *TransitionAnimator {
	if rate <= 0 {
		rate = 4
		if mode == BlendFrameDelta {
			rate = 1
		}
	}
	return &TransitionAnimator{rig: rig, mode: mode, rate: rate}
}

func (a *TransitionAnimator) Mode() BlendMode { return a.mode }

// MoveTo sets the position target. Any running tween is dropped.
func (a *TransitionAnimator) MoveTo(position mgl32.Vec3) {
	a.tween = nil
	a.position = &position
}

// LookAt sets the orientation target. Any running tween is dropped.
func (a *TransitionAnimator) LookAt(orientation mgl32.Quat) {
	a.tween = nil
	o := orientation.Normalize()
	a.orientation = &o
}

// Tween animates from the current pose to pose over duration.
func (a *TransitionAnimator) Tween(pose CameraPose, duration time.Duration, easing Easing) {
	a.position = nil
	a.orientation = nil
	if easing == nil {
		easing = Linear
	}
	d := float32(duration.Seconds())
	if d <= 0 {
		a.tween = nil
		a.rig.SetPose(pose)
		return
	}
	a.tween = &tween{
		from:     a.rig.Pose(),
		to:       NewCameraPose(pose.Position, pose.Orientation),
		duration: d,
		easing:   easing,
	}
}

// Cancel stops every running transition, leaving the rig where it is.
func (a *TransitionAnimator) Cancel() {
	a.position = nil
	a.orientation = nil
	a.tween = nil
}

// CancelOrientation stops orientation blending so the user can look around. A tween
// keeps its position track as a plain position target.
func (a *TransitionAnimator) CancelOrientation() {
	a.orientation = nil
	if a.tween != nil {
		target := a.tween.to.Position
		a.tween = nil
		a.position = &target
	}
}

func (a *TransitionAnimator) Active() bool {
	return a.position != nil || a.orientation != nil || a.tween != nil
}

// Target returns the pending position target, if any.
func (a *TransitionAnimator) Target() (mgl32.Vec3, bool) {
	switch {
	case a.tween != nil:
		return a.tween.to.Position, true
	case a.position != nil:
		return *a.position, true
	}
	return mgl32.Vec3{}, false
}

func (a *TransitionAnimator) alpha(dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	if a.mode == BlendFrameDelta {
		return mgl32.Clamp(dt*a.rate, 0, 1)
	}
	return 1 - float32(math.Exp(float64(-a.rate*dt)))
}

func (a *TransitionAnimator) Update(dt float32) {
	if a.tween != nil {
		a.updateTween(dt)
		return
	}

	alpha := a.alpha(dt)
	if a.position != nil {
		current := a.rig.Position()
		next := current.Add(a.position.Sub(current).Mul(alpha))
		if next.Sub(*a.position).Len() <= arrivalDistance {
			next = *a.position
			a.position = nil
		}
		a.rig.SetPosition(next)
	}
	if a.orientation != nil {
		current := a.rig.Orientation()
		next := slerp(current, *a.orientation, alpha)
		if quatAngle(next, *a.orientation) <= arrivalAngle {
			next = *a.orientation
			a.orientation = nil
		}
		a.rig.SetOrientation(next)
	}
}

func (a *TransitionAnimator) updateTween(dt float32) {
	tw := a.tween
	tw.elapsed += dt
	t := mgl32.Clamp(tw.elapsed/tw.duration, 0, 1)
	e := tw.easing(t)

	pos := tw.from.Position.Add(tw.to.Position.Sub(tw.from.Position).Mul(e))
	rot := slerp(tw.from.Orientation, tw.to.Orientation, e)
	if t >= 1 {
		pos, rot = tw.to.Position, tw.to.Orientation
		a.tween = nil
	}
	a.rig.SetPose(CameraPose{Position: pos, Orientation: rot})
}

// slerp interpolates along the shorter arc.
func slerp(from, to mgl32.Quat, t float32) mgl32.Quat {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl32.QuatSlerp(from, to, t).Normalize()
}

// quatAngle is the rotation angle between two unit quaternions.
func quatAngle(a, b mgl32.Quat) float32 {
	d := a.Conjugate().Mul(b)
	w := math.Abs(float64(d.W))
	return float32(2 * math.Atan2(float64(d.V.Len()), w))
}
