package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PolarLimits bound the view direction's angle from world +Y, in radians. A polar
// angle of 0 looks straight up, pi/2 at the horizon, pi straight down.
type PolarLimits struct {
	Min float32
	Max float32
}

const polarEpsilon = 1e-3

func DefaultPolarLimits() PolarLimits {
	return PolarLimits{Min: polarEpsilon, Max: math.Pi - polarEpsilon}
}

// PolarLimitsDegrees converts a degree range, falling back to the full range when it
// is empty.
func PolarLimitsDegrees(min, max float32) PolarLimits {
	return PolarLimits{Min: mgl32.DegToRad(min), Max: mgl32.DegToRad(max)}.sanitized()
}

func (l PolarLimits) sanitized() PolarLimits {
	if l.Max <= l.Min {
		return DefaultPolarLimits()
	}
	l.Min = mgl32.Clamp(l.Min, polarEpsilon, math.Pi-polarEpsilon)
	l.Max = mgl32.Clamp(l.Max, polarEpsilon, math.Pi-polarEpsilon)
	return l
}

// PitchRange converts the polar range to a pitch range.
func (l PolarLimits) PitchRange() (min, max float32) {
	return math.Pi/2 - l.Max, math.Pi/2 - l.Min
}

func (l PolarLimits) ClampPitch(pitch float32) float32 {
	lo, hi := l.PitchRange()
	return mgl32.Clamp(pitch, lo, hi)
}

// look turns the rig by a pixel delta. Moving the mouse right turns right and moving
// it down looks down.
func look(rig *CameraRig, dx, dy float64, sensitivity float32, limits PolarLimits) {
	if dx == 0 && dy == 0 {
		return
	}
	yaw, pitch := rig.YawPitch()
	yaw -= float32(dx) * sensitivity
	pitch -= float32(dy) * sensitivity
	rig.SetYawPitch(wrapAngle(yaw), limits.ClampPitch(pitch))
}

func wrapAngle(a float32) float32 {
	w := math.Mod(float64(a)+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return float32(w - math.Pi)
}
