package gallery

import (
	"fmt"
	"time"
)

const (
	TourAdvanceKey = KeyN
	PoseDumpKey    = KeyP
)

// TourController steps through authored waypoints and dumps the current pose for
// authoring new ones.
type TourController struct {
	rig      *CameraRig
	input    *Input
	animator *TransitionAnimator
	log      Logger

	Duration time.Duration
	Easing   Easing

	waypoints []Waypoint
	index     int
	dumps     int
}

func NewTourController(rig *CameraRig, input *Input, animator *TransitionAnimator, log Logger) *TourController {
	if log == nil {
		log = NewNopLogger()
	}
	return &TourController{
		rig:      rig,
		input:    input,
		animator: animator,
		log:      log,
		Duration: 2 * time.Second,
		Easing:   EaseInOutCubic,
		index:    -1,
	}
}

// SetWaypoints replaces the tour. The next advance starts from the first waypoint
// unless the current index is still valid.
func (t *TourController) SetWaypoints(waypoints []Waypoint) {
	t.waypoints = waypoints
	if t.index >= len(waypoints) {
		t.index = -1
	}
}

func (t *TourController) Waypoints() []Waypoint {
	return t.waypoints
}

// Index is the current waypoint, -1 before the first advance.
func (t *TourController) Index() int {
	return t.index
}

func (t *TourController) Update(dt float32) {
	if t.input.JustPressed[TourAdvanceKey] {
		t.Advance()
	}
	if t.input.JustPressed[PoseDumpKey] {
		t.DumpPose()
	}
}

// Advance tweens to the next waypoint, wrapping after the last.
func (t *TourController) Advance() bool {
	if len(t.waypoints) == 0 {
		t.log.Infof("tour has no waypoints")
		return false
	}
	t.index = (t.index + 1) % len(t.waypoints)
	wp := t.waypoints[t.index]
	t.log.Infof("tour waypoint %d/%d %q", t.index+1, len(t.waypoints), wp.Name)
	t.animator.Tween(wp.Pose(), t.Duration, t.Easing)
	return true
}

// DumpPose logs the rig pose as an exhibit waypoint and returns the TOML text.
func (t *TourController) DumpPose() string {
	t.dumps++
	wp := WaypointFromPose(fmt.Sprintf("waypoint-%d", t.dumps), t.rig.Pose())
	out, err := MarshalWaypoint(wp)
	if err != nil {
		t.log.Errorf("error encoding pose: %v", err)
		return ""
	}
	t.log.Infof("current pose:\n%s", out)
	return out
}
