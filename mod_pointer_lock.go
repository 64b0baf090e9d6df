package gallery

type PointerLockState int

const (
	Unlocked PointerLockState = iota
	Locked
)

func (s PointerLockState) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

// PointerLockController is first person navigation: a click captures the cursor, raw
// mouse motion turns the camera and WASD, Space and Left-Control move it.
type PointerLockController struct {
	rig      *CameraRig
	input    *Input
	animator *TransitionAnimator
	log      Logger

	Speed       float32
	Sensitivity float32
	Limits      PolarLimits

	state          PointerLockState
	platformLocked bool
}

func NewPointerLockController(rig *CameraRig, input *Input, animator *TransitionAnimator, log Logger) *PointerLockController {
	if log == nil {
		log = NewNopLogger()
	}
	return &PointerLockController{
		rig:         rig,
		input:       input,
		animator:    animator,
		log:         log,
		Speed:       3,
		Sensitivity: 0.003,
		Limits:      DefaultPolarLimits(),
	}
}

func (c *PointerLockController) State() PointerLockState {
	return c.state
}

func (c *PointerLockController) Update(dt float32) {
	in := c.input

	switch c.state {
	case Unlocked:
		if in.Clicked {
			c.lock()
		}
		c.platformLocked = in.PointerLocked
		return
	case Locked:
		released := c.platformLocked && !in.PointerLocked
		c.platformLocked = in.PointerLocked
		if in.JustPressed[KeyEscape] || released {
			c.unlock(!released)
			return
		}
	}

	if in.MouseDeltaX != 0 || in.MouseDeltaY != 0 {
		if c.animator != nil {
			c.animator.CancelOrientation()
		}
		look(c.rig, in.MouseDeltaX, in.MouseDeltaY, c.Sensitivity, c.Limits)
	}

	right, up, forward := NavigationStateFrom(in).Axes()
	if right == 0 && up == 0 && forward == 0 {
		return
	}
	if c.animator != nil {
		c.animator.Cancel()
	}
	step := c.Speed * dt
	move := c.rig.Forward().Mul(forward).
		Add(c.rig.Right().Mul(right)).
		Add(c.rig.Up().Mul(up))
	c.rig.SetPosition(c.rig.Position().Add(move.Mul(step)))
}

func (c *PointerLockController) lock() {
	c.state = Locked
	c.input.RequestPointerLock(true)
	c.log.Debugf("pointer locked")
}

func (c *PointerLockController) unlock(release bool) {
	c.state = Unlocked
	if release {
		c.input.RequestPointerLock(false)
	}
	c.log.Debugf("pointer unlocked")
}
