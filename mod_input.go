package gallery

import (
	"math"
	"time"
)

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	KeyCount
)

// RawInput is the platform snapshot for one frame. Sources overwrite every field.
type RawInput struct {
	Keys           [KeyCount]bool
	MouseX, MouseY float64
	// WheelY is the scroll accumulated since the previous poll.
	WheelY         float64
	Width, Height  int
	CloseRequested bool
	PointerLocked  bool
}

// InputSource is implemented by the platform layer (a window) or by tests.
type InputSource interface {
	Poll(raw *RawInput)
	SetPointerLock(locked bool)
}

type Input struct {
	Pressed      [KeyCount]bool
	JustPressed  [KeyCount]bool
	JustReleased [KeyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	Wheel                    float64

	// Clicked is set on the frame the left button is released without having
	// dragged further than the click slop.
	Clicked       bool
	DoubleClicked bool
	// Dragging is true while the left button is held and the cursor moved past
	// the click slop since the press.
	Dragging bool

	WindowWidth, WindowHeight int
	Resized                   bool
	CloseRequested            bool
	PointerLocked             bool

	lockRequest *bool
}

// RequestPointerLock asks the platform to capture or release the cursor at the
// start of the next frame.
func (input *Input) RequestPointerLock(locked bool) {
	input.lockRequest = &locked
}

// NDC converts a window pixel position to normalized device coordinates, y up.
func (input *Input) NDC(x, y float64) (float32, float32) {
	if input.WindowWidth <= 0 || input.WindowHeight <= 0 {
		return 0, 0
	}
	nx := 2*x/float64(input.WindowWidth) - 1
	ny := 1 - 2*y/float64(input.WindowHeight)
	return float32(nx), float32(ny)
}

// MouseNDC is NDC at the current cursor position.
func (input *Input) MouseNDC() (float32, float32) {
	return input.NDC(input.MouseX, input.MouseY)
}

type InputModule struct {
	Source InputSource
	// DoubleClick is the longest gap between two clicks of a double click.
	DoubleClick time.Duration
	// ClickSlop is the pixel distance a press may travel and still count as a click.
	ClickSlop float64
}

type inputState struct {
	source     InputSource
	raw        RawInput
	interval   time.Duration
	slop       float64
	polled     bool
	pressX     float64
	pressY     float64
	lastClick  time.Time
	lastClickX float64
	lastClickY float64
	haveClick  bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	interval := mod.DoubleClick
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	slop := mod.ClickSlop
	if slop <= 0 {
		slop = 5
	}
	cmd.AddResources(&Input{}, &inputState{
		source:   mod.Source,
		interval: interval,
		slop:     slop,
	})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(input *Input, state *inputState, t *Time) {
	if state.source == nil {
		return
	}
	if input.lockRequest != nil {
		state.source.SetPointerLock(*input.lockRequest)
		input.lockRequest = nil
	}

	prevW, prevH := input.WindowWidth, input.WindowHeight
	state.source.Poll(&state.raw)
	applyRawInput(input, state, &state.raw, t.Time)
	input.Resized = input.WindowWidth != prevW || input.WindowHeight != prevH
}

func applyRawInput(input *Input, state *inputState, raw *RawInput, now time.Time) {
	for key := Key(0); key < KeyCount; key++ {
		input.JustPressed[key] = false
		input.JustReleased[key] = false

		if raw.Keys[key] {
			if !input.Pressed[key] {
				input.JustPressed[key] = true
			}
			input.Pressed[key] = true
		} else {
			if input.Pressed[key] {
				input.JustReleased[key] = true
			}
			input.Pressed[key] = false
		}
	}

	if state.polled {
		input.MouseDeltaX = raw.MouseX - input.MouseX
		input.MouseDeltaY = raw.MouseY - input.MouseY
	} else {
		input.MouseDeltaX, input.MouseDeltaY = 0, 0
	}
	state.polled = true
	input.MouseX, input.MouseY = raw.MouseX, raw.MouseY
	input.Wheel = raw.WheelY

	input.WindowWidth, input.WindowHeight = raw.Width, raw.Height
	input.CloseRequested = raw.CloseRequested
	input.PointerLocked = raw.PointerLocked

	input.Clicked = false
	input.DoubleClicked = false

	if input.JustPressed[MouseButtonLeft] {
		state.pressX, state.pressY = input.MouseX, input.MouseY
		input.Dragging = false
	}
	if input.Pressed[MouseButtonLeft] && !input.Dragging &&
		distance(state.pressX, state.pressY, input.MouseX, input.MouseY) > state.slop {
		input.Dragging = true
	}
	if input.JustReleased[MouseButtonLeft] {
		if !input.Dragging {
			input.Clicked = true
		}
		input.Dragging = false
	}

	if input.Clicked {
		if state.haveClick && now.Sub(state.lastClick) <= state.interval &&
			distance(state.lastClickX, state.lastClickY, input.MouseX, input.MouseY) <= state.slop {
			input.DoubleClicked = true
			state.haveClick = false
		} else {
			state.haveClick = true
			state.lastClick = now
			state.lastClickX, state.lastClickY = input.MouseX, input.MouseY
		}
	}
}

func distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

// NavigationState holds the six movement flags read once per frame.
type NavigationState struct {
	MovingForward  bool
	MovingBackward bool
	StrafingLeft   bool
	StrafingRight  bool
	Ascending      bool
	Descending     bool
}

// NavigationStateFrom maps WASD, Space and Left-Control to movement flags.
func NavigationStateFrom(input *Input) NavigationState {
	return NavigationState{
		MovingForward:  input.Pressed[KeyW],
		MovingBackward: input.Pressed[KeyS],
		StrafingLeft:   input.Pressed[KeyA],
		StrafingRight:  input.Pressed[KeyD],
		Ascending:      input.Pressed[KeySpace],
		Descending:     input.Pressed[KeyControl],
	}
}

// Axes returns the per-axis binary velocity: x right, y up, z forward.
func (n NavigationState) Axes() (right, up, forward float32) {
	if n.StrafingRight {
		right++
	}
	if n.StrafingLeft {
		right--
	}
	if n.Ascending {
		up++
	}
	if n.Descending {
		up--
	}
	if n.MovingForward {
		forward++
	}
	if n.MovingBackward {
		forward--
	}
	return right, up, forward
}
