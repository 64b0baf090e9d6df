// Package glfwwindow provides the desktop window and the raw input source backing the
// gallery input module.
package glfwwindow

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/gallery"
)

func init() {
	// glfw calls must come from the main thread.
	runtime.LockOSThread()
}

type Window struct {
	win   *glfw.Window
	wheel float64
}

// Open initialises glfw and creates a resizable window without a client API. The
// renderer attaches its own surface.
func Open(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("error initialising glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("error creating window: %w", err)
	}
	w := &Window{win: win}
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.wheel += yoff
	})
	return w, nil
}

// Handle exposes the glfw window so a renderer can create a surface for it.
func (w *Window) Handle() *glfw.Window {
	return w.win
}

func (w *Window) Poll(raw *gallery.RawInput) {
	w.wheel = 0
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		raw.Keys[key] = w.win.GetKey(glfwKey) == glfw.Press
	}
	for btn, glfwBtn := range buttonToGlfw {
		raw.Keys[btn] = w.win.GetMouseButton(glfwBtn) == glfw.Press
	}

	raw.MouseX, raw.MouseY = w.win.GetCursorPos()
	raw.WheelY = w.wheel
	raw.Width, raw.Height = w.win.GetSize()
	raw.CloseRequested = w.win.ShouldClose()
	raw.PointerLocked = w.win.GetInputMode(glfw.CursorMode) == glfw.CursorDisabled
}

func (w *Window) SetPointerLock(locked bool) {
	if locked {
		w.win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.win.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		return
	}
	if glfw.RawMouseMotionSupported() {
		w.win.SetInputMode(glfw.RawMouseMotion, glfw.False)
	}
	w.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

var buttonToGlfw = map[gallery.Key]glfw.MouseButton{
	gallery.MouseButtonLeft:   glfw.MouseButtonLeft,
	gallery.MouseButtonRight:  glfw.MouseButtonRight,
	gallery.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[gallery.Key]glfw.Key{
	gallery.KeyA:         glfw.KeyA,
	gallery.KeyB:         glfw.KeyB,
	gallery.KeyC:         glfw.KeyC,
	gallery.KeyD:         glfw.KeyD,
	gallery.KeyE:         glfw.KeyE,
	gallery.KeyF:         glfw.KeyF,
	gallery.KeyG:         glfw.KeyG,
	gallery.KeyH:         glfw.KeyH,
	gallery.KeyI:         glfw.KeyI,
	gallery.KeyJ:         glfw.KeyJ,
	gallery.KeyK:         glfw.KeyK,
	gallery.KeyL:         glfw.KeyL,
	gallery.KeyM:         glfw.KeyM,
	gallery.KeyN:         glfw.KeyN,
	gallery.KeyO:         glfw.KeyO,
	gallery.KeyP:         glfw.KeyP,
	gallery.KeyQ:         glfw.KeyQ,
	gallery.KeyR:         glfw.KeyR,
	gallery.KeyS:         glfw.KeyS,
	gallery.KeyT:         glfw.KeyT,
	gallery.KeyU:         glfw.KeyU,
	gallery.KeyV:         glfw.KeyV,
	gallery.KeyW:         glfw.KeyW,
	gallery.KeyX:         glfw.KeyX,
	gallery.KeyY:         glfw.KeyY,
	gallery.KeyZ:         glfw.KeyZ,
	gallery.Key0:         glfw.Key0,
	gallery.Key1:         glfw.Key1,
	gallery.Key2:         glfw.Key2,
	gallery.Key3:         glfw.Key3,
	gallery.Key4:         glfw.Key4,
	gallery.Key5:         glfw.Key5,
	gallery.Key6:         glfw.Key6,
	gallery.Key7:         glfw.Key7,
	gallery.Key8:         glfw.Key8,
	gallery.Key9:         glfw.Key9,
	gallery.KeySpace:     glfw.KeySpace,
	gallery.KeyEnter:     glfw.KeyEnter,
	gallery.KeyEscape:    glfw.KeyEscape,
	gallery.KeyTab:       glfw.KeyTab,
	gallery.KeyBackspace: glfw.KeyBackspace,
	gallery.KeyInsert:    glfw.KeyInsert,
	gallery.KeyDelete:    glfw.KeyDelete,
	gallery.KeyRight:     glfw.KeyRight,
	gallery.KeyLeft:      glfw.KeyLeft,
	gallery.KeyDown:      glfw.KeyDown,
	gallery.KeyUp:        glfw.KeyUp,
	gallery.KeyF1:        glfw.KeyF1,
	gallery.KeyF2:        glfw.KeyF2,
	gallery.KeyF3:        glfw.KeyF3,
	gallery.KeyF4:        glfw.KeyF4,
	gallery.KeyF5:        glfw.KeyF5,
	gallery.KeyF6:        glfw.KeyF6,
	gallery.KeyF7:        glfw.KeyF7,
	gallery.KeyF8:        glfw.KeyF8,
	gallery.KeyF9:        glfw.KeyF9,
	gallery.KeyF10:       glfw.KeyF10,
	gallery.KeyF11:       glfw.KeyF11,
	gallery.KeyF12:       glfw.KeyF12,
	gallery.KeyMinus:     glfw.KeyMinus,
	gallery.KeyEqual:     glfw.KeyEqual,
	gallery.KeyShift:     glfw.KeyLeftShift,
	gallery.KeyControl:   glfw.KeyLeftControl,
	gallery.KeyLeftAlt:   glfw.KeyLeftAlt,
}
