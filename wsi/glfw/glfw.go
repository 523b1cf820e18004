// Package glfw provides a wsi backend built on top of GLFW, a
// cross-platform desktop windowing library. Importing this package
// for its side effect wires wsi.NewWindow, wsi.Dispatch and related
// package-level functions to a real, visible window.
package glfw

import (
	"errors"
	"fmt"
	"sync"

	gglfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ComfyFluffy/rplace-2023/wsi"
)

func init() {
	if err := gglfw.Init(); err != nil {
		// GLFW could not be initialized (e.g. headless build/CI
		// environment with no display). Leave wsi in its default
		// (None) state so callers get a clear error from NewWindow.
		return
	}
	Bind()
}

// Bind wires the package-level wsi functions to this backend. It is
// called automatically on import unless GLFW initialization fails.
func Bind() {
	wsi.Register(newWindow, dispatch, setAppName, wsi.Desktop)
}

type window struct {
	mu    sync.Mutex
	win   *gglfw.Window
	title string
}

func newWindow(width, height int, title string) (wsi.Window, error) {
	gglfw.WindowHint(gglfw.ClientAPI, gglfw.NoAPI)
	gglfw.WindowHint(gglfw.Visible, gglfw.False)
	gglfw.WindowHint(gglfw.Resizable, gglfw.True)

	w, err := gglfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw: %w: %v", wsi.ErrWSI, err)
	}
	win := &window{win: w, title: title}

	w.SetCloseCallback(func(_ *gglfw.Window) {
		if h := wsi.CurrentWindowHandler(); h != nil {
			h.WindowClose(win)
		}
	})
	w.SetSizeCallback(func(_ *gglfw.Window, nw, nh int) {
		if h := wsi.CurrentWindowHandler(); h != nil {
			h.WindowResize(win, nw, nh)
		}
	})
	w.SetKeyCallback(func(_ *gglfw.Window, key gglfw.Key, _ int, action gglfw.Action, mods gglfw.ModifierKey) {
		if action == gglfw.Repeat {
			return
		}
		if h := wsi.CurrentKeyboardHandler(); h != nil {
			h.KeyboardKey(keyFrom(int(key)), action == gglfw.Press, modFrom(mods))
		}
	})

	return win, nil
}

func (w *window) Map() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.Show()
	return nil
}

func (w *window) Unmap() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.Hide()
	return nil
}

func (w *window) Resize(width, height int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.SetSize(width, height)
	return nil
}

func (w *window) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.SetTitle(title)
	w.title = title
	return nil
}

func (w *window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.Destroy()
	wsi.CloseWindow(w)
}

func (w *window) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	width, _ := w.win.GetSize()
	return width
}

func (w *window) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, height := w.win.GetSize()
	return height
}

func (w *window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// Handle returns the underlying GLFW window, for use by a driver
// backend that needs a native surface handle.
func (w *window) Handle() *gglfw.Window {
	return w.win
}

// Handle extracts the native *glfw.Window from a wsi.Window created
// by this backend. It panics if win was not created by this package.
func Handle(win wsi.Window) *gglfw.Window {
	w, ok := win.(*window)
	if !ok {
		panic(errors.New("glfw: window was not created by this backend"))
	}
	return w.win
}

func dispatch() {
	gglfw.PollEvents()
}

func setAppName(string) {
	// GLFW has no concept of an application identifier distinct
	// from a window title; nothing to do.
}

func modFrom(mods gglfw.ModifierKey) wsi.Modifier {
	var m wsi.Modifier
	if mods&gglfw.ModShift != 0 {
		m |= wsi.ModShift
	}
	if mods&gglfw.ModControl != 0 {
		m |= wsi.ModCtrl
	}
	if mods&gglfw.ModAlt != 0 {
		m |= wsi.ModAlt
	}
	if mods&gglfw.ModCapsLock != 0 {
		m |= wsi.ModCapsLock
	}
	return m
}
