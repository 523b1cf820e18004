package glfw

import (
	gglfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ComfyFluffy/rplace-2023/wsi"
)

// keyFrom translates a GLFW key code into a wsi.Key.
func keyFrom(code int) wsi.Key {
	k, ok := keymap[gglfw.Key(code)]
	if !ok {
		return wsi.KeyUnknown
	}
	return k
}

var keymap = map[gglfw.Key]wsi.Key{
	gglfw.KeyGraveAccent: wsi.KeyGrave,
	gglfw.Key1:           wsi.Key1,
	gglfw.Key2:           wsi.Key2,
	gglfw.Key3:           wsi.Key3,
	gglfw.Key4:           wsi.Key4,
	gglfw.Key5:           wsi.Key5,
	gglfw.Key6:           wsi.Key6,
	gglfw.Key7:           wsi.Key7,
	gglfw.Key8:           wsi.Key8,
	gglfw.Key9:           wsi.Key9,
	gglfw.Key0:           wsi.Key0,
	gglfw.KeyMinus:       wsi.KeyMinus,
	gglfw.KeyEqual:       wsi.KeyEqual,
	gglfw.KeyBackspace:   wsi.KeyBackspace,
	gglfw.KeyTab:         wsi.KeyTab,
	gglfw.KeyQ:           wsi.KeyQ,
	gglfw.KeyW:           wsi.KeyW,
	gglfw.KeyE:           wsi.KeyE,
	gglfw.KeyR:           wsi.KeyR,
	gglfw.KeyT:           wsi.KeyT,
	gglfw.KeyY:           wsi.KeyY,
	gglfw.KeyU:           wsi.KeyU,
	gglfw.KeyI:           wsi.KeyI,
	gglfw.KeyO:           wsi.KeyO,
	gglfw.KeyP:           wsi.KeyP,
	gglfw.KeyLeftBracket:  wsi.KeyLBracket,
	gglfw.KeyRightBracket: wsi.KeyRBracket,
	gglfw.KeyBackslash:    wsi.KeyBackslash,
	gglfw.KeyCapsLock:     wsi.KeyCapsLock,
	gglfw.KeyA:            wsi.KeyA,
	gglfw.KeyS:            wsi.KeyS,
	gglfw.KeyD:            wsi.KeyD,
	gglfw.KeyF:            wsi.KeyF,
	gglfw.KeyG:            wsi.KeyG,
	gglfw.KeyH:            wsi.KeyH,
	gglfw.KeyJ:            wsi.KeyJ,
	gglfw.KeyK:            wsi.KeyK,
	gglfw.KeyL:            wsi.KeyL,
	gglfw.KeySemicolon:    wsi.KeySemicolon,
	gglfw.KeyApostrophe:   wsi.KeyApostrophe,
	gglfw.KeyEnter:        wsi.KeyReturn,
	gglfw.KeyLeftShift:    wsi.KeyLShift,
	gglfw.KeyZ:            wsi.KeyZ,
	gglfw.KeyX:            wsi.KeyX,
	gglfw.KeyC:            wsi.KeyC,
	gglfw.KeyV:            wsi.KeyV,
	gglfw.KeyB:            wsi.KeyB,
	gglfw.KeyN:            wsi.KeyN,
	gglfw.KeyM:            wsi.KeyM,
	gglfw.KeyComma:        wsi.KeyComma,
	gglfw.KeyPeriod:       wsi.KeyDot,
	gglfw.KeySlash:        wsi.KeySlash,
	gglfw.KeyRightShift:   wsi.KeyRShift,
	gglfw.KeyLeftControl:  wsi.KeyLCtrl,
	gglfw.KeyLeftAlt:      wsi.KeyLAlt,
	gglfw.KeyLeftSuper:    wsi.KeyLMeta,
	gglfw.KeySpace:        wsi.KeySpace,
	gglfw.KeyRightSuper:   wsi.KeyRMeta,
	gglfw.KeyRightAlt:     wsi.KeyRAlt,
	gglfw.KeyRightControl: wsi.KeyRCtrl,
	gglfw.KeyEscape:       wsi.KeyEsc,
	gglfw.KeyF1:           wsi.KeyF1,
	gglfw.KeyF2:           wsi.KeyF2,
	gglfw.KeyF3:           wsi.KeyF3,
	gglfw.KeyF4:           wsi.KeyF4,
	gglfw.KeyF5:           wsi.KeyF5,
	gglfw.KeyF6:           wsi.KeyF6,
	gglfw.KeyF7:           wsi.KeyF7,
	gglfw.KeyF8:           wsi.KeyF8,
	gglfw.KeyF9:           wsi.KeyF9,
	gglfw.KeyF10:          wsi.KeyF10,
	gglfw.KeyF11:          wsi.KeyF11,
	gglfw.KeyF12:          wsi.KeyF12,
	gglfw.KeyInsert:       wsi.KeyInsert,
	gglfw.KeyDelete:       wsi.KeyDelete,
	gglfw.KeyHome:         wsi.KeyHome,
	gglfw.KeyEnd:          wsi.KeyEnd,
	gglfw.KeyPageUp:       wsi.KeyPageUp,
	gglfw.KeyPageDown:     wsi.KeyPageDown,
	gglfw.KeyUp:           wsi.KeyUp,
	gglfw.KeyDown:         wsi.KeyDown,
	gglfw.KeyLeft:         wsi.KeyLeft,
	gglfw.KeyRight:        wsi.KeyRight,
}
