package display

import "github.com/hajimehoshi/ebiten/v2"

// macKeyCodes maps Ebitengine keys to macOS virtual key codes, which is
// what the server-side injector consumes.
var macKeyCodes = map[ebiten.Key]uint16{
	ebiten.KeyA: 0x00, ebiten.KeyS: 0x01, ebiten.KeyD: 0x02, ebiten.KeyF: 0x03,
	ebiten.KeyH: 0x04, ebiten.KeyG: 0x05, ebiten.KeyZ: 0x06, ebiten.KeyX: 0x07,
	ebiten.KeyC: 0x08, ebiten.KeyV: 0x09, ebiten.KeyB: 0x0B, ebiten.KeyQ: 0x0C,
	ebiten.KeyW: 0x0D, ebiten.KeyE: 0x0E, ebiten.KeyR: 0x0F, ebiten.KeyY: 0x10,
	ebiten.KeyT: 0x11, ebiten.Key1: 0x12, ebiten.Key2: 0x13, ebiten.Key3: 0x14,
	ebiten.Key4: 0x15, ebiten.Key6: 0x16, ebiten.Key5: 0x17, ebiten.Key9: 0x19,
	ebiten.Key7: 0x1A, ebiten.Key8: 0x1C, ebiten.Key0: 0x1D, ebiten.KeyO: 0x1F,
	ebiten.KeyU: 0x20, ebiten.KeyI: 0x22, ebiten.KeyP: 0x23, ebiten.KeyL: 0x25,
	ebiten.KeyJ: 0x26, ebiten.KeyK: 0x28, ebiten.KeyN: 0x2D, ebiten.KeyM: 0x2E,
	ebiten.KeyEnter: 0x24, ebiten.KeyTab: 0x30, ebiten.KeySpace: 0x31,
	ebiten.KeyBackspace: 0x33, ebiten.KeyEscape: 0x35,
	ebiten.KeyShift: 0x38, ebiten.KeyControl: 0x3B,
	ebiten.KeyAlt: 0x3A, ebiten.KeyMeta: 0x37,
	ebiten.KeyArrowLeft: 0x7B, ebiten.KeyArrowRight: 0x7C,
	ebiten.KeyArrowDown: 0x7D, ebiten.KeyArrowUp: 0x7E,
	ebiten.KeyF1: 0x7A, ebiten.KeyF2: 0x78, ebiten.KeyF3: 0x63, ebiten.KeyF4: 0x76,
	ebiten.KeyF5: 0x60, ebiten.KeyF6: 0x61, ebiten.KeyF7: 0x62, ebiten.KeyF8: 0x64,
	ebiten.KeyF9: 0x65, ebiten.KeyF10: 0x6D, ebiten.KeyF11: 0x67, ebiten.KeyF12: 0x6F,
	ebiten.KeyDelete: 0x75, ebiten.KeyHome: 0x73, ebiten.KeyEnd: 0x77,
	ebiten.KeyPageUp: 0x74, ebiten.KeyPageDown: 0x79,
}

// remoteKeyCode translates a local key press for the wire. Unmapped keys
// are dropped rather than sent as a bogus code.
func remoteKeyCode(k ebiten.Key) (uint16, bool) {
	code, ok := macKeyCodes[k]
	return code, ok
}
