package input

// USB HID scancodes, which is what SDL reports in Keysym.Scancode. Kept as
// plain ints so this package stays free of cgo.
const (
	scancodeA     = 4
	scancodeD     = 7
	scancodeS     = 22
	scancodeW     = 26
	scancodeRight = 79
	scancodeLeft  = 80
	scancodeDown  = 81
	scancodeUp    = 82
)

// KeyForScancode maps WASD and the arrow keys to movement keys. Scancodes
// follow physical position, so WASD works on any keyboard layout.
func KeyForScancode(code int) (Key, bool) {
	switch code {
	case scancodeW, scancodeUp:
		return KeyForward, true
	case scancodeS, scancodeDown:
		return KeyBack, true
	case scancodeA, scancodeLeft:
		return KeyLeft, true
	case scancodeD, scancodeRight:
		return KeyRight, true
	}
	return 0, false
}
