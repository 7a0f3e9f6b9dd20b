package evdev

// Scancode is this backend's platform-independent key identifier,
// produced by translating a kernel keycode through keycodeTable.
type Scancode uint32

// A representative subset of scancodes, covering what a handheld game
// console's keyboard-shaped input (d-pad, face buttons mapped to a
// keyboard matrix, or an attached USB keyboard for development) would
// plausibly send. Unknown kernel keycodes are silently ignored rather
// than growing this table without bound.
const (
	ScancodeUnknown Scancode = iota
	ScancodeA
	ScancodeB
	ScancodeC
	ScancodeD
	ScancodeE
	ScancodeF
	ScancodeG
	ScancodeH
	ScancodeI
	ScancodeJ
	ScancodeK
	ScancodeL
	ScancodeM
	ScancodeN
	ScancodeO
	ScancodeP
	ScancodeQ
	ScancodeR
	ScancodeS
	ScancodeT
	ScancodeU
	ScancodeV
	ScancodeW
	ScancodeX
	ScancodeY
	ScancodeZ
	Scancode0
	Scancode1
	Scancode2
	Scancode3
	Scancode4
	Scancode5
	Scancode6
	Scancode7
	Scancode8
	Scancode9
	ScancodeReturn
	ScancodeEscape
	ScancodeBackspace
	ScancodeTab
	ScancodeSpace
	ScancodeLeftCtrl
	ScancodeLeftShift
	ScancodeLeftAlt
	ScancodeRightCtrl
	ScancodeRightShift
	ScancodeRightAlt
	ScancodeUp
	ScancodeDown
	ScancodeLeft
	ScancodeRight
)

// Linux keycodes from <linux/input-event-codes.h>. Only the ones this
// backend translates are named; the rest fall through keycodeTable's
// "not found" case and are dropped.
const (
	keyEsc        = 1
	key1          = 2
	key2          = 3
	key3          = 4
	key4          = 5
	key5          = 6
	key6          = 7
	key7          = 8
	key8          = 9
	key9          = 10
	key0          = 11
	keyBackspace  = 14
	keyTab        = 15
	keyQ          = 16
	keyW          = 17
	keyE          = 18
	keyR          = 19
	keyT          = 20
	keyY          = 21
	keyU          = 22
	keyI          = 23
	keyO          = 24
	keyP          = 25
	keyEnter      = 28
	keyLeftCtrl   = 29
	keyA          = 30
	keyS          = 31
	keyD          = 32
	keyF          = 33
	keyG          = 34
	keyH          = 35
	keyJ          = 36
	keyK          = 37
	keyL          = 38
	keyLeftShift  = 42
	keyZ          = 44
	keyX          = 45
	keyC          = 46
	keyV          = 47
	keyB          = 48
	keyN          = 49
	keyM          = 50
	keyRightShift = 54
	keyLeftAlt    = 56
	keySpace      = 57
	keyRightCtrl  = 97
	keyRightAlt   = 100
	keyUp         = 103
	keyLeft       = 105
	keyRight      = 106
	keyDown       = 108

	// keyBtnTouch is the kernel's pseudo-key for touch contact on a
	// touchscreen device; it is EV_KEY and would otherwise collide with
	// scancode translation, so it is explicitly ignored.
	keyBtnTouch = 0x14a
)

var keycodeTable = map[uint16]Scancode{
	keyA: ScancodeA, keyB: ScancodeB, keyC: ScancodeC, keyD: ScancodeD,
	keyE: ScancodeE, keyF: ScancodeF, keyG: ScancodeG, keyH: ScancodeH,
	keyI: ScancodeI, keyJ: ScancodeJ, keyK: ScancodeK, keyL: ScancodeL,
	keyM: ScancodeM, keyN: ScancodeN, keyO: ScancodeO, keyP: ScancodeP,
	keyQ: ScancodeQ, keyR: ScancodeR, keyS: ScancodeS, keyT: ScancodeT,
	keyU: ScancodeU, keyV: ScancodeV, keyW: ScancodeW, keyX: ScancodeX,
	keyY: ScancodeY, keyZ: ScancodeZ,

	key0: Scancode0, key1: Scancode1, key2: Scancode2, key3: Scancode3,
	key4: Scancode4, key5: Scancode5, key6: Scancode6, key7: Scancode7,
	key8: Scancode8, key9: Scancode9,

	keyEnter:      ScancodeReturn,
	keyEsc:        ScancodeEscape,
	keyBackspace:  ScancodeBackspace,
	keyTab:        ScancodeTab,
	keySpace:      ScancodeSpace,
	keyLeftCtrl:   ScancodeLeftCtrl,
	keyLeftShift:  ScancodeLeftShift,
	keyLeftAlt:    ScancodeLeftAlt,
	keyRightCtrl:  ScancodeRightCtrl,
	keyRightShift: ScancodeRightShift,
	keyRightAlt:   ScancodeRightAlt,
	keyUp:         ScancodeUp,
	keyDown:       ScancodeDown,
	keyLeft:       ScancodeLeft,
	keyRight:      ScancodeRight,
}

// translateKeycode maps a kernel keycode to a Scancode. It returns
// (ScancodeUnknown, false) for anything not in the table, including
// keyBtnTouch, which is never translated into a key event.
func translateKeycode(code uint16) (Scancode, bool) {
	if code == keyBtnTouch {
		return ScancodeUnknown, false
	}
	sc, ok := keycodeTable[code]
	return sc, ok
}
