package interact

import "github.com/matzehuels/geomcloze/pkg/geom"

// Button identifies the button that changed in a pointer event.
type Button int8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Buttons is the set of buttons held during a pointer event.
type Buttons uint8

const (
	ButtonsLeft Buttons = 1 << iota
	ButtonsRight
	ButtonsMiddle
)

// Mods is the set of modifier keys held during an event.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m is held.
func (m Mods) Has(mod Mods) bool { return m&mod == mod }

// multi reports whether the multi-select modifier is held.
func (m Mods) multi() bool { return m&(ModCtrl|ModMeta) != 0 }

// PointerEvent is a pointer press, release or move in device coordinates.
type PointerEvent struct {
	X, Y    float64
	Button  Button
	Buttons Buttons
	Mods    Mods
}

func (ev PointerEvent) device() geom.Point { return geom.Pt(ev.X, ev.Y) }

// Key names understood by Editor.Key besides single characters.
const (
	KeyEscape    = "escape"
	KeyDelete    = "delete"
	KeyBackspace = "backspace"
)

// KeyEvent is a key press. Key is a lower case character or one of the Key
// constants.
type KeyEvent struct {
	Key  string
	Mods Mods
}

// Cursor is the pointer cursor the host should show.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorPointer
	CursorCrosshair
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorPointer:
		return "pointer"
	case CursorCrosshair:
		return "crosshair"
	default:
		return "default"
	}
}

// Viewport maps device coordinates to scene coordinates:
// scene = Offset + device * Scale, per axis.
type Viewport struct {
	Offset         geom.Point
	ScaleX, ScaleY float64
}

// Identity is the viewport of a host whose device and scene units agree.
var Identity = Viewport{ScaleX: 1, ScaleY: 1}

// ToScene maps a device coordinate into the scene.
func (v Viewport) ToScene(p geom.Point) geom.Point {
	return geom.Pt(v.Offset.X+p.X*v.ScaleX, v.Offset.Y+p.Y*v.ScaleY)
}

// ToDevice is the inverse of ToScene.
func (v Viewport) ToDevice(p geom.Point) geom.Point {
	return geom.Pt((p.X-v.Offset.X)/v.ScaleX, (p.Y-v.Offset.Y)/v.ScaleY)
}
