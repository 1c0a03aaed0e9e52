package interact

import "github.com/matzehuels/geomcloze/pkg/scene"

var modeKeys = map[string]scene.Mode{
	"s": scene.ModeSelect,
	"c": scene.ModeCreate,
	"d": scene.ModeDivider,
}

// Key handles a key press and reports whether it was consumed.
func (e *Editor) Key(ev KeyEvent) bool {
	if ev.Mods.multi() {
		if ev.Key == "a" && e.scene.Mode() == scene.ModeSelect {
			e.SelectAll()
			return true
		}
		return false
	}
	if m, ok := modeKeys[ev.Key]; ok {
		e.SetMode(m)
		return true
	}
	switch ev.Key {
	case KeyEscape:
		e.escape()
		return true
	case KeyDelete, KeyBackspace:
		e.DeleteSelection()
		return true
	}
	return false
}

// escape cancels whatever is in progress and returns to select mode. With
// nothing in progress it clears the selection.
func (e *Editor) escape() {
	busy := e.gesture != nil || e.scene.Creating() != 0 || e.scene.Ghost() != nil
	if !busy {
		e.BlurAll()
		return
	}
	e.Cancel()
	e.endChain()
	e.SetMode(scene.ModeSelect)
}
