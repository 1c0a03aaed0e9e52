package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/interact"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// newTestEditor returns a model on a 400x200 scene shown in a 40x10 cell
// canvas, so one cell is 10x20 scene units.
func newTestEditor(t *testing.T, path string) (*EditorModel, *scene.Scene) {
	t.Helper()
	s := scene.New(scene.WithSize(400, 200))
	ed := interact.New(s)
	m := NewEditorModel(s, ed, path, 30)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10 + statusRows})
	return m, s
}

func press(m *EditorModel, key string) {
	switch key {
	case "esc":
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	case "enter":
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "down":
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	case "ctrl+s":
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	default:
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func clickCell(m *EditorModel, col, row int, b tea.MouseButton) {
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: b})
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: b})
}

func TestEditorViewport(t *testing.T) {
	m, _ := newTestEditor(t, "")
	v := m.editor.Viewport()
	if v.ScaleX != 10 || v.ScaleY != 20 {
		t.Fatalf("viewport scale = %g,%g, want 10,20", v.ScaleX, v.ScaleY)
	}
	if got := v.ToScene(geom.Pt(0, 0)); got != geom.Pt(5, 10) {
		t.Errorf("cell 0,0 maps to %v, want its center (5,10)", got)
	}
}

func TestEditorModeKeys(t *testing.T) {
	m, s := newTestEditor(t, "")
	for _, tt := range []struct {
		key  string
		want scene.Mode
	}{
		{"c", scene.ModeCreate},
		{"d", scene.ModeDivider},
		{"s", scene.ModeSelect},
	} {
		press(m, tt.key)
		if s.Mode() != tt.want {
			t.Errorf("after %q mode = %s, want %s", tt.key, s.Mode(), tt.want)
		}
	}
	if !strings.Contains(m.statusLine(), "select") {
		t.Errorf("status line does not show the mode: %q", m.statusLine())
	}
}

func TestEditorCreateWithMouse(t *testing.T) {
	m, s := newTestEditor(t, "")
	press(m, "c")

	clickCell(m, 9, 4, tea.MouseButtonLeft)  // (95,90) snaps to (100,100)
	clickCell(m, 29, 4, tea.MouseButtonLeft) // (295,90) snaps to (300,100)

	shapes := s.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	want := []geom.Point{geom.Pt(100, 100), geom.Pt(300, 100)}
	got := shapes[0].Polygon()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("polygon = %v, want %v", got, want)
	}
	if s.Creating() == 0 {
		t.Error("chain should still be open")
	}

	press(m, "esc")
	if s.Creating() != 0 {
		t.Error("escape should end the chain")
	}
	if s.Mode() != scene.ModeSelect {
		t.Errorf("mode after escape = %s, want select", s.Mode())
	}

	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.View(), "─") {
		t.Errorf("canvas does not show the line:\n%s", m.surf.Plain())
	}
}

func TestEditorContextMenu(t *testing.T) {
	m, s := newTestEditor(t, "")
	if s.ShowGrid() {
		t.Fatal("grid should start hidden")
	}

	clickCell(m, 39, 0, tea.MouseButtonRight)
	if m.menu == nil {
		t.Fatal("right click on empty space should open the scene menu")
	}
	if !strings.Contains(m.View(), "Show grid") {
		t.Errorf("menu view missing entry:\n%s", m.View())
	}

	idx := -1
	for i, e := range m.menu {
		if e.label == "Show grid" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("no Show grid entry in %v", m.menu)
	}
	for i := 0; i < idx; i++ {
		press(m, "down")
	}
	press(m, "enter")

	if m.menu != nil {
		t.Error("choosing an entry should close the menu")
	}
	if !s.ShowGrid() {
		t.Error("Show grid entry did not toggle the grid")
	}
}

func TestEditorHelp(t *testing.T) {
	m, s := newTestEditor(t, "")
	press(m, "?")
	if !strings.Contains(m.View(), "ctrl+s") {
		t.Errorf("help view missing key list:\n%s", m.View())
	}
	press(m, "c")
	if m.help {
		t.Error("any key should close help")
	}
	if s.Mode() != scene.ModeSelect {
		t.Error("the key closing help should not reach the editor")
	}
}

func TestEditorSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	m, s := newTestEditor(t, path)
	sh := s.MustCreatePolygon([]geom.Point{geom.Pt(50, 50), geom.Pt(150, 50), geom.Pt(100, 150)})
	s.AddChild(sh)
	s.FlushUpdates()
	if !m.Modified() {
		t.Fatal("change should mark the model modified")
	}

	press(m, "ctrl+s")
	if m.Modified() {
		t.Error("save should clear the modified flag")
	}
	doc, err := sceneio.ImportJSON(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if len(doc.Children) != 1 {
		t.Errorf("saved %d children, want 1", len(doc.Children))
	}
}

func TestEditorTickRedraws(t *testing.T) {
	m, s := newTestEditor(t, "")
	sh := s.MustCreatePolygon([]geom.Point{geom.Pt(50, 50), geom.Pt(150, 50), geom.Pt(100, 150)})
	s.AddChild(sh)

	_, cmd := m.Update(tickMsg(time.Now().Add(time.Second)))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if s.Dirty() {
		t.Error("a due tick should redraw the scene")
	}
}

func TestFlattenMenu(t *testing.T) {
	called := ""
	items := []scene.MenuItem{
		{Kind: scene.MenuSubmenu, Label: "Mode", Items: []scene.MenuItem{
			{Kind: scene.MenuCheckbox, Label: "select", Checked: true, Action: func() { called = "select" }},
		}},
		{Kind: scene.MenuDivider},
		{Kind: scene.MenuButton, Label: "Delete", Action: func() { called = "delete" }},
		{Kind: scene.MenuButton, Label: "Disabled"},
	}

	got := flattenMenu(items, "")
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].label != "Mode › select" || !got[0].toggle || !got[0].checked {
		t.Errorf("entry 0 = %+v", got[0])
	}
	got[1].action()
	if called != "delete" {
		t.Errorf("action called %q, want delete", called)
	}
}

func TestPointerButton(t *testing.T) {
	if _, _, ok := pointerButton(tea.MouseButtonWheelUp); ok {
		t.Error("wheel should not map to a pointer button")
	}
	b, bits, ok := pointerButton(tea.MouseButtonRight)
	if !ok || b != interact.ButtonRight || bits != interact.ButtonsRight {
		t.Errorf("right = %v %v %v", b, bits, ok)
	}
}
