package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/interact"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/render"
	"github.com/matzehuels/geomcloze/pkg/render/term"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// statusRows is the number of terminal rows below the canvas.
const statusRows = 1

// =============================================================================
// EditorModel - Interactive scene editor
// =============================================================================

// tickMsg drives the scene's redraw and update clocks.
type tickMsg time.Time

// EditorModel is the bubbletea model of the terminal editor. The canvas is
// a term.Surface the scene paints into on redraw; mouse cells are mapped
// to scene coordinates through the editor's viewport.
type EditorModel struct {
	scene   *scene.Scene
	editor  *interact.Editor
	painter *render.Painter
	surf    *term.Surface

	path     string
	interval time.Duration

	width, height int
	buttons       interact.Buttons
	lastButton    interact.Button
	hover         geom.Point

	menu     []menuEntry
	menuAt   int
	help     bool
	modified bool
	message  string
	listener int
}

// menuEntry is one actionable line of a flattened context menu.
type menuEntry struct {
	label   string
	checked bool
	toggle  bool
	action  func()
}

// NewEditorModel creates an editor model for s. path is where ctrl+s saves.
func NewEditorModel(s *scene.Scene, ed *interact.Editor, path string, fps int) *EditorModel {
	if fps <= 0 {
		fps = scene.DefaultFrameRate
	}
	m := &EditorModel{
		scene:    s,
		editor:   ed,
		painter:  render.NewPainter(),
		path:     path,
		interval: time.Second / time.Duration(fps),
	}
	m.listener = s.AddUpdateListener(func(scene.Document) { m.modified = true })
	return m
}

// Modified reports whether the scene changed since the last save.
func (m *EditorModel) Modified() bool { return m.modified }

func (m *EditorModel) Init() tea.Cmd {
	return m.tick()
}

func (m *EditorModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.scene.Tick(time.Time(msg))
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg)
	}
	return m, nil
}

// resize replaces the canvas so the whole scene fits the window.
func (m *EditorModel) resize(width, height int) {
	m.width, m.height = width, height
	cols, rows := max(width, 1), max(height-statusRows, 1)
	sw, sh := m.scene.Size()
	m.surf = term.New(cols, rows, sw, sh)
	cw, ch := m.surf.CellSize()
	m.editor.SetViewport(interact.Viewport{
		Offset: geom.Pt(cw/2, ch/2),
		ScaleX: cw,
		ScaleY: ch,
	})
	m.scene.SetRenderer(m.painter.Renderer(m.surf))
	if err := m.scene.Draw(); err != nil {
		m.message = err.Error()
	}
}

func (m *EditorModel) mouse(msg tea.MouseMsg) {
	if m.menu != nil || m.help {
		return
	}
	ev := interact.PointerEvent{X: float64(msg.X), Y: float64(msg.Y)}
	if msg.Shift {
		ev.Mods |= interact.ModShift
	}
	if msg.Ctrl {
		ev.Mods |= interact.ModCtrl
	}
	if msg.Alt {
		ev.Mods |= interact.ModAlt
	}
	m.hover = m.editor.Viewport().ToScene(geom.Pt(ev.X, ev.Y))

	switch msg.Action {
	case tea.MouseActionPress:
		b, bits, ok := pointerButton(msg.Button)
		if !ok {
			return
		}
		if b == interact.ButtonRight {
			// The menu takes the input until it closes, so no gesture starts.
			ev.Button = b
			m.openMenu(m.editor.ContextMenu(ev))
			return
		}
		m.buttons |= bits
		m.lastButton = b
		ev.Button, ev.Buttons = b, m.buttons
		m.editor.PointerDown(ev)
	case tea.MouseActionRelease:
		b, bits, ok := pointerButton(msg.Button)
		if !ok {
			// Legacy mouse encodings do not say which button was released.
			b, bits = m.lastButton, m.buttons
		}
		m.buttons &^= bits
		ev.Button, ev.Buttons = b, m.buttons
		m.editor.PointerUp(ev)
	case tea.MouseActionMotion:
		ev.Button, ev.Buttons = m.lastButton, m.buttons
		m.editor.PointerMove(ev)
	}
}

// pointerButton maps a terminal mouse button. Wheel buttons are ignored.
func pointerButton(b tea.MouseButton) (interact.Button, interact.Buttons, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return interact.ButtonLeft, interact.ButtonsLeft, true
	case tea.MouseButtonMiddle:
		return interact.ButtonMiddle, interact.ButtonsMiddle, true
	case tea.MouseButtonRight:
		return interact.ButtonRight, interact.ButtonsRight, true
	}
	return 0, 0, false
}

func (m *EditorModel) key(msg tea.KeyMsg) tea.Cmd {
	m.message = ""
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return tea.Quit
	case "ctrl+s":
		m.save()
		return nil
	}
	if m.menu != nil {
		m.menuKey(msg)
		return nil
	}
	if m.help {
		m.help = false
		return nil
	}

	switch msg.String() {
	case "?":
		m.help = true
		return nil
	case "esc":
		m.editor.Key(interact.KeyEvent{Key: interact.KeyEscape})
		return nil
	case "delete":
		m.editor.Key(interact.KeyEvent{Key: interact.KeyDelete})
		return nil
	case "backspace":
		m.editor.Key(interact.KeyEvent{Key: interact.KeyBackspace})
		return nil
	case "ctrl+a":
		m.editor.Key(interact.KeyEvent{Key: "a", Mods: interact.ModCtrl})
		return nil
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		ev := interact.KeyEvent{Key: strings.ToLower(string(msg.Runes))}
		if msg.Alt {
			ev.Mods |= interact.ModAlt
		}
		m.editor.Key(ev)
	}
	return nil
}

func (m *EditorModel) save() {
	if m.path == "" {
		m.message = "no file to save to"
		return
	}
	m.scene.FlushUpdates()
	if err := sceneio.Save(m.scene, m.path); err != nil {
		m.message = "save failed: " + err.Error()
		return
	}
	m.modified = false
	m.message = "saved " + m.path
}

// =============================================================================
// Context menu
// =============================================================================

func (m *EditorModel) openMenu(items []scene.MenuItem) {
	m.menu = flattenMenu(items, "")
	m.menuAt = 0
	if len(m.menu) == 0 {
		m.menu = nil
	}
}

// flattenMenu lists the actionable entries of items, prefixing submenu
// entries with their parent's label.
func flattenMenu(items []scene.MenuItem, prefix string) []menuEntry {
	var out []menuEntry
	for _, it := range items {
		switch it.Kind {
		case scene.MenuDivider:
		case scene.MenuSubmenu:
			out = append(out, flattenMenu(it.Items, prefix+it.Label+" › ")...)
		default:
			if it.Action == nil {
				continue
			}
			out = append(out, menuEntry{
				label:   prefix + it.Label,
				checked: it.Checked,
				toggle:  it.Kind == scene.MenuCheckbox,
				action:  it.Action,
			})
		}
	}
	return out
}

func (m *EditorModel) menuKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q":
		m.menu = nil
	case "up", "k":
		if m.menuAt > 0 {
			m.menuAt--
		}
	case "down", "j":
		if m.menuAt < len(m.menu)-1 {
			m.menuAt++
		}
	case "enter":
		e := m.menu[m.menuAt]
		m.menu = nil
		e.action()
	}
}

// =============================================================================
// View
// =============================================================================

func (m *EditorModel) View() string {
	if m.surf == nil {
		return "loading..."
	}
	var b strings.Builder
	switch {
	case m.menu != nil:
		b.WriteString(m.menuView())
	case m.help:
		b.WriteString(helpView())
	default:
		b.WriteString(m.surf.String())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *EditorModel) statusLine() string {
	parts := []string{
		StyleHighlight.Render(string(m.scene.Mode())),
		listDimStyle.Render(m.editor.Cursor().String()),
		fmt.Sprintf("%d selected", len(m.editor.Selection())),
		fmt.Sprintf("(%.0f, %.0f)", m.hover.X, m.hover.Y),
	}
	if m.path != "" {
		name := m.path
		if m.modified {
			name += "*"
		}
		parts = append(parts, name)
	}
	if m.message != "" {
		parts = append(parts, StyleWarning.Render(m.message))
	} else {
		parts = append(parts, listDimStyle.Render("? help"))
	}
	return strings.Join(parts, "  ")
}

func (m *EditorModel) menuView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Menu"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ choose  esc close"))
	b.WriteString("\n\n")
	for i, e := range m.menu {
		cursor := "  "
		style := listNormalStyle
		if i == m.menuAt {
			cursor = "▸ "
			style = listSelectedStyle
		}
		mark := ""
		if e.toggle {
			mark = "[ ] "
			if e.checked {
				mark = "[x] "
			}
		}
		b.WriteString(style.Render(cursor + mark + e.label))
		b.WriteString("\n")
	}
	return b.String()
}

var helpRows = [][]string{
	{"s / c / d", "select, create and divider mode"},
	{"left drag", "move, marquee select, draw divider"},
	{"right click", "context menu"},
	{"shift", "marquee in divider mode"},
	{"alt", "suppress snapping"},
	{"ctrl+a", "select all"},
	{"del", "delete selection"},
	{"esc", "cancel or clear selection"},
	{"ctrl+s", "save"},
	{"ctrl+c", "quit"},
}

func helpView() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Action").
		Rows(helpRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return listNormalStyle
		})
	return StyleTitle.Render("Keys") + "\n" + t.Render()
}

// Close detaches the model from its scene.
func (m *EditorModel) Close() {
	m.scene.RemoveUpdateListener(m.listener)
	m.editor.Close()
}
