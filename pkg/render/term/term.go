// Package term implements a render.Surface on a grid of terminal cells.
//
// Each cell covers a rectangle of the scene. Strokes become box drawing
// runes, fills set cell backgrounds and text is written cell by cell. The
// output is styled with lipgloss, so it degrades to the terminal's color
// profile.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/render"
)

// Cell is one character cell. FG and BG are opaque.
type Cell struct {
	Rune   rune
	FG, BG color.NRGBA
}

type subpath struct {
	pts    []geom.Point // cell space
	closed bool
	circle bool
}

// Surface is a cols x rows cell canvas showing width x height scene units.
type Surface struct {
	cols, rows    int
	width, height float64
	cells         []Cell
	path          []subpath
}

// New returns a surface of cols x rows cells covering width x height scene
// units.
func New(cols, rows int, width, height float64) *Surface {
	cols, rows = max(cols, 1), max(rows, 1)
	s := &Surface{cols: cols, rows: rows, width: width, height: height}
	s.cells = make([]Cell, cols*rows)
	s.Clear(color.White)
	return s
}

// Grid returns the number of columns and rows.
func (s *Surface) Grid() (cols, rows int) { return s.cols, s.rows }

// CellSize returns the scene extent of one cell.
func (s *Surface) CellSize() (w, h float64) {
	return s.width / float64(s.cols), s.height / float64(s.rows)
}

// At returns the cell at col, row.
func (s *Surface) At(col, row int) Cell { return s.cells[row*s.cols+col] }

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) toCell(p geom.Point) geom.Point {
	cw, ch := s.CellSize()
	return geom.Pt(p.X/cw, p.Y/ch)
}

func (s *Surface) cell(col, row int) *Cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

func (s *Surface) Clear(c color.Color) {
	bg := render.Over(c, color.White)
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' ', FG: color.NRGBA{A: 0xff}, BG: bg}
	}
	s.path = nil
}

func (s *Surface) MoveTo(p geom.Point) {
	s.path = append(s.path, subpath{pts: []geom.Point{s.toCell(p)}})
}

func (s *Surface) LineTo(p geom.Point) {
	if len(s.path) == 0 {
		s.MoveTo(p)
		return
	}
	last := &s.path[len(s.path)-1]
	last.pts = append(last.pts, s.toCell(p))
}

func (s *Surface) ClosePath() {
	if len(s.path) > 0 {
		s.path[len(s.path)-1].closed = true
	}
}

func (s *Surface) Circle(c geom.Point, r float64) {
	s.path = append(s.path, subpath{pts: []geom.Point{s.toCell(c)}, circle: true})
}

func (s *Surface) Rect(r geom.Rect) {
	s.MoveTo(r.Min)
	s.LineTo(geom.Pt(r.Max.X, r.Min.Y))
	s.LineTo(r.Max)
	s.LineTo(geom.Pt(r.Min.X, r.Max.Y))
	s.ClosePath()
}

func (s *Surface) Fill(c color.Color) error {
	path := s.path
	s.path = nil
	if _, _, _, a := c.RGBA(); a == 0 {
		return nil
	}
	for _, sp := range path {
		if sp.circle {
			if cl := s.cell(int(sp.pts[0].X), int(sp.pts[0].Y)); cl != nil {
				cl.Rune = '●'
				cl.FG = render.Over(c, cl.BG)
			}
			continue
		}
		if len(sp.pts) < 3 {
			continue
		}
		b := geom.Bounds(sp.pts)
		for row := max(int(b.Min.Y), 0); row <= min(int(b.Max.Y), s.rows-1); row++ {
			for col := max(int(b.Min.X), 0); col <= min(int(b.Max.X), s.cols-1); col++ {
				if geom.InPolygon(geom.Pt(float64(col)+0.5, float64(row)+0.5), sp.pts) {
					cl := s.cell(col, row)
					cl.BG = render.Over(c, cl.BG)
				}
			}
		}
	}
	return nil
}

func (s *Surface) Stroke(pen render.Pen) error {
	path := s.path
	s.path = nil
	if _, _, _, a := pen.Color.RGBA(); a == 0 {
		return nil
	}
	for _, sp := range path {
		if sp.circle {
			if cl := s.cell(int(sp.pts[0].X), int(sp.pts[0].Y)); cl != nil && cl.Rune != '●' {
				cl.Rune = '○'
				cl.FG = render.Over(pen.Color, cl.BG)
			}
			continue
		}
		pts := sp.pts
		if sp.closed && len(pts) > 2 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		for i := 1; i < len(pts); i++ {
			s.segment(pts[i-1], pts[i], pen)
		}
	}
	return nil
}

// segment rasterizes a line in cell space with a rune matching its slope.
func (s *Surface) segment(a, b geom.Point, pen render.Pen) {
	d := b.Sub(a)
	r := lineRune(d)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	for i := 0; i <= steps; i++ {
		if len(pen.Dash) > 0 && (i/2)%2 == 1 {
			continue
		}
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		p := a.Add(d.Scale(t))
		cl := s.cell(int(p.X), int(p.Y))
		if cl == nil || cl.Rune == '●' || cl.Rune == '○' {
			continue
		}
		if cl.Rune != ' ' && cl.Rune != r && isLine(cl.Rune) {
			cl.Rune = '┼'
		} else {
			cl.Rune = r
		}
		cl.FG = render.Over(pen.Color, cl.BG)
	}
}

func lineRune(d geom.Point) rune {
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case ay <= ax*0.4:
		return '─'
	case ax <= ay*0.4:
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

func isLine(r rune) bool { return strings.ContainsRune("─│╲╱┼", r) }

func (s *Surface) Text(str string, p geom.Point, st render.TextStyle) error {
	c := s.toCell(p)
	runes := []rune(str)
	col := int(math.Round(c.X - float64(len(runes))*st.Anchor.X))
	row := int(c.Y)
	for i, r := range runes {
		if cl := s.cell(col+i, row); cl != nil {
			cl.Rune = r
			cl.FG = render.Over(st.Color, cl.BG)
		}
	}
	return nil
}

// MeasureText reports one cell per rune, whatever the size.
func (s *Surface) MeasureText(str string, _ float64) (float64, float64) {
	cw, ch := s.CellSize()
	return float64(len([]rune(str))) * cw, ch
}

// Plain returns the canvas runes without styling.
func (s *Surface) Plain() string {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			b.WriteRune(s.At(col, row).Rune)
		}
		if row < s.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the canvas with lipgloss, one style per run of equally
// colored cells.
func (s *Surface) String() string {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		var run strings.Builder
		var cur Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(render.Hex(cur.FG))).
				Background(lipgloss.Color(render.Hex(cur.BG)))
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < s.cols; col++ {
			cl := s.At(col, row)
			if run.Len() > 0 && (cl.FG != cur.FG || cl.BG != cur.BG) {
				flush()
			}
			cur = cl
			run.WriteRune(cl.Rune)
		}
		flush()
		if row < s.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var _ render.Surface = (*Surface)(nil)
