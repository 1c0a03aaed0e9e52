package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

type op struct {
	kind  string // "fill", "stroke", "text", "clear"
	path  []geom.Point
	color color.Color
	pen   Pen
	text  string
	at    geom.Point
}

// recorder is a Surface that records what was drawn.
type recorder struct {
	path []geom.Point
	ops  []op
}

func (r *recorder) Size() (float64, float64) { return 1000, 700 }
func (r *recorder) Clear(c color.Color) {
	r.path = nil
	r.ops = append(r.ops, op{kind: "clear", color: c})
}
func (r *recorder) MoveTo(p geom.Point) { r.path = append(r.path, p) }
func (r *recorder) LineTo(p geom.Point) { r.path = append(r.path, p) }
func (r *recorder) ClosePath()          {}
func (r *recorder) Circle(c geom.Point, _ float64) {
	r.path = append(r.path, c)
}
func (r *recorder) Rect(rc geom.Rect) { r.path = append(r.path, rc.Min, rc.Max) }
func (r *recorder) Fill(c color.Color) error {
	r.ops = append(r.ops, op{kind: "fill", path: r.path, color: c})
	r.path = nil
	return nil
}
func (r *recorder) Stroke(pen Pen) error {
	r.ops = append(r.ops, op{kind: "stroke", path: r.path, color: pen.Color, pen: pen})
	r.path = nil
	return nil
}
func (r *recorder) Text(s string, p geom.Point, st TextStyle) error {
	r.ops = append(r.ops, op{kind: "text", text: s, at: p, color: st.Color})
	return nil
}
func (r *recorder) MeasureText(s string, size float64) (float64, float64) {
	return float64(len(s)) * size / 2, size
}

func (r *recorder) find(kind string, c color.Color) []int {
	var idx []int
	for i, o := range r.ops {
		if o.kind == kind && (c == nil || Hex(o.color) == Hex(c)) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (r *recorder) texts() map[string]geom.Point {
	out := map[string]geom.Point{}
	for _, o := range r.ops {
		if o.kind == "text" {
			out[o.text] = o.at
		}
	}
	return out
}

func square(s *scene.Scene) *scene.Shape {
	sh := s.MustCreatePolygon([]geom.Point{geom.Pt(200, 200), geom.Pt(500, 200), geom.Pt(500, 500), geom.Pt(200, 500)})
	s.AddChild(sh)
	return sh
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"black", color.NRGBA{A: 255}},
		{"Red", color.NRGBA{R: 255, A: 255}},
		{"transparent", Transparent},
		{"", Transparent},
		{"#3b82f6", color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}},
		{"#00000050", color.NRGBA{A: 0x50}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 0x88}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"#12345", "#ggg", "blurple"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestHexAndOver(t *testing.T) {
	assert.Equal(t, "#3b82f6", Hex(MustColor("#3b82f6")))
	assert.Equal(t, "#00000050", Hex(MustColor("#00000050")))
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, Over(color.NRGBA{A: 128}, color.White))
}

func TestPaintOrderIsReverseChildOrder(t *testing.T) {
	s := scene.New()
	bottom := square(s)
	bottom.SetFill("#ff0000")
	top := s.MustCreatePolygon([]geom.Point{geom.Pt(300, 300), geom.Pt(600, 300), geom.Pt(600, 600)})
	top.SetFill("#00ff00")
	s.AddChildAt(top, 0)

	var r recorder
	require.NoError(t, NewPainter().Paint(s, &r))

	assert.Equal(t, "clear", r.ops[0].kind)
	red := r.find("fill", MustColor("#ff0000"))
	green := r.find("fill", MustColor("#00ff00"))
	require.Len(t, red, 1)
	require.Len(t, green, 1)
	assert.Less(t, red[0], green[0], "the first child is painted last")
}

func TestPaintSkipsHiddenAndOpenFill(t *testing.T) {
	s := scene.New()
	sh := square(s)
	sh.SetFill("#ff0000")
	sh.Lines()[0].SetHidden(true)
	path, err := s.CreatePath([]geom.Point{geom.Pt(0, 0), geom.Pt(50, 0), geom.Pt(50, 50)})
	require.NoError(t, err)
	path.SetFill("#00ff00")
	s.AddChild(path)

	var r recorder
	require.NoError(t, NewPainter().Paint(s, &r))
	assert.Empty(t, r.find("fill", MustColor("#00ff00")), "open shapes are not filled")
	// 3 visible edges of the square, 2 of the path, plus 4+3 point outlines
	assert.Len(t, r.find("stroke", color.Black), 12)
}

func TestPaintGrid(t *testing.T) {
	s := scene.New(scene.WithGrid(100, true, true))
	var r recorder
	require.NoError(t, NewPainter().Paint(s, &r))
	strokes := r.find("stroke", gridColor)
	require.Len(t, strokes, 1)
	// 11 vertical and 8 horizontal lines, two points each
	assert.Len(t, r.ops[strokes[0]].path, 2*(11+8))
}

func TestLineLabelFacesAwayFromInterior(t *testing.T) {
	s := scene.New()
	sh := square(s)
	sh.Lines()[0].SetShowLabel(true)
	sh.Lines()[1].SetShowLabel(true)
	sh.Lines()[1].SetLabelMode(scene.LabelName)
	sh.Lines()[1].SetLabelName("a")

	var r recorder
	require.NoError(t, NewPainter().Paint(s, &r))
	texts := r.texts()
	assert.Equal(t, geom.Pt(350, 183), texts["300"])
	assert.Equal(t, geom.Pt(517, 350), texts["a"])
}

func TestPointLabelAndRightAngleMark(t *testing.T) {
	for _, abstract := range []bool{false, true} {
		s := scene.New(scene.WithAbstractRightAngle(abstract))
		sh := square(s)
		sh.Points()[0].SetShowLabel(true)
		sh.Points()[0].SetLabelColor("#ff0000")

		var r recorder
		require.NoError(t, NewPainter().Paint(s, &r))

		marks := r.find("stroke", MustColor("#ff0000"))
		require.Len(t, marks, 1)
		if abstract {
			assert.Len(t, r.ops[marks[0]].path, 3, "square mark")
		} else {
			assert.Len(t, r.ops[marks[0]].path, arcSegments+1, "arc mark")
		}
		at, ok := r.texts()["90°"]
		require.True(t, ok)
		assert.Greater(t, at.X, 200.0)
		assert.Greater(t, at.Y, 200.0, "angle label sits inside the corner")
	}
}

func TestPaintGhostAndMarquee(t *testing.T) {
	s := scene.New()
	s.SetGhost(&scene.Ghost{Start: geom.Pt(0, 0), End: geom.Pt(100, 100)})
	rc := geom.RectFrom(geom.Pt(10, 10), geom.Pt(20, 20))
	s.SetMarquee(&rc)

	var r recorder
	require.NoError(t, NewPainter().Paint(s, &r))
	assert.Len(t, r.find("fill", marqueeFill), 1)
	strokes := r.find("stroke", ghostColor)
	require.Len(t, strokes, 2)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 100)}, r.ops[strokes[0]].path)
}

func TestRendererRedrawsScene(t *testing.T) {
	var r recorder
	s := scene.New()
	s.SetRenderer(NewPainter(WithBackground(color.Black)).Renderer(&r))
	square(s)

	require.NoError(t, s.Draw())
	require.NotEmpty(t, r.ops)
	assert.Equal(t, color.Black, r.ops[0].color)
}
