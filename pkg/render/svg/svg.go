// Package svg implements a render.Surface that writes SVG markup.
package svg

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/geomcloze/pkg/fonts"
	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/observability"
	"github.com/matzehuels/geomcloze/pkg/render"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Surface accumulates SVG elements in memory.
type Surface struct {
	width, height float64
	font          fonts.Family
	embedFont     bool

	body bytes.Buffer
	path strings.Builder
}

// Option configures a Surface.
type Option func(*Surface)

// WithFont selects the label font family.
func WithFont(f fonts.Family) Option { return func(s *Surface) { s.font = f } }

// WithEmbeddedFont embeds the label font as a data URL so the output
// renders the same everywhere.
func WithEmbeddedFont() Option { return func(s *Surface) { s.embedFont = true } }

// New returns a surface covering width x height scene units.
func New(width, height float64, opts ...Option) *Surface {
	s := &Surface{width: width, height: height, font: fonts.Regular}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) Clear(c color.Color) {
	s.body.Reset()
	s.path.Reset()
	fmt.Fprintf(&s.body, `  <rect width="100%%" height="100%%"%s/>`+"\n", paint("fill", c))
}

func (s *Surface) MoveTo(p geom.Point) { fmt.Fprintf(&s.path, "M%s %s", num(p.X), num(p.Y)) }
func (s *Surface) LineTo(p geom.Point) { fmt.Fprintf(&s.path, "L%s %s", num(p.X), num(p.Y)) }
func (s *Surface) ClosePath()          { s.path.WriteString("Z") }

func (s *Surface) Circle(c geom.Point, r float64) {
	// Two half arcs, since a single arc with equal endpoints draws nothing.
	fmt.Fprintf(&s.path, "M%s %sa%s %s 0 1 0 %s 0a%s %s 0 1 0 %s 0Z",
		num(c.X-r), num(c.Y), num(r), num(r), num(2*r), num(r), num(r), num(-2*r))
}

func (s *Surface) Rect(r geom.Rect) {
	fmt.Fprintf(&s.path, "M%s %sH%sV%sH%sZ",
		num(r.Min.X), num(r.Min.Y), num(r.Max.X), num(r.Max.Y), num(r.Min.X))
}

func (s *Surface) takePath() string {
	d := s.path.String()
	s.path.Reset()
	return d
}

func (s *Surface) Fill(c color.Color) error {
	d := s.takePath()
	if d == "" {
		return nil
	}
	fmt.Fprintf(&s.body, `  <path d="%s"%s/>`+"\n", d, paint("fill", c))
	return nil
}

func (s *Surface) Stroke(pen render.Pen) error {
	d := s.takePath()
	if d == "" {
		return nil
	}
	attrs := paint("stroke", pen.Color) + fmt.Sprintf(` stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`, num(pen.Width))
	if len(pen.Dash) > 0 {
		parts := make([]string, len(pen.Dash))
		for i, d := range pen.Dash {
			parts[i] = num(d)
		}
		attrs += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none"%s/>`+"\n", d, attrs)
	return nil
}

var anchors = map[float64]string{0: "start", 0.5: "middle", 1: "end"}

func (s *Surface) Text(str string, p geom.Point, st render.TextStyle) error {
	anchor, ok := anchors[st.Anchor.X]
	if !ok {
		anchor = "start"
	}
	baseline := "middle"
	switch {
	case st.Anchor.Y <= 0:
		baseline = "hanging"
	case st.Anchor.Y >= 1:
		baseline = "alphabetic"
	}
	var esc bytes.Buffer
	if err := xml.EscapeText(&esc, []byte(str)); err != nil {
		return err
	}
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" font-size="%s" text-anchor="%s" dominant-baseline="%s"%s>%s</text>`+"\n",
		num(p.X), num(p.Y), num(st.Size), anchor, baseline, paint("fill", st.Color), esc.String())
	return nil
}

// MeasureText estimates the text box from the font size; SVG viewers lay
// out text themselves.
func (s *Surface) MeasureText(str string, size float64) (float64, float64) {
	return float64(len([]rune(str))) * size * 0.55, size
}

// Bytes returns the complete document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.width), num(s.height), num(math.Ceil(s.width)), num(math.Ceil(s.height)))
	buf.WriteString("  <style>\n")
	if s.embedFont {
		fmt.Fprintf(&buf, "    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			s.font.Name(), s.font.Base64())
	}
	fmt.Fprintf(&buf, "    text { font-family: %s; }\n", s.font.CSS())
	buf.WriteString("  </style>\n")
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderSVG paints s at its own size and returns the document.
func RenderSVG(ctx context.Context, s *scene.Scene, p *render.Painter, opts ...Option) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, "svg")
	start := time.Now()

	if p == nil {
		p = render.NewPainter()
	}
	w, h := s.Size()
	surf := New(w, h, opts...)
	var data []byte
	err := p.Paint(s, surf)
	if err == nil {
		data = surf.Bytes()
	}
	hooks.OnRenderComplete(ctx, "svg", len(data), time.Since(start), err)
	return data, err
}

// paint formats a fill or stroke attribute pair, splitting alpha into its
// own opacity attribute for older viewers.
func paint(attr string, c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return fmt.Sprintf(` %s="none"`, attr)
	}
	out := fmt.Sprintf(` %s="#%02x%02x%02x"`, attr, n.R, n.G, n.B)
	if n.A != 0xff {
		out += fmt.Sprintf(` %s-opacity="%s"`, attr, strconv.FormatFloat(float64(n.A)/255, 'f', 3, 64))
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

var _ render.Surface = (*Surface)(nil)
