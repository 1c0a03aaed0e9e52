// Package fonts provides the label fonts for rendered output.
//
// The Go font family from golang.org/x/image is compiled into the binary,
// so raster output needs no system fonts. Sources are parsed once on first
// use and shared.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Family names a built-in font.
type Family string

const (
	Regular Family = "regular"
	Mono    Family = "mono"
)

// CSS font-family values for SVG output, with fallbacks for viewers that
// ignore the embedded font.
const (
	RegularCSS = `'Go', 'Helvetica Neue', Arial, sans-serif`
	MonoCSS    = `'Go Mono', Menlo, Consolas, monospace`
)

// ParseFamily maps a config value to a Family. The empty string selects
// Regular.
func ParseFamily(name string) (Family, error) {
	switch Family(name) {
	case "", Regular:
		return Regular, nil
	case Mono:
		return Mono, nil
	}
	return "", fmt.Errorf("unknown font %q (want regular or mono)", name)
}

// TTF returns the font file of f.
func (f Family) TTF() []byte {
	if f == Mono {
		return gomono.TTF
	}
	return goregular.TTF
}

// CSS returns the font-family value of f.
func (f Family) CSS() string {
	if f == Mono {
		return MonoCSS
	}
	return RegularCSS
}

// Name is the face name SVG output declares with @font-face.
func (f Family) Name() string {
	if f == Mono {
		return "Go Mono"
	}
	return "Go"
}

type parsed struct {
	once sync.Once
	src  *text.FontSource
	err  error
	b64  string
}

var sources = map[Family]*parsed{
	Regular: {},
	Mono:    {},
}

func (f Family) parsed() *parsed {
	p, ok := sources[f]
	if !ok {
		p = sources[Regular]
	}
	p.once.Do(func() {
		ttf := f.TTF()
		p.src, p.err = text.NewFontSource(ttf)
		p.b64 = base64.StdEncoding.EncodeToString(ttf)
	})
	return p
}

// Source returns the parsed font source of f.
func (f Family) Source() (*text.FontSource, error) {
	p := f.parsed()
	return p.src, p.err
}

// Face returns a face of f at size.
func (f Family) Face(size float64) (text.Face, error) {
	src, err := f.Source()
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", f, err)
	}
	return src.Face(size), nil
}

// Base64 returns the font file of f as base64 for embedding in SVG.
// The result is cached after first computation.
func (f Family) Base64() string {
	return f.parsed().b64
}
