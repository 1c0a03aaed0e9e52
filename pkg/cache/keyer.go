package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of a rendered image of the document with hash
	// docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string

	// TopologyKey is the key of the ownership tree view of a document.
	TopologyKey(docHash, format string) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format             string  `json:"format"`
	Width              float64 `json:"width"`
	Height             float64 `json:"height"`
	Scale              float64 `json:"scale,omitempty"`
	ShowGrid           bool    `json:"show_grid,omitempty"`
	AbstractRightAngle bool    `json:"abstract_right_angle,omitempty"`
	Background         string  `json:"background,omitempty"`
	Font               string  `json:"font,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", opts.Format, docHash, opts)
}

func (DefaultKeyer) TopologyKey(docHash, format string) string {
	return digestKey("topology", format, docHash)
}

// digestKey builds "kind:format:sha256(parts)".
func digestKey(kind, format string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + format + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Documents are hashed over their
// canonical export.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
