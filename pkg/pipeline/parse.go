package pipeline

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomcloze/pkg/cache"
	"github.com/matzehuels/geomcloze/pkg/errors"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Load imports doc into a new scene built with opts. Damaged topology is
// repaired on the way in; a scene that still violates an invariant after
// repair is rejected with INVALID_DOCUMENT.
func Load(doc scene.Document, logger *log.Logger, opts ...scene.Option) (*scene.Scene, error) {
	s := scene.New(append(slices.Clone(opts), scene.WithLogger(logger))...)
	if err := s.Import(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document is inconsistent after repair")
	}
	return s, nil
}

// Hash returns the content hash of the scene's current export. Documents
// that differ only in damage the import repaired hash the same.
func Hash(s *scene.Scene) (string, error) {
	data, err := sceneio.Canonical(s.Export())
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
