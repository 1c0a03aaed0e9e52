package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// ErrEmptyDocument is returned when the input holds no JSON value at all.
var ErrEmptyDocument = errors.New("empty document")

// ReadJSON decodes a scene document from r. Unknown fields are ignored.
//
// Malformed JSON is reported as an INVALID_DOCUMENT error wrapping the
// decoder error. ReadJSON does not close r.
func ReadJSON(r io.Reader) (scene.Document, error) {
	var doc scene.Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, errs.Wrap(errs.ErrCodeInvalidDocument, ErrEmptyDocument, "decode document")
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode document")
	}
	return doc, nil
}

// ImportJSON reads the JSON file at path. A missing file is reported as
// FILE_NOT_FOUND.
func ImportJSON(path string) (scene.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scene.Document{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return scene.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Load reads the document at path into s. The returned error is nil, a
// read error, or the validation error left after the import repaired the
// document; in the last case s holds the repaired scene.
func Load(s *scene.Scene, path string) error {
	doc, err := ImportJSON(path)
	if err != nil {
		return err
	}
	return s.Import(doc)
}
