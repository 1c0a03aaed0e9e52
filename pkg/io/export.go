package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/geomcloze/pkg/scene"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(doc scene.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc scene.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save exports the current state of s to path.
func Save(s *scene.Scene, path string) error {
	return ExportJSON(s.Export(), path)
}

// Canonical returns the compact encoding of doc. Equal scenes produce equal
// bytes, which makes the result usable as a cache key input.
func Canonical(doc scene.Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}
