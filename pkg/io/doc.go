// Package io reads and writes scene documents as JSON.
//
// # JSON Format
//
// A document is the serialized form of a [scene.Scene]. Top-level records
// are shapes and dividers; a shape's children are its points and lines in
// boundary order:
//
//	{
//	  "children": [
//	    {
//	      "_type": "element", "id": 1, "closed": true,
//	      "children": [
//	        {"_type": "point", "id": 2, "x": 200, "y": 200},
//	        {"_type": "line", "id": 3, "start": {"x": 200, "y": 200, "id": 2}, "end": {"x": 500, "y": 200, "id": 4}},
//	        ...
//	      ]
//	    }
//	  ],
//	  "mode": "select",
//	  "showGrid": true,
//	  "snapping": true
//	}
//
// Line endpoints carry both the coordinates and, when bound, the id of the
// point they follow. An id that matches no point in the shape resolves to
// the bare coordinates on import.
//
// # Reading and Writing
//
// [ReadJSON] and [WriteJSON] work on streams, [ImportJSON] and
// [ExportJSON] on files. Decoding only checks the JSON shape; the
// structural repair of a damaged document happens in [scene.Scene.Import]:
//
//	doc, err := io.ImportJSON("diagram.json")
//	if err != nil {
//	    return err
//	}
//	s := scene.New()
//	if err := s.Import(doc); err != nil {
//	    log.Warn("document repaired", "err", err)
//	}
//
// [Load] combines both steps.
package io
