package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/geomcloze/pkg/buildinfo"
	"github.com/matzehuels/geomcloze/pkg/errors"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/pipeline"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, res, opts.Formats[0])
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r, pipeline.FormatDOT)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Topology(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, res, opts.Formats[0])
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	doc, err := sceneio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.runner.Normalize(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := sceneio.WriteJSON(out, w); err != nil {
		s.log.Warn("write response", "err", err)
	}
}

// decode reads the document body and the render options from the query.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, defaultFormat string) (scene.Document, pipeline.Options, error) {
	opts, err := parseOptions(r.URL.Query(), defaultFormat)
	if err != nil {
		return scene.Document{}, opts, err
	}
	doc, err := sceneio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	return doc, opts, err
}

func parseOptions(q url.Values, defaultFormat string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:    []string{defaultFormat},
		Background: q.Get("background"),
		Font:       q.Get("font"),
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale %q is not a number", v)
		}
		opts.Scale = scale
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"grid", &opts.ShowGrid},
		{"abstract", &opts.AbstractRightAngle},
		{"embed_font", &opts.EmbedFont},
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s %q is not a boolean", f.name, v)
		}
		*f.dst = b
	}
	return opts, nil
}

func writeArtifact(w http.ResponseWriter, res *pipeline.Result, format string) {
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Document-Hash", res.DocHash)
	if res.CacheInfo.RenderHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
