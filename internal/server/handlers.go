package server

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/stackplot/pkg/buildinfo"
	"github.com/matzehuels/stackplot/pkg/pipeline"
	"github.com/matzehuels/stackplot/pkg/spec"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": pipeline.FormatNames()})
}

// handleRender renders the posted description into one artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, toAPIError(err))
		return
	}

	enc := spec.EncodingFromContentType(r.Header.Get("Content-Type"))
	if name := q.Get("encoding"); name != "" {
		parsed, err := spec.ParseEncoding(name)
		if err != nil {
			writeError(w, r, toAPIError(err))
			return
		}
		enc = parsed
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		writeError(w, r, toAPIError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	id := requestIDFrom(r.Context())
	res, err := s.cfg.Runner.Execute(ctx, pipeline.Options{
		Spec:     body,
		Encoding: enc,
		Name:     "request " + id,
		Formats:  []string{format},
		Refresh:  refresh,
		Logger:   s.cfg.Logger.With("request_id", id),
	})
	if err != nil {
		apiErr := toAPIError(err)
		if apiErr.Status >= http.StatusInternalServerError {
			s.cfg.Logger.Error("render failed", "request_id", id, "err", err)
		}
		writeError(w, r, apiErr)
		return
	}

	cacheState := "miss"
	if res.CacheInfo.AllHit() {
		cacheState = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("X-Cache", cacheState)
	h.Set("X-Spec-Hash", res.SpecHash)
	if !res.CacheInfo.AllHit() {
		h.Set("X-Bindings", strconv.Itoa(res.Bindings))
		if res.Dropped > 0 {
			h.Set("X-Dropped", strconv.Itoa(res.Dropped))
		}
	}
	if format == pipeline.FormatInteractive {
		h.Set("Content-Security-Policy", "default-src 'none'; script-src 'unsafe-inline'; style-src 'unsafe-inline'")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}
