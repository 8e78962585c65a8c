package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/halftone/pkg/buildinfo"
	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/store"
)

// Response headers set on rendered artifacts.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderCache    = "X-Cache"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// =============================================================================
// Render
// =============================================================================

func (s *Server) handleHalftone(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	in, opts, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]

	rec := store.NewRecord(in.Image.Name, res, opts)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Warn("save render record", "error", err)
	} else {
		w.Header().Set(HeaderRenderID, rec.ID)
	}

	cache := "miss"
	if res.CacheInfo.RenderHit {
		cache = "hit"
	}
	w.Header().Set(HeaderCache, cache)
	writeArtifact(w, format, res.Artifacts[format])
}

// parseRenderRequest reads the multipart form into pipeline input and
// validated options.
func (s *Server) parseRenderRequest(r *http.Request) (pipeline.Input, pipeline.Options, error) {
	var in pipeline.Input
	var opts pipeline.Options

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return in, opts, errors.New(errors.ErrCodeTooLarge, "request exceeds %d bytes", tooLarge.Limit)
		}
		return in, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "expected a multipart form")
	}
	form := r.MultipartForm

	images := form.File["image"]
	if len(images) != 1 {
		return in, opts, errors.New(errors.ErrCodeInvalidInput, "exactly one image file is required")
	}
	img, err := readFile(images[0])
	if err != nil {
		return in, opts, err
	}
	in.Image = img

	for _, fh := range form.File["tile"] {
		tile, err := readFile(fh)
		if err != nil {
			return in, opts, err
		}
		in.Tiles = append(in.Tiles, tile)
	}
	if in.Mask, err = readOptional(form, "mask"); err != nil {
		return in, opts, err
	}
	if in.Pattern, err = readOptional(form, "pattern"); err != nil {
		return in, opts, err
	}

	opts.Params = halftone.DefaultParams()
	if raw := r.FormValue("params"); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts.Params); err != nil {
			return in, opts, errors.Wrap(errors.ErrCodeInvalidParams, err, "invalid params: %v", err)
		}
	}

	format := r.FormValue("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Fill = r.FormValue("fill")
	opts.Background = r.FormValue("background")

	if raw := r.FormValue("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, opts, errors.New(errors.ErrCodeInvalidParams, "invalid scale %q", raw)
		}
		opts.Scale = scale
	}
	if raw := r.FormValue("frame"); raw != "" {
		if opts.FrameWidth, opts.FrameHeight, err = errors.ParseFrame(raw); err != nil {
			return in, opts, err
		}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return in, opts, err
	}
	return in, opts, nil
}

func readFile(fh *multipart.FileHeader) (pipeline.Source, error) {
	f, err := fh.Open()
	if err != nil {
		return pipeline.Source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot open %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return pipeline.Source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read %s", fh.Filename)
	}
	return pipeline.Source{Name: filepath.Base(fh.Filename), Data: data}, nil
}

func readOptional(form *multipart.Form, field string) (*pipeline.Source, error) {
	files := form.File[field]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		src, err := readFile(files[0])
		if err != nil {
			return nil, err
		}
		return &src, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "at most one %s file is allowed", field)
	}
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pipeline.OutputName(format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Records
// =============================================================================

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "cannot list renders"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !rec.HasFormat(format) {
		s.writeError(w, r, errors.New(errors.ErrCodeRenderNotFound, "render %s has no %s output", rec.ID, format))
		return
	}

	data, ok, err := s.runner.CachedArtifact(r.Context(), rec.ResultHash, format, rec.RenderOptions())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeCache, err, "cannot read artifact"))
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeRenderNotFound, "artifact for render %s has expired", rec.ID))
		return
	}
	w.Header().Set(HeaderRenderID, rec.ID)
	writeArtifact(w, format, data)
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, errors.New(errors.ErrCodeRenderNotFound, "render %q not found", id)
	}
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeRenderNotFound, "render %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "cannot load render")
	}
	return rec, nil
}
