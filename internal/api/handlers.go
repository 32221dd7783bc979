package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Build   string    `json:"build"`
	BuiltAt time.Time `json:"builtAt"`
	Styles  int       `json:"styles"`
}

// ValidateResponse is the body of a successful validation.
type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	StyleName string `json:"styleName"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx := s.registry.Index()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Build:   idx.ID(),
		BuiltAt: idx.BuiltAt(),
		Styles:  len(idx.Styles()),
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Index().StyleInfos())
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	idx := s.registry.Index()
	style := chi.URLParam(r, "style")
	if !idx.HasStyle(style) {
		s.writeError(w, r, fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style))
		return
	}

	raw := r.URL.Query().Get("type")
	if raw == "" {
		writeJSON(w, http.StatusOK, idx.Items(style))
		return
	}
	t, err := registry.ParseItemType(raw)
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}
	writeJSON(w, http.StatusOK, idx.ItemsByType(t, style))
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	idx := s.registry.Index()
	style := chi.URLParam(r, "style")
	name, ok := jsonFile(chi.URLParam(r, "file"))
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", errNoRoute, r.URL.Path))
		return
	}
	if !idx.HasStyle(style) {
		s.writeError(w, r, fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style))
		return
	}

	item, found := idx.Item(name, style)
	if !found {
		s.writeError(w, r, fmt.Errorf("%w: %s in %s", registry.ErrItemNotFound, name, style))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	name, ok := jsonFile(chi.URLParam(r, "file"))
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", errNoRoute, r.URL.Path))
		return
	}

	tree, err := s.registry.ResolveTree(r.Context(), name, chi.URLParam(r, "style"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeConfig(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.registry.Validate(r.Context(), cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, StyleName: cfg.StyleName()})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolve(w, r)
	if ok {
		writeJSON(w, http.StatusOK, res.Theme)
	}
}

func (s *Server) handleBase(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolve(w, r)
	if ok {
		writeJSON(w, http.StatusOK, res.Base)
	}
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (design.Resolution, bool) {
	cfg, err := decodeConfig(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return design.Resolution{}, false
	}
	res, err := s.registry.Resolve(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return design.Resolution{}, false
	}
	return res, true
}

// decodeConfig reads a design config body, rejecting unknown fields.
func decodeConfig(w http.ResponseWriter, r *http.Request) (design.Config, error) {
	var cfg design.Config
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return design.Config{}, badRequest("decode design config: %v", err)
	}
	return cfg, nil
}

// jsonFile strips the .json suffix of a path segment.
func jsonFile(file string) (string, bool) {
	name, ok := strings.CutSuffix(file, ".json")
	return name, ok && name != ""
}
