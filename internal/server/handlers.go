package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/symbolscape/symbolscape/pkg/config"
	apperrors "github.com/symbolscape/symbolscape/pkg/errors"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/pipeline"
	"github.com/symbolscape/symbolscape/pkg/render"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// createGraphRequest is the body of POST /v1/graphs.
type createGraphRequest struct {
	Graph   graph.RawGraph   `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// createGraphResponse returns the assigned id and the initial layout.
type createGraphResponse struct {
	GraphID string       `json:"graph_id"`
	Layout  graph.Layout `json:"layout"`
}

// styleRequest is the body of POST /v1/graphs/{id}/style. Exactly one action
// is applied per request.
type styleRequest struct {
	Action string `json:"action"` // hover, select, toggle_kind
	EdgeID string `json:"edge_id,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// overridesRequest is the body of POST /v1/graphs/{id}/overrides.
type overridesRequest struct {
	Action string  `json:"action"` // move_node, hide_node, hide_edge, reset
	NodeID string  `json:"node_id,omitempty"`
	EdgeID string  `json:"edge_id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	req.Options.GraphID = uuid.NewString()
	applyConfigDefaults(&req.Options, s.cfg)
	req.Options.Logger = s.logger

	l, err := s.sessions.Open(r.Context(), req.Graph, req.Options)
	if err != nil {
		writeError(w, s.logger, asAppError(err))
		return
	}

	writeJSON(w, http.StatusCreated, createGraphResponse{
		GraphID: req.Options.GraphID,
		Layout:  l,
	})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "graphID"))
	if !ok {
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeGraphNotFound, "unknown graph id"))
		return
	}
	writeJSON(w, http.StatusOK, sess.Layout())
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	var (
		l   graph.Layout
		err error
	)
	switch req.Action {
	case "hover":
		l, err = s.sessions.Hover(r.Context(), graphID, req.EdgeID)
	case "select":
		l, err = s.sessions.Select(r.Context(), graphID, req.EdgeID)
	case "toggle_kind":
		l, err = s.sessions.ToggleKind(r.Context(), graphID, req.Kind)
	default:
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown style action %q", req.Action))
		return
	}
	if err != nil {
		writeError(w, s.logger, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	var req overridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	var (
		l   graph.Layout
		err error
	)
	switch req.Action {
	case "move_node":
		l, err = s.sessions.MoveNode(r.Context(), graphID, req.NodeID, req.X, req.Y)
	case "hide_node":
		l, err = s.sessions.HideNode(r.Context(), graphID, req.NodeID)
	case "hide_edge":
		l, err = s.sessions.HideEdge(r.Context(), graphID, req.EdgeID)
	case "reset":
		l, err = s.sessions.ResetOverrides(r.Context(), graphID)
	default:
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown override action %q", req.Action))
		return
	}
	if err != nil {
		writeError(w, s.logger, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	sess, ok := s.sessions.Get(graphID)
	if !ok {
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeGraphNotFound, "unknown graph id"))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "validate format"))
		return
	}

	opts := pipeline.Options{
		GraphID: graphID,
		Formats: []string{format},
		Logger:  s.logger,
	}
	artifacts, err := s.runner.Render(r.Context(), sess.Layout(), opts)
	if err != nil {
		writeError(w, s.logger, asAppError(err))
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	s.sessions.Close(chi.URLParam(r, "graphID"))
	w.WriteHeader(http.StatusNoContent)
}

// applyConfigDefaults layers server-level layout defaults under the request
// options.
func applyConfigDefaults(opts *pipeline.Options, cfg config.Config) {
	if opts.Orientation == "" {
		opts.Orientation = cfg.Layout.Orientation
	}
	if opts.GroupingMode == "" {
		opts.GroupingMode = cfg.Layout.GroupingMode
	}
	if !opts.BundleEdges {
		opts.BundleEdges = cfg.Layout.BundleEdges
	}
}

// asAppError maps pipeline errors onto structured API errors.
func asAppError(err error) error {
	switch {
	case apperrors.GetCode(err) != "":
		return err
	case errors.Is(err, seed.ErrMissingCenter), errors.Is(err, seed.ErrDanglingEdge):
		return apperrors.Wrap(apperrors.ErrCodeMalformedSeed, err, "build seed")
	case errors.Is(err, render.ErrRenderDependency):
		return apperrors.Wrap(apperrors.ErrCodeRenderDependency, err, "render")
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "pipeline")
	}
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}
