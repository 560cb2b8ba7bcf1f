package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/symbolscape/symbolscape/pkg/cache"
	"github.com/symbolscape/symbolscape/pkg/config"
	apperrors "github.com/symbolscape/symbolscape/pkg/errors"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/pipeline"
	"github.com/symbolscape/symbolscape/pkg/render"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// testServer builds a server with a file cache in a temp dir and a silent
// logger, and returns its handler for httptest-driven requests.
func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)

	s, err := New(config.Default(), runner, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, s.routes()
}

func testRawGraph() graph.RawGraph {
	return graph.RawGraph{
		CenterNodeID: "A",
		Nodes: []graph.RawNode{
			{ID: "A", Kind: graph.KindClass, Label: "A", QualifiedName: "demo::A", Depth: 0},
			{ID: "A.m", Kind: graph.KindMethod, Label: "m", QualifiedName: "demo::A::m", Depth: 0},
			{ID: "B", Kind: graph.KindClass, Label: "B", QualifiedName: "demo::B", Depth: 1},
		},
		Edges: []graph.RawEdge{
			{ID: "e1", Source: "A", Target: "A.m", Kind: graph.EdgeMember},
			{ID: "e2", Source: "A.m", Target: "B", Kind: graph.EdgeCall, Certainty: graph.CertaintyCertain},
		},
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// createGraph registers the standard fixture and returns its assigned id and
// initial layout.
func createGraph(t *testing.T, h http.Handler) (string, graph.Layout) {
	t.Helper()

	w := postJSON(t, h, "/v1/graphs", createGraphRequest{Graph: testRawGraph()})
	if w.Code != http.StatusCreated {
		t.Fatalf("create graph status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp createGraphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.GraphID == "" {
		t.Fatal("create graph returned empty graph_id")
	}
	return resp.GraphID, resp.Layout
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var e errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func TestHealthz(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", w.Body.String())
	}
}

func TestCreateGraph(t *testing.T) {
	_, h := testServer(t)

	id, l := createGraph(t, h)

	if l.CenterID != "A" {
		t.Errorf("CenterID = %q, want %q", l.CenterID, "A")
	}
	// The MEMBER edge folds away, leaving the two cards and one routed edge.
	if len(l.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(l.Nodes))
	}
	if len(l.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(l.Edges))
	}
	if l.Edges[0].Path == "" {
		t.Error("edge has no routed path")
	}
	if l.GraphID != id {
		t.Errorf("layout GraphID = %q, want assigned id %q", l.GraphID, id)
	}
}

func TestCreateGraphAppliesConfigDefaults(t *testing.T) {
	_, h := testServer(t)

	_, l := createGraph(t, h)

	// No options in the request body, so the server config supplies them.
	if l.Orientation != graph.OrientationHorizontal {
		t.Errorf("Orientation = %q, want %q", l.Orientation, graph.OrientationHorizontal)
	}
	if l.GroupingMode != graph.GroupingNone {
		t.Errorf("GroupingMode = %q, want %q", l.GroupingMode, graph.GroupingNone)
	}
}

func TestCreateGraphInvalidBody(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if e := decodeError(t, w); e.Code != string(apperrors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want %q", e.Code, apperrors.ErrCodeInvalidInput)
	}
}

func TestCreateGraphMalformedSeed(t *testing.T) {
	_, h := testServer(t)

	raw := testRawGraph()
	raw.CenterNodeID = "missing"
	w := postJSON(t, h, "/v1/graphs", createGraphRequest{Graph: raw})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if e := decodeError(t, w); e.Code != string(apperrors.ErrCodeMalformedSeed) {
		t.Errorf("error code = %q, want %q", e.Code, apperrors.ErrCodeMalformedSeed)
	}
}

func TestGetLayout(t *testing.T) {
	_, h := testServer(t)
	id, created := createGraph(t, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/graphs/"+id+"/layout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var l graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if l.CenterID != created.CenterID || len(l.Nodes) != len(created.Nodes) {
		t.Errorf("stored layout diverges from created layout")
	}
}

func TestGetLayoutUnknownGraph(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/graphs/nope/layout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if e := decodeError(t, w); e.Code != string(apperrors.ErrCodeGraphNotFound) {
		t.Errorf("error code = %q, want %q", e.Code, apperrors.ErrCodeGraphNotFound)
	}
}

func TestStyleHoverKeepsGeometry(t *testing.T) {
	_, h := testServer(t)
	id, created := createGraph(t, h)
	edgeID := created.Edges[0].ID

	w := postJSON(t, h, "/v1/graphs/"+id+"/style", styleRequest{Action: "hover", EdgeID: edgeID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var l graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}

	// Hover restyles the edge without touching its geometry.
	if l.Edges[0].Opacity != 1.0 {
		t.Errorf("hovered edge opacity = %v, want 1.0", l.Edges[0].Opacity)
	}
	if l.Edges[0].Path != created.Edges[0].Path {
		t.Errorf("hover changed edge path:\n got %q\nwant %q", l.Edges[0].Path, created.Edges[0].Path)
	}
}

func TestStyleUnknownAction(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	w := postJSON(t, h, "/v1/graphs/"+id+"/style", styleRequest{Action: "wiggle"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestStyleUnknownGraph(t *testing.T) {
	_, h := testServer(t)

	w := postJSON(t, h, "/v1/graphs/nope/style", styleRequest{Action: "hover", EdgeID: "e2"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestOverridesMoveNode(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	w := postJSON(t, h, "/v1/graphs/"+id+"/overrides", overridesRequest{
		Action: "move_node", NodeID: "B", X: 500, Y: 250,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var l graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	for _, n := range l.Nodes {
		if n.ID == "B" && (n.X != 500 || n.Y != 250) {
			t.Errorf("B at (%v, %v), want (500, 250)", n.X, n.Y)
		}
	}
}

func TestOverridesHideAndReset(t *testing.T) {
	_, h := testServer(t)
	id, created := createGraph(t, h)

	w := postJSON(t, h, "/v1/graphs/"+id+"/overrides", overridesRequest{Action: "hide_node", NodeID: "B"})
	if w.Code != http.StatusOK {
		t.Fatalf("hide_node status = %d (body %s)", w.Code, w.Body.String())
	}
	var hidden graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &hidden); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(hidden.Nodes) != len(created.Nodes)-1 {
		t.Errorf("after hide len(Nodes) = %d, want %d", len(hidden.Nodes), len(created.Nodes)-1)
	}
	// Hiding an endpoint drops its edge too.
	if len(hidden.Edges) != 0 {
		t.Errorf("after hide len(Edges) = %d, want 0", len(hidden.Edges))
	}

	w = postJSON(t, h, "/v1/graphs/"+id+"/overrides", overridesRequest{Action: "reset"})
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d (body %s)", w.Code, w.Body.String())
	}
	var restored graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &restored); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(restored.Nodes) != len(created.Nodes) || len(restored.Edges) != len(created.Edges) {
		t.Errorf("reset restored %d nodes / %d edges, want %d / %d",
			len(restored.Nodes), len(restored.Edges), len(created.Nodes), len(created.Edges))
	}
}

func TestOverridesUnknownAction(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	w := postJSON(t, h, "/v1/graphs/"+id+"/overrides", overridesRequest{Action: "teleport"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRenderFormats(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	tests := []struct {
		query      string
		wantType   string
		wantPrefix string
	}{
		{"", "image/svg+xml", "<svg"},
		{"?format=json", "application/json", "{"},
		{"?format=dot", "text/vnd.graphviz", "digraph"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/graphs/"+id+"/render"+tt.query, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("render%s status = %d, want %d (body %s)", tt.query, w.Code, http.StatusOK, w.Body.String())
			continue
		}
		if got := w.Header().Get("Content-Type"); got != tt.wantType {
			t.Errorf("render%s Content-Type = %q, want %q", tt.query, got, tt.wantType)
		}
		if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), tt.wantPrefix) {
			t.Errorf("render%s body does not start with %q", tt.query, tt.wantPrefix)
		}
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/graphs/"+id+"/render?format=bmp", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if e := decodeError(t, w); e.Code != string(apperrors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %q, want %q", e.Code, apperrors.ErrCodeInvalidFormat)
	}
}

func TestDeleteGraph(t *testing.T) {
	_, h := testServer(t)
	id, _ := createGraph(t, h)

	req := httptest.NewRequest(http.MethodDelete, "/v1/graphs/"+id+"/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/graphs/"+id+"/layout", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("layout after delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Orientation = graph.OrientationVertical
	cfg.Layout.GroupingMode = graph.GroupingFile
	cfg.Layout.BundleEdges = true

	// Empty options take everything from config.
	opts := pipeline.Options{}
	applyConfigDefaults(&opts, cfg)
	if opts.Orientation != graph.OrientationVertical {
		t.Errorf("Orientation = %q, want %q", opts.Orientation, graph.OrientationVertical)
	}
	if opts.GroupingMode != graph.GroupingFile {
		t.Errorf("GroupingMode = %q, want %q", opts.GroupingMode, graph.GroupingFile)
	}
	if !opts.BundleEdges {
		t.Error("BundleEdges = false, want true")
	}

	// Explicit request options win.
	opts = pipeline.Options{Orientation: graph.OrientationHorizontal, GroupingMode: graph.GroupingNamespace}
	applyConfigDefaults(&opts, cfg)
	if opts.Orientation != graph.OrientationHorizontal {
		t.Errorf("Orientation = %q, want request value kept", opts.Orientation)
	}
	if opts.GroupingMode != graph.GroupingNamespace {
		t.Errorf("GroupingMode = %q, want request value kept", opts.GroupingMode)
	}
}

func TestAsAppError(t *testing.T) {
	if code := apperrors.GetCode(asAppError(seed.ErrMissingCenter)); code != apperrors.ErrCodeMalformedSeed {
		t.Errorf("missing center code = %q, want %q", code, apperrors.ErrCodeMalformedSeed)
	}
	if code := apperrors.GetCode(asAppError(seed.ErrDanglingEdge)); code != apperrors.ErrCodeMalformedSeed {
		t.Errorf("dangling edge code = %q, want %q", code, apperrors.ErrCodeMalformedSeed)
	}
	if code := apperrors.GetCode(asAppError(render.ErrRenderDependency)); code != apperrors.ErrCodeRenderDependency {
		t.Errorf("render dependency code = %q, want %q", code, apperrors.ErrCodeRenderDependency)
	}
	if code := apperrors.GetCode(asAppError(io.ErrUnexpectedEOF)); code != apperrors.ErrCodeInternal {
		t.Errorf("plain error code = %q, want %q", code, apperrors.ErrCodeInternal)
	}

	// Already-coded errors pass through unchanged.
	coded := apperrors.New(apperrors.ErrCodeGraphNotFound, "unknown graph id")
	if got := asAppError(coded); got != coded {
		t.Errorf("coded error was rewrapped: %v", got)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{pipeline.FormatJSON, "application/json"},
		{pipeline.FormatSVG, "image/svg+xml"},
		{pipeline.FormatPNG, "image/png"},
		{pipeline.FormatDOT, "text/vnd.graphviz"},
		{"weird", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentType(tt.format); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
