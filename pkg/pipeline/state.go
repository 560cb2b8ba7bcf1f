package pipeline

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
	"github.com/symbolscape/symbolscape/pkg/style"
)

// DefaultSessionLimit bounds the number of live interaction sessions.
const DefaultSessionLimit = 256

// Session is the per-graph derived state kept between interactions: the
// seed, the current layout, the host override table, and the style state.
// Geometry mutations (drag, hide) re-run the layout stage; style mutations
// (hover, select, legend) only re-run the overlay.
type Session struct {
	mu sync.Mutex

	seed      *seed.GraphSeed
	opts      Options
	layout    graph.Layout
	overrides *layout.Overrides
	style     style.State
}

// Layout returns the session's current layout.
func (s *Session) Layout() graph.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// SessionTable is an LRU-bounded table of live interaction sessions keyed by
// graph id. An evicted session loses its interaction state only; reopening
// the graph rebuilds it from the (cached) pipeline stages.
type SessionTable struct {
	runner   *Runner
	sessions *lru.Cache[string, *Session]
}

// NewSessionTable creates a session table backed by the given runner.
// limit <= 0 uses DefaultSessionLimit.
func NewSessionTable(runner *Runner, limit int) (*SessionTable, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	sessions, err := lru.New[string, *Session](limit)
	if err != nil {
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return &SessionTable{runner: runner, sessions: sessions}, nil
}

// Open runs the pipeline for a raw graph and registers an interaction
// session under opts.GraphID. An existing session for the same id is
// replaced.
func (t *SessionTable) Open(ctx context.Context, raw graph.RawGraph, opts Options) (graph.Layout, error) {
	if opts.GraphID == "" {
		return graph.Layout{}, fmt.Errorf("session requires a graph id")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, fmt.Errorf("invalid options: %w", err)
	}

	s, err := t.runner.BuildSeed(ctx, raw, opts)
	if err != nil {
		return graph.Layout{}, err
	}

	sess := &Session{
		seed:      s,
		opts:      opts,
		overrides: layout.NewOverrides(),
		style: style.State{
			FocalNodeID: centerHost(s),
			Dense:       style.IsDense(s.NodeCount(), s.EdgeCount(), opts.Depth),
			HiddenKinds: make(map[string]bool),
		},
	}
	sess.opts.Overrides = sess.overrides
	sess.opts.Style = &sess.style

	l, err := t.runner.ComputeLayout(ctx, s, sess.opts)
	if err != nil {
		return graph.Layout{}, err
	}
	sess.layout = l

	t.sessions.Add(opts.GraphID, sess)
	return l, nil
}

// Get returns the session for a graph id.
func (t *SessionTable) Get(graphID string) (*Session, bool) {
	return t.sessions.Get(graphID)
}

// Close drops the session for a graph id.
func (t *SessionTable) Close(graphID string) {
	t.sessions.Remove(graphID)
}

// Len returns the number of live sessions.
func (t *SessionTable) Len() int {
	return t.sessions.Len()
}

// =============================================================================
// Style Interactions - overlay only, never re-layout
// =============================================================================

// Hover sets the hovered edge and returns the restyled layout. Only the
// style overlay runs; positions and paths are untouched.
func (t *SessionTable) Hover(ctx context.Context, graphID, edgeID string) (graph.Layout, error) {
	return t.restyle(ctx, graphID, func(st *style.State) {
		st.HoveredEdgeID = edgeID
	})
}

// Select sets the selected edge and returns the restyled layout. Selecting
// the already-selected edge clears the selection.
func (t *SessionTable) Select(ctx context.Context, graphID, edgeID string) (graph.Layout, error) {
	return t.restyle(ctx, graphID, func(st *style.State) {
		if st.SelectedEdgeID == edgeID {
			st.SelectedEdgeID = ""
			return
		}
		st.SelectedEdgeID = edgeID
	})
}

// ToggleKind flips legend visibility for an edge kind and returns the
// restyled layout.
func (t *SessionTable) ToggleKind(ctx context.Context, graphID, kind string) (graph.Layout, error) {
	return t.restyle(ctx, graphID, func(st *style.State) {
		if st.HiddenKinds == nil {
			st.HiddenKinds = make(map[string]bool)
		}
		st.HiddenKinds[kind] = !st.HiddenKinds[kind]
	})
}

func (t *SessionTable) restyle(ctx context.Context, graphID string, mutate func(*style.State)) (graph.Layout, error) {
	sess, ok := t.sessions.Get(graphID)
	if !ok {
		return graph.Layout{}, fmt.Errorf("no session for graph %q", graphID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	mutate(&sess.style)
	sess.layout = t.runner.Restyle(ctx, sess.layout, sess.style)
	return sess.layout, nil
}

// =============================================================================
// Geometry Interactions - merge overrides, re-run layout
// =============================================================================

// MoveNode records a manual drag position and returns the re-laid-out graph.
func (t *SessionTable) MoveNode(ctx context.Context, graphID, nodeID string, x, y float64) (graph.Layout, error) {
	return t.relayout(ctx, graphID, func(ov *layout.Overrides) {
		ov.Positions[nodeID] = layout.Point{X: x, Y: y}
	})
}

// HideNode hides a node (and drops its edges) and returns the re-laid-out
// graph.
func (t *SessionTable) HideNode(ctx context.Context, graphID, nodeID string) (graph.Layout, error) {
	return t.relayout(ctx, graphID, func(ov *layout.Overrides) {
		ov.HiddenNodes[nodeID] = true
	})
}

// HideEdge hides a single edge and returns the re-laid-out graph.
func (t *SessionTable) HideEdge(ctx context.Context, graphID, edgeID string) (graph.Layout, error) {
	return t.relayout(ctx, graphID, func(ov *layout.Overrides) {
		ov.HiddenEdges[edgeID] = true
	})
}

// ResetOverrides clears all drag and hide state and returns the pristine
// layout.
func (t *SessionTable) ResetOverrides(ctx context.Context, graphID string) (graph.Layout, error) {
	return t.relayout(ctx, graphID, func(ov *layout.Overrides) {
		*ov = *layout.NewOverrides()
	})
}

func (t *SessionTable) relayout(ctx context.Context, graphID string, mutate func(*layout.Overrides)) (graph.Layout, error) {
	sess, ok := t.sessions.Get(graphID)
	if !ok {
		return graph.Layout{}, fmt.Errorf("no session for graph %q", graphID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	mutate(sess.overrides)
	l, err := t.runner.ComputeLayout(ctx, sess.seed, sess.opts)
	if err != nil {
		return graph.Layout{}, err
	}
	sess.layout = l
	return l, nil
}
