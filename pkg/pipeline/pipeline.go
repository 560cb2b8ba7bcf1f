// Package pipeline provides the core layout pipeline for Symbolscape.
//
// This package implements the complete seed → layout → route → export
// pipeline that can be used by CLI, API, and embedding hosts. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three cached stages plus a cheap overlay:
//
//  1. Seed: Validate and normalize the raw indexer graph into a canonical seed
//  2. Layout: Compute positions, group containers, bundle trunks, and routes
//  3. Render: Generate output in various formats (JSON, SVG, DOT, PNG)
//
// Style attributes ride on the exported layout but are recomputed
// independently of geometry - see Restyle. Hover and selection changes never
// re-run the layout stage.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Orientation:  "horizontal",
//	    GroupingMode: "namespace",
//	    BundleEdges:  true,
//	    Formats:      []string{"json"},
//	}
//	result, err := runner.Execute(ctx, raw, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
//
// Run individual stages:
//
//	// Seed only
//	s, err := runner.BuildSeed(ctx, raw, opts)
//
//	// Layout with an existing seed
//	l, err := runner.ComputeLayout(ctx, s, opts)
package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/symbolscape/symbolscape/pkg/cache"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
	"github.com/symbolscape/symbolscape/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Hosts
// =============================================================================

const (
	// DefaultDepth is the traversal depth assumed when the indexer did not
	// report one. Depth feeds the density heuristic only; it never limits
	// the nodes already present in the raw graph.
	DefaultDepth = 2
)

// DefaultOrientation is the default flow axis.
const DefaultOrientation = graph.OrientationHorizontal

// DefaultGroupingMode is the default grouping mode.
const DefaultGroupingMode = graph.GroupingNone

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidOrientations is the set of supported flow axes.
var ValidOrientations = map[string]bool{
	graph.OrientationHorizontal: true,
	graph.OrientationVertical:   true,
}

// ValidGroupingModes is the set of supported grouping modes.
var ValidGroupingModes = map[string]bool{
	graph.GroupingNone:      true,
	graph.GroupingNamespace: true,
	graph.GroupingFile:      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Seed options
	GraphID        string   `json:"graph_id,omitempty"`
	NodeKindFilter []string `json:"node_kind_filter,omitempty"` // drop raw nodes of these kinds before seeding
	Depth          int      `json:"depth,omitempty"`            // traversal depth reported by the indexer
	Refresh        bool     `json:"refresh,omitempty"`

	// Layout options
	Orientation  string `json:"orientation,omitempty"`
	GroupingMode string `json:"grouping_mode,omitempty"`
	BundleEdges  bool   `json:"bundle_edges,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger       `json:"-"`
	Overrides *layout.Overrides `json:"-"` // host-driven drag/hide side table
	Style     *style.State      `json:"-"` // interaction state for the initial overlay

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seed is the canonical normalized graph.
	Seed *seed.GraphSeed

	// SeedHash is the content hash of the seed.
	SeedHash string

	// Layout contains positioned nodes, containers, and routed edges.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	SeedTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SeedHit   bool // Whether the seed came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrientation checks that an orientation is valid.
func ValidateOrientation(orientation string) error {
	if !ValidOrientations[orientation] {
		return fmt.Errorf("invalid orientation: %q (must be one of: horizontal, vertical)", orientation)
	}
	return nil
}

// ValidateGroupingMode checks that a grouping mode is valid.
func ValidateGroupingMode(mode string) error {
	if !ValidGroupingModes[mode] {
		return fmt.Errorf("invalid grouping_mode: %q (must be one of: none, namespace, file)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetSeedDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetSeedDefaults sets default values for seed construction.
func (o *Options) SetSeedDefaults() {
	if o.Depth == 0 {
		o.Depth = DefaultDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.GroupingMode == "" {
		o.GroupingMode = DefaultGroupingMode
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}
	return ValidateGroupingMode(o.GroupingMode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// IsHorizontal returns true if this is a horizontal (left-to-right) layout.
func (o *Options) IsHorizontal() bool {
	return o.Orientation == "" || o.Orientation == graph.OrientationHorizontal
}

// SeedKeyOpts returns cache key options for seed construction.
func (o *Options) SeedKeyOpts() cache.SeedKeyOpts {
	filter := append([]string(nil), o.NodeKindFilter...)
	sort.Strings(filter)
	return cache.SeedKeyOpts{NodeKindFilter: filter}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Orientation:  o.Orientation,
		GroupingMode: o.GroupingMode,
		BundleEdges:  o.BundleEdges,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

// filteredKinds returns the node kind filter as a lookup set.
func (o *Options) filteredKinds() map[string]bool {
	if len(o.NodeKindFilter) == 0 {
		return nil
	}
	m := make(map[string]bool, len(o.NodeKindFilter))
	for _, k := range o.NodeKindFilter {
		m[strings.ToLower(k)] = true
	}
	return m
}
