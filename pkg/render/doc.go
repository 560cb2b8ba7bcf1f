// Package render turns layouts into output artifacts.
//
// The native SVG painter ([SVG]) is pure Go and deterministic: identical
// layouts produce identical bytes. The Graphviz path ([ToDOT] plus
// [GraphvizSVG]/[GraphvizPNG]) delegates placement to the dot engine and is
// useful for quick structural overviews; its failures wrap
// [ErrRenderDependency] so callers can substitute an inline message instead
// of failing the run.
package render
