package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/symbolscape/symbolscape/pkg/graph"
)

// ErrRenderDependency wraps failures of the external Graphviz rendering
// subsystem. Callers keep the diagram usable by substituting an inline
// failure artifact instead of failing the whole pipeline - see
// [FailureArtifact].
var ErrRenderDependency = errors.New("graphviz render failed")

// ToDOT converts a layout to Graphviz DOT format. Positions are not carried
// over - Graphviz computes its own with the dot engine - but node styling,
// edge families, and certainty levels are.
//
// The resulting DOT string can be rendered with [GraphvizSVG] or
// [GraphvizPNG].
func ToDOT(l graph.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph symbolscape {\n")
	if l.Orientation == graph.OrientationHorizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.35;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := nodeAttrs(n)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := edgeAttrs(e)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.LayoutNode) []string {
	attrs := []string{fmt.Sprintf("label=%q", dotLabel(n))}
	switch n.Style {
	case graph.StylePill:
		attrs = append(attrs, "shape=oval", "fontsize=12")
	case graph.StyleBundle:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// dotLabel renders a card's member rows into the label, one per line with
// its visibility glyph, matching the native SVG card reading.
func dotLabel(n graph.LayoutNode) string {
	if len(n.Members) == 0 {
		return n.Label
	}
	parts := make([]string, 0, len(n.Members)+1)
	parts = append(parts, n.Label)
	for _, m := range n.Members {
		parts = append(parts, visibilityGlyph(m.Visibility)+" "+m.Label)
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e graph.LayoutEdge) []string {
	attrs := []string{fmt.Sprintf("color=%q", e.Color)}
	if e.Family == "hierarchy" {
		attrs = append(attrs, "arrowhead=empty", "penwidth=1.6")
	}
	if e.Certainty == graph.CertaintyUncertain {
		attrs = append(attrs, "style=dashed")
	}
	if e.BundleSize > 1 {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(e.BundleSize)))
	}
	return attrs
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz. Failures wrap
// [ErrRenderDependency].
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderGraphviz(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// GraphvizPNG renders a DOT graph to PNG using Graphviz. Failures wrap
// [ErrRenderDependency].
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderGraphviz(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format, buf *bytes.Buffer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("%w: init: %v", ErrRenderDependency, err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("%w: parse DOT: %v", ErrRenderDependency, err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderDependency, err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// FailureArtifact produces an inline failure message artifact for a format
// whose external renderer is unavailable. The message renders where the
// diagram would have been; the rest of the pipeline output stays intact.
func FailureArtifact(format string, err error) []byte {
	msg := fmt.Sprintf("rendering %s failed: %v", format, err)
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 480 80" width="480" height="80">` + "\n")
	fmt.Fprintf(&buf, `  <rect width="480" height="80" rx="8" fill="#fdf2f2" stroke="#e0663d"/>`+"\n")
	fmt.Fprintf(&buf, `  <text x="16" y="45" font-size="13" fill="#7f1d1d">%s</text>`+"\n", escape(msg))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
