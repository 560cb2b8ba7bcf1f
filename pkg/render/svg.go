package render

import (
	"bytes"
	"fmt"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
)

// Painting constants, in SVG user units (same space as layout units).
const (
	frameMargin   = 60.0
	cornerRound   = 8.0
	pillRound     = 21.0
	badgeRadius   = 10.0
	memberFont    = 12.0
	titleFont     = 14.0
	containerFont = 13.0
)

// Fill and stroke palette for nodes and containers. Edge colors come from
// the style overlay and ride on each edge.
const (
	cardFill        = "#ffffff"
	cardStroke      = "#c3c8d4"
	cardHeaderFill  = "#f1f3f8"
	pillFill        = "#f7f8fa"
	containerFill   = "#fafbfc"
	containerStroke = "#d5d9e0"
	textColor       = "#2b2f36"
	mutedTextColor  = "#6b7280"
	badgeFill       = "#4a8fd4"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	showLabels bool
}

// WithBackground sets a solid background color; default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithEdgeLabels renders bundle-count badges at edge label anchors.
func WithEdgeLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// SVG paints a layout into a standalone SVG document. Containers render
// below content; nodes render in slice order; edges render above containers
// but below nodes so paths tuck under cards.
//
// The output is deterministic: identical layouts produce identical bytes.
func SVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{showLabels: true}
	for _, opt := range opts {
		opt(&r)
	}

	origins := containerOrigins(l)
	minX, minY, maxX, maxY := bounds(l, origins)
	w, h := maxX-minX+2*frameMargin, maxY-minY+2*frameMargin
	dx, dy := frameMargin-minX, frameMargin-minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, r.background)
	}
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f)">`+"\n", dx, dy)

	for _, c := range l.Containers {
		renderContainer(&buf, c)
	}
	for _, e := range l.Edges {
		renderEdge(&buf, e, r.showLabels)
	}
	for _, n := range l.Nodes {
		renderNode(&buf, n, origins)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func containerOrigins(l graph.Layout) map[string]layout.Point {
	m := make(map[string]layout.Point, len(l.Containers))
	for _, c := range l.Containers {
		m[c.ID] = layout.Point{X: c.X, Y: c.Y}
	}
	return m
}

// bounds computes the absolute bounding box over nodes and containers.
// Edge paths stay inside the hull of their endpoints plus the margin.
func bounds(l graph.Layout, origins map[string]layout.Point) (minX, minY, maxX, maxY float64) {
	first := true
	extend := func(x, y, w, h float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x+w, y+h
			first = false
			return
		}
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x+w), max(maxY, y+h)
	}

	for _, n := range l.Nodes {
		x, y := absolutePos(n, origins)
		extend(x, y, n.Width, n.Height)
	}
	for _, c := range l.Containers {
		extend(c.X, c.Y, c.Width, c.Height)
	}
	if first {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

func absolutePos(n graph.LayoutNode, origins map[string]layout.Point) (float64, float64) {
	if o, ok := origins[n.ParentID]; ok {
		return n.X + o.X, n.Y + o.Y
	}
	return n.X, n.Y
}

func renderContainer(buf *bytes.Buffer, c graph.LayoutContainer) {
	fmt.Fprintf(buf, `    <g id="container-%s">`+"\n", c.ID)
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
		c.X, c.Y, c.Width, c.Height, cornerRound, containerFill, containerStroke)
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="%.0f" fill="%s">%s</text>`+"\n",
		c.X+12, c.Y+22, containerFont, mutedTextColor, escape(c.Label))
	buf.WriteString("    </g>\n")
}

func renderEdge(buf *bytes.Buffer, e graph.LayoutEdge, showLabels bool) {
	dash := ""
	if e.Certainty == graph.CertaintyUncertain {
		dash = ` stroke-dasharray="5 4"`
	}
	fmt.Fprintf(buf, `    <path id="edge-%s" d="%s" fill="none" stroke="%s" stroke-width="%.2f" opacity="%.2f"%s/>`+"\n",
		e.ID, e.Path, e.Color, e.StrokeWidth, e.Opacity, dash)

	if showLabels && e.BundleSize > 1 {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" opacity="%.2f"/>`+"\n",
			e.LabelX, e.LabelY, badgeRadius, badgeFill, e.Opacity)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.0f" fill="#ffffff" text-anchor="middle">%d</text>`+"\n",
			e.LabelX, e.LabelY+4, memberFont, e.BundleSize)
	}
}

func renderNode(buf *bytes.Buffer, n graph.LayoutNode, origins map[string]layout.Point) {
	x, y := absolutePos(n, origins)

	fmt.Fprintf(buf, `    <g id="node-%s">`+"\n", n.ID)
	switch n.Style {
	case graph.StylePill:
		fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
			x, y, n.Width, n.Height, pillRound, pillFill, cardStroke)
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			x+n.Width/2, y+n.Height/2+4, titleFont, textColor, escape(n.Label))
	default:
		renderCard(buf, n, x, y)
	}
	buf.WriteString("    </g>\n")
}

func renderCard(buf *bytes.Buffer, n graph.LayoutNode, x, y float64) {
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
		x, y, n.Width, n.Height, cornerRound, cardFill, cardStroke)
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s"/>`+"\n",
		x, y, n.Width, layout.CardHeaderHeight, cornerRound, cardHeaderFill)
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
		x+12, y+22, titleFont, textColor, escape(n.Label))

	rowY := y + layout.CardHeaderHeight
	for _, m := range n.Members {
		if rowY+layout.MemberRowHeight > y+n.Height {
			break
		}
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="%.0f" fill="%s">%s %s</text>`+"\n",
			x+12, rowY+layout.MemberRowHeight-6, memberFont, mutedTextColor,
			visibilityGlyph(m.Visibility), escape(m.Label))
		rowY += layout.MemberRowHeight
	}
}

// visibilityGlyph maps a visibility bucket to its UML marker.
func visibilityGlyph(v string) string {
	switch v {
	case "protected":
		return "#"
	case "private":
		return "-"
	case "default":
		return "~"
	default:
		return "+"
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
