package route

import (
	"fmt"
	"math"
	"strings"

	"github.com/symbolscape/symbolscape/pkg/layout"
)

// Path geometry constants, in layout units.
const (
	// MaxCornerRadius caps the rounding of orthogonal corners. Short
	// segments reduce the radius to half their length so arcs never
	// overshoot.
	MaxCornerRadius = 14.0

	// SourceOutset pushes the path start off the source node boundary.
	SourceOutset = 4.0

	// ArrowheadSize is the painted arrowhead length; the path stops short
	// of the target boundary by this much so the tip touches the node.
	ArrowheadSize = 6.0
)

// fmtCoord formats one coordinate with fixed precision. All path strings go
// through it so identical geometry always yields byte-identical output.
func fmtCoord(v float64) string {
	// Normalize negative zero so -0.00 never appears.
	if v == 0 {
		v = 0
	}
	return fmt.Sprintf("%.2f", v)
}

// OrthogonalPath emits a rounded orthogonal polyline through the given
// waypoints. Each interior corner is rounded with radius
// min(MaxCornerRadius, half the shorter adjacent segment); the arc sweep
// follows the sign of the cross product of the incoming and outgoing
// directions, so corners always curve toward the turn.
func OrthogonalPath(points []layout.Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(fmtCoord(points[0].X))
	b.WriteString(" ")
	b.WriteString(fmtCoord(points[0].Y))

	for i := 1; i < len(points); i++ {
		if i == len(points)-1 {
			lineTo(&b, points[i])
			break
		}
		prev, corner, next := points[i-1], points[i], points[i+1]
		r := cornerRadius(prev, corner, next)
		if r <= 0 {
			lineTo(&b, corner)
			continue
		}

		in := direction(prev, corner)
		out := direction(corner, next)
		entry := layout.Point{X: corner.X - in.X*r, Y: corner.Y - in.Y*r}
		exit := layout.Point{X: corner.X + out.X*r, Y: corner.Y + out.Y*r}

		lineTo(&b, entry)
		sweep := 0
		if cross(in, out) > 0 {
			sweep = 1
		}
		fmt.Fprintf(&b, " A %s %s 0 0 %d %s %s",
			fmtCoord(r), fmtCoord(r), sweep, fmtCoord(exit.X), fmtCoord(exit.Y))
	}
	return b.String()
}

// SmoothPath emits the direct smooth fallback between two anchor points: a
// cubic curve with control points at the axis midpoint.
func SmoothPath(src, dst layout.Point, o layout.Orientation) string {
	var c1, c2 layout.Point
	if o == layout.Horizontal {
		mid := (src.X + dst.X) / 2
		c1 = layout.Point{X: mid, Y: src.Y}
		c2 = layout.Point{X: mid, Y: dst.Y}
	} else {
		mid := (src.Y + dst.Y) / 2
		c1 = layout.Point{X: src.X, Y: mid}
		c2 = layout.Point{X: dst.X, Y: mid}
	}
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		fmtCoord(src.X), fmtCoord(src.Y),
		fmtCoord(c1.X), fmtCoord(c1.Y),
		fmtCoord(c2.X), fmtCoord(c2.Y),
		fmtCoord(dst.X), fmtCoord(dst.Y))
}

// PolylineMidpoint returns the point at half the total arc length of the
// polyline, so labels sit visually centered however many segments the path
// has. Degenerate polylines return their first point.
func PolylineMidpoint(points []layout.Point) layout.Point {
	if len(points) == 0 {
		return layout.Point{}
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += dist(points[i-1], points[i])
	}
	if total == 0 {
		return points[0]
	}

	half := total / 2
	for i := 1; i < len(points); i++ {
		seg := dist(points[i-1], points[i])
		if half <= seg {
			t := half / seg
			return layout.Point{
				X: points[i-1].X + (points[i].X-points[i-1].X)*t,
				Y: points[i-1].Y + (points[i].Y-points[i-1].Y)*t,
			}
		}
		half -= seg
	}
	return points[len(points)-1]
}

// CubicMidpoint evaluates a cubic curve at its parametric midpoint, used as
// the label anchor of smooth fallback paths.
func CubicMidpoint(p0, c1, c2, p3 layout.Point) layout.Point {
	// De Casteljau at t = 0.5 reduces to the weighted average below.
	return layout.Point{
		X: (p0.X + 3*c1.X + 3*c2.X + p3.X) / 8,
		Y: (p0.Y + 3*c1.Y + 3*c2.Y + p3.Y) / 8,
	}
}

func cornerRadius(prev, corner, next layout.Point) float64 {
	shorter := min(dist(prev, corner), dist(corner, next))
	return min(MaxCornerRadius, shorter/2)
}

func lineTo(b *strings.Builder, p layout.Point) {
	b.WriteString(" L ")
	b.WriteString(fmtCoord(p.X))
	b.WriteString(" ")
	b.WriteString(fmtCoord(p.Y))
}

// direction returns the unit vector from a to b. Orthogonal segments only
// ever produce axis-aligned units.
func direction(a, b layout.Point) layout.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return layout.Point{}
	}
	return layout.Point{X: dx / d, Y: dy / d}
}

func cross(a, b layout.Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

func dist(a, b layout.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
