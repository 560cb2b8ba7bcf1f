package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/render"
)

// RenderFromLayout generates output artifacts in the requested formats.
//
// JSON and the native SVG painter cannot fail. The Graphviz formats (dot
// text is local, but png and graphviz-rendered output need the external
// engine) degrade per-format: when the engine is unavailable the artifact
// is replaced with an inline failure message and the other formats still
// render.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatSVG:
			data = render.SVG(l)
		case FormatDOT:
			data = []byte(render.ToDOT(l))
		case FormatPNG:
			data, err = render.GraphvizPNG(ctx, render.ToDOT(l))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if errors.Is(err, render.ErrRenderDependency) {
			opts.Logger.Warn("render dependency unavailable, substituting failure artifact",
				"format", format, "err", err)
			data, err = render.FailureArtifact(format, err), nil
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
