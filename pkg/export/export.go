package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/factlens/origintrace/pkg/diagram"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/layout"
)

// Format identifies an output format.
type Format string

// Supported output formats.
const (
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// Valid reports whether the format is one of the supported constants.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatDOT, FormatSVG, FormatPNG:
		return true
	}
	return false
}

// ParseFormat converts a user-supplied string to a Format.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", errs.New(errs.ErrCodeInvalidFormat,
			fmt.Sprintf("unknown export format %q (want json, dot, svg or png)", s))
	}
	return f, nil
}

// DefaultScale is the PNG supersampling factor used when Options.Scale is
// zero. 2x output stays sharp on high-DPI displays.
const DefaultScale = 2.0

// Options configures diagram rendering.
type Options struct {
	// NodeWidth and NodeHeight size the rendered node boxes, in the
	// same units as node positions. Zero means the layout defaults.
	NodeWidth  float64
	NodeHeight float64

	// Detailed adds role and detail lines to node labels.
	// When false, only the label is shown.
	Detailed bool

	// Scale is the PNG supersampling factor. Zero means [DefaultScale].
	Scale float64
}

func (o Options) sanitized() Options {
	if o.NodeWidth <= 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// Export renders a diagram to the requested format. The diagram is
// validated first, so malformed documents fail the same way in every
// format.
func Export(ctx context.Context, d diagram.Diagram, format Format, opts Options) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "diagram failed validation")
	}

	switch format {
	case FormatJSON:
		data, err := diagram.MarshalDiagram(d)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode diagram")
		}
		return data, nil

	case FormatDOT:
		return []byte(ToDOT(d, opts)), nil

	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(d, opts))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
		return svg, nil

	case FormatPNG:
		svg, err := RenderSVG(ctx, ToDOT(d, opts))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
		png, err := ToPNG(svg, opts.sanitized().Scale)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "rasterize png")
		}
		return png, nil

	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat,
			fmt.Sprintf("unknown export format %q", string(format)))
	}
}
