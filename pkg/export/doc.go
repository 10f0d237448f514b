// Package export renders positioned diagrams to output formats.
//
// # Overview
//
// Four formats are supported:
//
//   - json: the diagram document itself, for the web app
//   - dot: Graphviz DOT with every node pinned at its computed position
//   - svg: the DOT rendered through the neato engine
//   - png: the SVG rasterized with rsvg-convert
//
// The layout engine owns all geometry. Graphviz is used strictly as a
// renderer: every positioned node is emitted with a pinned pos
// attribute ("x,y!"), so neato routes edges without moving anything.
//
//	dot := export.ToDOT(d, export.Options{})
//	svg, err := export.RenderSVG(ctx, dot)
//	png, err := export.ToPNG(svg, 2.0)
//
// Or dispatch on a format value:
//
//	data, err := export.Export(ctx, d, export.FormatSVG, export.Options{})
//
// Node icons are hints for richer frontends and are not rendered here.
package export
