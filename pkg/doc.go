// Package pkg provides the core libraries for origintrace claim visualization.
//
// # Overview
//
// Origintrace turns completed fact-check analyses into origin-trace diagrams:
// a picture of where a claim started, how it mutated, why people believe it,
// and what the cited evidence says. The pkg directory is organized into four
// main areas:
//
//  1. [trace], [diagram] - Domain documents (analysis, graph, diagram)
//  2. [layout], [export] - Geometry and rendering
//  3. [cache], [config], [errors], [metrics], [observability] - Infrastructure
//  4. [pipeline], [api] - Orchestration and the HTTP surface
//
// # Architecture
//
// The typical data flow through origintrace:
//
//	Analysis document (claim, verdict, origin, evolution, beliefs, sources)
//	         ↓
//	    [trace] package (classify into nodes and edges)
//	         ↓
//	    [layout] package (position nodes on the frame)
//	         ↓
//	    [export] package (SVG/PNG/DOT/JSON artifacts)
//
// Each arrow is a cacheable pipeline stage; the pipeline package orchestrates
// them and the api package exposes them over HTTP.
//
// # Quick Start
//
// Trace an analysis and render an SVG:
//
//	import (
//	    "context"
//	    "github.com/factlens/origintrace/pkg/export"
//	    "github.com/factlens/origintrace/pkg/layout"
//	    "github.com/factlens/origintrace/pkg/trace"
//	)
//
//	// 1. Load the analysis
//	a, _ := trace.ReadAnalysisFile("analysis.json")
//
//	// 2. Classify into a graph
//	g, _ := trace.BuildGraph(a)
//
//	// 3. Position the nodes
//	d := layout.Arrange(g)
//
//	// 4. Render to SVG
//	svg, _ := export.Export(context.Background(), d, export.FormatSVG, export.Options{})
//
// Or run the whole chain through the cached pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//	res, _ := runner.Execute(context.Background(), a, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//
// # Main Packages
//
// ## Domain Documents
//
// [trace] - The Analysis document (claim, verdict, origin, evolution,
// beliefs, sources) and its classification into a role-annotated node-link
// graph.
//
// [diagram] - Shared Graph and Diagram documents plus their JSON
// serialization. The diagram is the positioned form exporters consume.
//
// ## Geometry and Rendering
//
// [layout] - Positions graphs on the drawing frame: region assignment by
// role, overlap resolution passes, grid snapping.
//
// [geo] - Small geometry types (points, rectangles) the layout engine works
// in.
//
// [export] - Renders positioned diagrams to SVG (via Graphviz), PNG (via
// rsvg-convert), DOT, and JSON.
//
// ## Infrastructure
//
// [cache] - File, Redis, and null cache backends behind one interface, with
// the shared keyer and content hashing. Stage results are cached by input
// hash so repeated runs are cheap.
//
// [config] - TOML server configuration with defaults overlay and
// validation.
//
// [errors] - Coded errors carried across package boundaries so the API can
// map failures to HTTP statuses and user-safe messages.
//
// [observability] - Hook interfaces for pipeline, cache, and HTTP events.
// [metrics] implements them on Prometheus collectors.
//
// [buildinfo] - Version information stamped at build time via ldflags.
//
// ## Orchestration
//
// [pipeline] - Chains trace, layout, and export behind the cache. Used by
// the CLI and the API so both entry points behave identically.
//
// [api] - The REST surface: request validation, the chi router and
// middleware stack, and JSON responses.
package pkg
