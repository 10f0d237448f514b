package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Diagram: Positioned Output Document
// =============================================================================

// Diagram is a fully laid-out trace: the graph plus the frame it was
// positioned for. This is the document exporters consume and the API returns.
type Diagram struct {
	// FrameWidth and FrameHeight are the logical canvas dimensions, in the
	// same units as node positions.
	FrameWidth  float64 `json:"frame_width"`
	FrameHeight float64 `json:"frame_height"`
	// GridSize is the alignment grid the layout snapped positions to.
	GridSize float64 `json:"grid_size"`
	Nodes    []Node  `json:"nodes"`
	Edges    []Edge  `json:"edges"`
}

// ErrInvalidFrame is returned when a diagram's frame dimensions are not
// strictly positive.
var ErrInvalidFrame = errors.New("frame dimensions must be positive")

// Graph returns the diagram's node-link structure without frame metadata.
func (d Diagram) Graph() Graph {
	return Graph{Nodes: d.Nodes, Edges: d.Edges}
}

// Validate checks the frame dimensions and the embedded graph structure.
func (d Diagram) Validate() error {
	if d.FrameWidth <= 0 || d.FrameHeight <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidFrame, d.FrameWidth, d.FrameHeight)
	}
	return d.Graph().Validate()
}

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram converts a diagram to indented JSON bytes.
// The diagram is validated before encoding.
func MarshalDiagram(d Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDiagramTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDiagramFile writes a diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteDiagramFile(d Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDiagramTo(d, f)
}

// WriteDiagram writes a diagram as JSON to an io.Writer.
// Use MarshalDiagram for in-memory serialization or WriteDiagramFile for files.
func WriteDiagram(d Diagram, w io.Writer) error {
	return writeDiagramTo(d, w)
}

// ReadDiagramFile reads a JSON file and returns the decoded diagram.
// Returns validation errors for malformed documents.
func ReadDiagramFile(path string) (Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDiagramFrom(f)
}

// ReadDiagram decodes a JSON diagram from an io.Reader.
// Use ReadDiagramFile for files or pass bytes.NewReader for in-memory data.
func ReadDiagram(r io.Reader) (Diagram, error) {
	return readDiagramFrom(r)
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts an unpositioned graph to indented JSON bytes.
// The graph is validated before encoding.
func MarshalGraph(g Graph) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes an unpositioned graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
// Returns validation errors for malformed documents.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes and validates a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDiagramTo(d Diagram, w io.Writer) error {
	if err := d.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDiagramFrom(r io.Reader) (Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Diagram{}, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Diagram{}, err
	}
	return d, nil
}
