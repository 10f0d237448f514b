package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/factlens/origintrace/pkg/diagram"
)

// labelWrapWidth is the soft wrap column for node labels. Wrapped lines
// at the exporter's font size stay inside the default node box.
const labelWrapWidth = 28

// ToDOT converts a positioned diagram to Graphviz DOT. Every node with
// a position is pinned there (pos="x,y!" with inputscale=72), so the
// neato engine only routes edges. Nodes without a position carry no pos
// attribute and are placed by neato relative to the pinned ones.
func ToDOT(d diagram.Diagram, opts Options) string {
	opts = opts.sanitized()

	var buf bytes.Buffer
	buf.WriteString("digraph trace {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, width=%.3f, height=%.3f, fontsize=14, margin=\"0.2,0.1\"];\n",
		opts.NodeWidth/72, opts.NodeHeight/72)
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		attrs := nodeAttrs(n, d.FrameHeight, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, edgeAttrs(e.Kind))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n diagram.Node, frameHeight float64, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.Position != nil {
		// Graphviz Y grows upward; diagram Y grows downward.
		attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X, frameHeight-n.Position.Y))
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color), "fontcolor=white")
	}
	return attrs
}

func fmtLabel(n diagram.Node, detailed bool) string {
	label := wrapLabel(n.Label, labelWrapWidth)
	if !detailed {
		return label
	}

	parts := []string{label, string(n.Role)}
	if n.Detail != "" {
		parts = append(parts, wrapLabel(n.Detail, labelWrapWidth))
	}
	return strings.Join(parts, "\n")
}

// edgeAttrs styles edges by kind: flow edges read as the main path,
// influence edges dashed, support edges dotted with an open arrowhead.
func edgeAttrs(kind diagram.EdgeKind) string {
	switch kind {
	case diagram.EdgeInfluence:
		return "style=dashed"
	case diagram.EdgeSupport:
		return "style=dotted, arrowhead=empty"
	default:
		return "penwidth=2"
	}
}

// wrapLabel soft-wraps text at the given column, breaking on spaces.
// A word longer than the column stands alone on its line.
func wrapLabel(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	line := 0
	for i, w := range words {
		n := len([]rune(w))
		if i > 0 {
			if line+1+n > width {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(w)
		line += n
	}
	return b.String()
}
