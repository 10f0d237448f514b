package trace

import (
	"fmt"
	"strings"

	"github.com/factlens/origintrace/pkg/diagram"
)

// =============================================================================
// Graph Construction
// =============================================================================

// maxLabelRunes caps node labels; longer text is cut with an ellipsis. The
// canvas card is fixed-size, so labels past this length never render anyway.
const maxLabelRunes = 80

// Role presentation. Claim and source colors are picked per verdict and
// reliability instead.
const (
	colorOrigin    = "#7c3aed"
	colorEvolution = "#6366f1"
	colorBelief    = "#0ea5e9"
	colorLink      = "#64748b"

	colorTrue       = "#16a34a"
	colorFalse      = "#dc2626"
	colorMisleading = "#d97706"
	colorUnverified = "#6b7280"
)

var roleIcons = map[diagram.Role]string{
	diagram.RoleOrigin:    "map-pin",
	diagram.RoleEvolution: "trending-up",
	diagram.RoleClaim:     "alert-circle",
	diagram.RoleBelief:    "brain",
	diagram.RoleSource:    "file-text",
	diagram.RoleLink:      "external-link",
}

// BuildGraph classifies the analysis into diagram nodes and role-adjacency
// edges: the origin chain flows into the claim, beliefs influence it, and
// sources support or dispute it. Node IDs are stable across rebuilds of the
// same analysis, so cached layouts stay valid.
func BuildGraph(a Analysis) (diagram.Graph, error) {
	if err := a.Validate(); err != nil {
		return diagram.Graph{}, err
	}

	var g diagram.Graph

	// The flow chain reads origin, evolution steps, claim; edges connect
	// consecutive members.
	var chain []string
	if a.Origin != nil {
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:     "origin",
			Role:   diagram.RoleOrigin,
			Label:  truncate(a.Origin.Description),
			Detail: joinDetail(a.Origin.Platform, a.Origin.Date),
			Color:  colorOrigin,
			Icon:   roleIcons[diagram.RoleOrigin],
		})
		chain = append(chain, "origin")
	}
	for i, step := range a.Evolution {
		id := fmt.Sprintf("step-%d", i)
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:     id,
			Role:   diagram.RoleEvolution,
			Label:  truncate(step.Description),
			Detail: step.Date,
			Color:  colorEvolution,
			Icon:   roleIcons[diagram.RoleEvolution],
		})
		chain = append(chain, id)
	}

	verdict := a.Verdict
	if verdict == "" {
		verdict = VerdictUnverified
	}
	g.Nodes = append(g.Nodes, diagram.Node{
		ID:     "claim",
		Role:   diagram.RoleClaim,
		Label:  truncate(a.Claim),
		Detail: string(verdict),
		Color:  verdictColor(verdict),
		Icon:   roleIcons[diagram.RoleClaim],
	})
	chain = append(chain, "claim")

	for i := 1; i < len(chain); i++ {
		g.Edges = append(g.Edges, diagram.Edge{From: chain[i-1], To: chain[i], Kind: diagram.EdgeFlow})
	}

	for i, b := range a.Beliefs {
		id := fmt.Sprintf("belief-%d", i)
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:     id,
			Role:   diagram.RoleBelief,
			Label:  truncate(b.Driver),
			Detail: b.Explanation,
			Color:  colorBelief,
			Icon:   roleIcons[diagram.RoleBelief],
		})
		g.Edges = append(g.Edges, diagram.Edge{From: id, To: "claim", Kind: diagram.EdgeInfluence})
	}

	for i, s := range a.Sources {
		id := fmt.Sprintf("source-%d", i)
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:     id,
			Role:   diagram.RoleSource,
			Label:  truncate(s.Title),
			Detail: s.URL,
			Color:  reliabilityColor(s.Reliability),
			Icon:   roleIcons[diagram.RoleSource],
		})
		g.Edges = append(g.Edges, diagram.Edge{From: id, To: "claim", Kind: diagram.EdgeSupport})
	}

	// Links are floating references; no edges.
	for i, url := range a.Links {
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:     fmt.Sprintf("link-%d", i),
			Role:   diagram.RoleLink,
			Label:  truncate(url),
			Detail: url,
			Color:  colorLink,
			Icon:   roleIcons[diagram.RoleLink],
		})
	}

	return g, nil
}

// verdictColor maps a verdict to its card color.
func verdictColor(v Verdict) string {
	switch v {
	case VerdictTrue:
		return colorTrue
	case VerdictFalse:
		return colorFalse
	case VerdictMisleading:
		return colorMisleading
	default:
		return colorUnverified
	}
}

// reliabilityColor buckets a source's reliability score into the same
// palette the verdicts use: solid, questionable, unreliable.
func reliabilityColor(score float64) string {
	switch {
	case score >= 0.7:
		return colorTrue
	case score >= 0.4:
		return colorMisleading
	default:
		return colorFalse
	}
}

// truncate cuts s at maxLabelRunes, appending an ellipsis. Rune-safe.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return strings.TrimRight(string(runes[:maxLabelRunes]), " ") + "..."
}

// joinDetail joins the non-empty parts with a comma.
func joinDetail(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, ", ")
}
