package layout

import "github.com/factlens/origintrace/pkg/diagram"

// =============================================================================
// Classification
// =============================================================================

// Classification names the nodes each cluster owns. IDs reference entries in
// the node list handed to [Compute]; IDs with no matching node are skipped,
// and a node referenced by more than one list keeps its first assignment in
// the order claim, origin, evolution, beliefs, sources, links.
type Classification struct {
	// Origin is the earliest known appearance of the claim, or empty when
	// unknown. It anchors the start of the timeline.
	Origin string `json:"origin,omitempty"`
	// Evolution lists the mutation steps between origin and claim, in
	// narrative order. Order decides timeline position.
	Evolution []string `json:"evolution,omitempty"`
	// Claim is the node under analysis.
	Claim string `json:"claim,omitempty"`
	// Beliefs lists the belief-driver nodes placed above the claim.
	Beliefs []string `json:"beliefs,omitempty"`
	// Sources lists the cited-source nodes placed below the claim.
	Sources []string `json:"sources,omitempty"`
	// Links lists auxiliary reference nodes stacked beside the sources.
	Links []string `json:"links,omitempty"`
}

// timeline returns the origin (when set) followed by the evolution steps.
// The origin visually anchors the start of the flow.
func (c Classification) timeline() []string {
	if c.Origin == "" {
		return c.Evolution
	}
	out := make([]string, 0, len(c.Evolution)+1)
	out = append(out, c.Origin)
	return append(out, c.Evolution...)
}

// filter drops IDs that do not resolve to a node and deduplicates nodes
// referenced by multiple lists. Classification is caller-supplied, so
// unknown IDs are tolerated rather than rejected.
func (c Classification) filter(index map[string]int) Classification {
	seen := make(map[string]bool, len(index))
	one := func(id string) string {
		if id == "" || seen[id] {
			return ""
		}
		if _, ok := index[id]; !ok {
			return ""
		}
		seen[id] = true
		return id
	}
	many := func(ids []string) []string {
		var out []string
		for _, id := range ids {
			if kept := one(id); kept != "" {
				out = append(out, kept)
			}
		}
		return out
	}

	var out Classification
	out.Claim = one(c.Claim)
	out.Origin = one(c.Origin)
	out.Evolution = many(c.Evolution)
	out.Beliefs = many(c.Beliefs)
	out.Sources = many(c.Sources)
	out.Links = many(c.Links)
	return out
}

// ClassifyByRole derives a classification from node roles, preserving slice
// order within each cluster. The first claim node wins; extra claim nodes
// stay unclassified. The first origin wins; extra origins join the evolution
// timeline so they remain visible.
func ClassifyByRole(nodes []diagram.Node) Classification {
	var c Classification
	for _, n := range nodes {
		switch n.Role {
		case diagram.RoleOrigin:
			if c.Origin == "" {
				c.Origin = n.ID
			} else {
				c.Evolution = append(c.Evolution, n.ID)
			}
		case diagram.RoleEvolution:
			c.Evolution = append(c.Evolution, n.ID)
		case diagram.RoleClaim:
			if c.Claim == "" {
				c.Claim = n.ID
			}
		case diagram.RoleBelief:
			c.Beliefs = append(c.Beliefs, n.ID)
		case diagram.RoleSource:
			c.Sources = append(c.Sources, n.ID)
		case diagram.RoleLink:
			c.Links = append(c.Links, n.ID)
		}
	}
	return c
}
