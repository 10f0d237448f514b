// Package diagram defines the node-link vocabulary shared by every stage of
// the origin-tracing pipeline: classification produces a [Graph], the layout
// engine assigns positions, and exporters consume the resulting [Diagram].
//
// The types here are pure data. They carry no behavior beyond validation and
// serialization, so the same structs flow unchanged through the CLI, the HTTP
// API, and the cache layer.
package diagram

import (
	"errors"
	"fmt"

	"github.com/factlens/origintrace/pkg/geo"
)

// =============================================================================
// Single Source of Truth: Role and Edge Kind Definitions
// =============================================================================

// Role identifies the narrative function of a node within an origin trace.
type Role string

// Node roles. Every positioned node belongs to exactly one role; the layout
// engine groups nodes into visual clusters by role.
const (
	// RoleOrigin marks the earliest known appearance of the claim.
	RoleOrigin Role = "origin"
	// RoleEvolution marks an intermediate mutation step between the origin
	// and the claim under analysis.
	RoleEvolution Role = "evolution"
	// RoleClaim marks the claim being traced. A graph contains at most one.
	RoleClaim Role = "claim"
	// RoleBelief marks a psychological or social driver behind the claim's
	// spread.
	RoleBelief Role = "belief"
	// RoleSource marks a cited source with a reliability assessment.
	RoleSource Role = "source"
	// RoleLink marks an external reference attached to the trace.
	RoleLink Role = "link"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOrigin, RoleEvolution, RoleClaim, RoleBelief, RoleSource, RoleLink:
		return true
	}
	return false
}

// EdgeKind identifies the relationship an edge expresses.
type EdgeKind string

// Edge kinds.
const (
	// EdgeFlow connects the origin chain: origin to first evolution step,
	// step to step, last step to claim.
	EdgeFlow EdgeKind = "flow"
	// EdgeInfluence connects a belief driver to the claim it fuels.
	EdgeInfluence EdgeKind = "influence"
	// EdgeSupport connects a source to the claim it supports or disputes.
	EdgeSupport EdgeKind = "support"
)

// Valid reports whether k is one of the defined edge kinds.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeFlow, EdgeInfluence, EdgeSupport:
		return true
	}
	return false
}

// =============================================================================
// Core Types
// =============================================================================

// Node is a single element of an origin trace. Position is nil until the
// layout engine has run; serialized output omits it when unset.
type Node struct {
	ID       string     `json:"id"`
	Role     Role       `json:"role"`
	Label    string     `json:"label"`
	Detail   string     `json:"detail,omitempty"`
	Color    string     `json:"color,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Position *geo.Point `json:"position,omitempty"`
}

// Edge is a directed connection between two nodes, identified by their IDs.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Graph is an unpositioned node-link structure, the output of classification
// and the input to layout.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Validation
// =============================================================================

// Validation errors returned by [Graph.Validate].
var (
	// ErrEmptyID is returned when a node has no ID.
	ErrEmptyID = errors.New("node ID must not be empty")
	// ErrDuplicateID is returned when two nodes share an ID.
	ErrDuplicateID = errors.New("duplicate node ID")
	// ErrUnknownRole is returned when a node carries a role outside the
	// defined set.
	ErrUnknownRole = errors.New("unknown node role")
	// ErrUnknownEdgeKind is returned when an edge carries a kind outside the
	// defined set.
	ErrUnknownEdgeKind = errors.New("unknown edge kind")
	// ErrDanglingEdge is returned when an edge references a node ID that does
	// not exist in the graph.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// Validate checks structural integrity: non-empty unique node IDs, known
// roles and edge kinds, and edge endpoints that resolve to nodes.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return ErrEmptyID
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		if !n.Role.Valid() {
			return fmt.Errorf("%w: %q on node %s", ErrUnknownRole, n.Role, n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range g.Edges {
		if !e.Kind.Valid() {
			return fmt.Errorf("%w: %q on edge %s->%s", ErrUnknownEdgeKind, e.Kind, e.From, e.To)
		}
		if !seen[e.From] {
			return fmt.Errorf("%w: %s", ErrDanglingEdge, e.From)
		}
		if !seen[e.To] {
			return fmt.Errorf("%w: %s", ErrDanglingEdge, e.To)
		}
	}
	return nil
}

// =============================================================================
// Lookup and Copy Helpers
// =============================================================================

// Node returns the node with the given ID and whether it was found.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodesByRole returns the nodes carrying the given role, in graph order.
func (g Graph) NodesByRole(role Role) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Role == role {
			out = append(out, n)
		}
	}
	return out
}

// CloneNodes returns a deep copy of nodes. Position pointers are duplicated,
// so mutating a clone never aliases into the input slice.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		out[i] = n
	}
	return out
}
