package layout_test

import (
	"fmt"

	"github.com/factlens/origintrace/pkg/diagram"
	"github.com/factlens/origintrace/pkg/geo"
	"github.com/factlens/origintrace/pkg/layout"
)

func ExampleCompute() {
	nodes := []diagram.Node{
		{ID: "claim", Role: diagram.RoleClaim, Label: "5G towers spread the virus"},
		{ID: "source-0", Role: diagram.RoleSource, Label: "WHO statement"},
	}
	cls := layout.Classification{Claim: "claim", Sources: []string{"source-0"}}

	for _, n := range layout.Compute(cls, nodes) {
		fmt.Printf("%s: (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// claim: (960, 540)
	// source-0: (960, 920)
}

func ExampleResolve() {
	nodes := []diagram.Node{
		{ID: "a", Position: &geo.Point{X: 500, Y: 500}},
		{ID: "b", Position: &geo.Point{X: 500, Y: 500}},
	}

	for _, n := range layout.Resolve(nodes) {
		fmt.Printf("%s: (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// a: (500, 380)
	// b: (500, 620)
}
