// Package layout positions origin-tracing diagrams.
//
// The engine turns a classified node list into canvas coordinates in three
// stages, each of which is a pure function over its inputs:
//
//   - Region planning ([PlanRegions]) reserves a rectangular zone per
//     cluster: the origin/evolution timeline left of center, the claim at
//     center, belief drivers above, sources below, and external links in a
//     column to the right.
//   - Initial placement fills each region using its cluster rule: a
//     left-to-right flow for the timeline, a centered grid for beliefs and
//     sources, a single fixed cell for the claim, and a jittered vertical
//     stack for links.
//   - Overlap resolution ([Resolve]) runs a fixed number of pairwise
//     separation passes, then snaps every position to the alignment grid.
//
// # Determinism
//
// [Compute] is deterministic: identical inputs produce bit-identical output
// positions. There is no randomness, no map-order dependence, and no state
// shared between calls. The input slice is never mutated; callers receive a
// fresh copy with positions assigned.
//
// # Best-effort separation
//
// The resolver runs a fixed pass budget rather than iterating to
// convergence, so pathologically dense inputs may retain residual overlap.
// It never makes things worse: if the passes would end with more
// overlapping pairs than the initial placement had, the initial positions
// are kept instead. See [Config] for the tunable spacing, grid, and pass
// parameters.
package layout
