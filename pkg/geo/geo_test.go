package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"Same", Point{1, 1}, Point{1, 1}, 0},
		{"Horizontal", Point{0, 5}, Point{10, 5}, 10},
		{"Vertical", Point{3, 0}, Point{3, -4}, 4},
		{"Diagonal345", Point{0, 0}, Point{3, 4}, 5},
		{"NegativeQuadrant", Point{-3, -4}, Point{0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Distance is symmetric.
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestDelta(t *testing.T) {
	dx, dy := Delta(Point{2, 3}, Point{7, 1})
	if dx != 5 || dy != -2 {
		t.Errorf("Delta = (%v, %v), want (5, -2)", dx, dy)
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"East", Point{0, 0}, Point{1, 0}, 0},
		{"South", Point{0, 0}, Point{0, 1}, math.Pi / 2},
		{"West", Point{0, 0}, Point{-1, 0}, math.Pi},
		{"North", Point{0, 0}, Point{0, -1}, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleBetween(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AngleBetween = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	box := func(x, y float64) Box { return BoxAround(Point{x, y}, 320, 140) }

	tests := []struct {
		name           string
		a, b           Box
		wantX, wantY   float64
		wantIntersects bool
	}{
		{
			name:  "Identical",
			a:     box(0, 0),
			b:     box(0, 0),
			wantX: 320, wantY: 140,
			wantIntersects: true,
		},
		{
			name:  "PartialBothAxes",
			a:     box(0, 0),
			b:     box(300, 100),
			wantX: 20, wantY: 40,
			wantIntersects: true,
		},
		{
			name:  "SeparatedHorizontally",
			a:     box(0, 0),
			b:     box(400, 0),
			wantX: -80, wantY: 140,
			wantIntersects: false,
		},
		{
			name:  "TouchingEdges",
			a:     box(0, 0),
			b:     box(320, 0),
			wantX: 0, wantY: 140,
			wantIntersects: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := Overlap(tt.a, tt.b)
			if gotX != tt.wantX || gotY != tt.wantY {
				t.Errorf("Overlap = (%v, %v), want (%v, %v)", gotX, gotY, tt.wantX, tt.wantY)
			}
			if got := Intersects(tt.a, tt.b); got != tt.wantIntersects {
				t.Errorf("Intersects = %v, want %v", got, tt.wantIntersects)
			}
		})
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, grid, want float64
	}{
		{0, 20, 0},
		{9, 20, 0},
		{10, 20, 20}, // half rounds away from zero
		{11, 20, 20},
		{770, 20, 780},
		{-9, 20, 0},
		{-10, 20, -20},
		{33, 0, 33}, // zero grid is a no-op
	}

	for _, tt := range tests {
		if got := Snap(tt.v, tt.grid); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.grid, got, tt.want)
		}
	}
}

func TestSnapPoint(t *testing.T) {
	got := SnapPoint(Point{770, 1149}, 20)
	if got.X != 780 || got.Y != 1140 {
		t.Errorf("SnapPoint = %v, want (780, 1140)", got)
	}
}

func TestSign(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(0.5) != 1 {
		t.Error("Sign returned unexpected values")
	}
}
