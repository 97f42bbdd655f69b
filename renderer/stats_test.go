package renderer

import "testing"

func TestCountersAccumulate(t *testing.T) {
	var c counters
	c.add(1, 100)
	c.add(2, sphereTriangles(8, 8))
	if c.drawCalls != 3 {
		t.Errorf("expected 3 draw calls, got %d", c.drawCalls)
	}
	if c.triangles != 100+160 {
		t.Errorf("expected 260 triangles, got %d", c.triangles)
	}
	if cylinderTriangles(6) != 24 {
		t.Errorf("expected 24 cylinder triangles, got %d", cylinderTriangles(6))
	}
}

func TestRenderScale(t *testing.T) {
	tests := []struct {
		ratio, cap, want float64
	}{
		{1, 2, 1},
		{2, 2, 1},
		{2, 1, 0.5},
		{3, 1.5, 0.5},
		{2, 0, 1},
	}
	for _, tt := range tests {
		if got := renderScale(tt.ratio, tt.cap); got != tt.want {
			t.Errorf("renderScale(%v, %v): expected %v, got %v", tt.ratio, tt.cap, tt.want, got)
		}
	}
}

func TestUseBackbuffer(t *testing.T) {
	tests := []struct {
		antialias, multisample bool
		scale                  float64
		want                   bool
	}{
		{true, true, 1, true},
		{true, false, 1, false},
		{false, true, 1, false},
		{true, true, 0.5, false},
		{false, false, 0.5, false},
	}
	for _, tt := range tests {
		if got := useBackbuffer(tt.antialias, tt.multisample, tt.scale); got != tt.want {
			t.Errorf("useBackbuffer(%v, %v, %v): expected %v, got %v", tt.antialias, tt.multisample, tt.scale, tt.want, got)
		}
	}
}
