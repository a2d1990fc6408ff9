package ui

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuadVerticesTopRight(t *testing.T) {
	// 200x100 image at 100px high -> 200px wide
	v := QuadVertices(1000, 500, 200, 100, 100, 50)
	if len(v) != 24 {
		t.Fatalf("len = %d, want 24", len(v))
	}

	minX, maxX := v[0], v[0]
	minY, maxY := v[1], v[1]
	for i := 0; i < len(v); i += 4 {
		minX, maxX = min(minX, v[i]), max(maxX, v[i])
		minY, maxY = min(minY, v[i+1]), max(maxY, v[i+1])
	}

	tests := []struct {
		name      string
		got, want float32
	}{
		{"right", maxX, 0.9},  // (1000-50)/1000*2-1
		{"left", minX, 0.5},   // (1000-250)/1000*2-1
		{"top", maxY, 0.8},    // 1-50/500*2
		{"bottom", minY, 0.4}, // 1-150/500*2
	}
	for _, tt := range tests {
		if !mgl32.FloatEqualThreshold(tt.got, tt.want, 1e-5) {
			t.Errorf("%s = %f, want %f", tt.name, tt.got, tt.want)
		}
	}
}

func TestQuadVerticesUVs(t *testing.T) {
	v := QuadVertices(800, 600, 64, 64, 96, 16)
	right, top := v[4], v[9] // second and third vertices
	for i := 0; i < len(v); i += 4 {
		x, y, u, w := v[i], v[i+1], v[i+2], v[i+3]
		wantU, wantV := float32(0), float32(0)
		if x == right {
			wantU = 1
		}
		if y == top {
			wantV = 1
		}
		if u != wantU || w != wantV {
			t.Errorf("vertex (%f, %f) has uv (%f, %f), want (%f, %f)", x, y, u, w, wantU, wantV)
		}
	}
}

func TestQuadVerticesDegenerate(t *testing.T) {
	if QuadVertices(0, 600, 64, 64, 96, 16) != nil {
		t.Error("zero viewport should give no quad")
	}
	if QuadVertices(800, 600, 64, 0, 96, 16) != nil {
		t.Error("empty texture should give no quad")
	}
}
