package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCamera_OnResize(t *testing.T) {
	cam := New(DefaultConfig())
	if len(cam.GetRayDirections()) != 0 {
		t.Fatalf("Expected no ray directions before resize, got %d", len(cam.GetRayDirections()))
	}

	cam.OnResize(16, 9)
	if len(cam.GetRayDirections()) != 16*9 {
		t.Errorf("Expected %d ray directions, got %d", 16*9, len(cam.GetRayDirections()))
	}
	if cam.Width() != 16 || cam.Height() != 9 {
		t.Errorf("Expected 16x9 viewport, got %dx%d", cam.Width(), cam.Height())
	}
}

func TestCamera_OnResize_SameSizeKeepsDirections(t *testing.T) {
	cam := New(DefaultConfig())
	cam.OnResize(8, 8)
	before := &cam.GetRayDirections()[0]

	cam.OnResize(8, 8)
	after := &cam.GetRayDirections()[0]
	if before != after {
		t.Error("Expected same-size resize to keep the direction buffer")
	}
}

func TestCamera_CenterPixelLooksForward(t *testing.T) {
	tests := []struct {
		name    string
		forward mgl32.Vec3
	}{
		{"down -Z", mgl32.Vec3{0, 0, -1}},
		{"down +X", mgl32.Vec3{1, 0, 0}},
		{"angled", mgl32.Vec3{1, -0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(Config{Position: mgl32.Vec3{1, 2, 3}, Forward: tt.forward})
			cam.OnResize(9, 9)

			center := cam.GetRayDirections()[4+4*9]
			expected := tt.forward.Normalize()
			if !center.ApproxEqualThreshold(expected, 1e-4) {
				t.Errorf("Expected center direction %v, got %v", expected, center)
			}
		})
	}
}

func TestCamera_VerticalForward(t *testing.T) {
	tests := []struct {
		name    string
		forward mgl32.Vec3
	}{
		{"straight down", mgl32.Vec3{0, -1, 0}},
		{"straight up", mgl32.Vec3{0, 1, 0}},
		{"unnormalized down", mgl32.Vec3{0, -4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(Config{Position: mgl32.Vec3{0, 3, 0}, Forward: tt.forward})
			cam.OnResize(3, 3)

			for i, dir := range cam.GetRayDirections() {
				if math.IsNaN(float64(dir.Len())) || mgl32.Abs(dir.Len()-1) > 1e-4 {
					t.Fatalf("Expected unit direction at pixel %d, got %v", i, dir)
				}
			}

			center := cam.GetRayDirections()[1+1*3]
			expected := tt.forward.Normalize()
			if !center.ApproxEqualThreshold(expected, 1e-4) {
				t.Errorf("Expected center direction %v, got %v", expected, center)
			}

			right := cam.GetRight()
			if mgl32.Abs(right.Len()-1) > 1e-4 || mgl32.Abs(right.Dot(expected)) > 1e-4 {
				t.Errorf("Expected unit right vector perpendicular to forward, got %v", right)
			}
		})
	}
}

func TestCamera_GetRight(t *testing.T) {
	cam := New(DefaultConfig())
	expected := mgl32.Vec3{1, 0, 0}
	if !cam.GetRight().ApproxEqualThreshold(expected, 1e-6) {
		t.Errorf("Expected right %v, got %v", expected, cam.GetRight())
	}

	cam.OnResize(3, 1)
	// Rightmost pixel leans toward +X
	if cam.GetRayDirections()[2][0] <= 0 {
		t.Errorf("Expected rightmost direction with positive x, got %v", cam.GetRayDirections()[2])
	}
}

func TestCamera_RowZeroIsTop(t *testing.T) {
	cam := New(DefaultConfig())
	cam.OnResize(4, 4)
	dirs := cam.GetRayDirections()

	top := dirs[1]        // x=1, y=0
	bottom := dirs[1+3*4] // x=1, y=3
	left := dirs[0+1*4]   // x=0, y=1
	right := dirs[3+1*4]  // x=3, y=1

	if top[1] <= 0 || bottom[1] >= 0 {
		t.Errorf("Expected top row to look up and bottom row down, got top=%v bottom=%v", top, bottom)
	}
	if left[0] >= 0 || right[0] <= 0 {
		t.Errorf("Expected left column to look left and right column right, got left=%v right=%v", left, right)
	}
}

func TestCamera_DirectionsAreUnitLength(t *testing.T) {
	cam := New(DefaultConfig())
	cam.OnResize(7, 5)

	for i, dir := range cam.GetRayDirections() {
		if mgl32.Abs(dir.Len()-1) > 1e-5 {
			t.Errorf("Direction %d has length %f", i, dir.Len())
		}
	}
}

func TestCamera_SetView(t *testing.T) {
	cam := New(DefaultConfig())
	cam.OnResize(3, 3)

	cam.SetView(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 0, 2})
	if cam.GetPosition() != (mgl32.Vec3{0, 5, 0}) {
		t.Errorf("Expected position (0,5,0), got %v", cam.GetPosition())
	}
	center := cam.GetRayDirections()[1+1*3]
	if !center.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4) {
		t.Errorf("Expected center direction (0,0,1), got %v", center)
	}
}

func TestMergeConfig(t *testing.T) {
	base := DefaultConfig()
	merged := MergeConfig(base, Config{VerticalFOV: 60})

	if merged.VerticalFOV != 60 {
		t.Errorf("Expected FOV 60, got %f", merged.VerticalFOV)
	}
	if merged.Position != base.Position {
		t.Errorf("Expected position %v to be kept, got %v", base.Position, merged.Position)
	}
}
