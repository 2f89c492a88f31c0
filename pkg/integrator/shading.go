package integrator

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Shade returns the albedo lit by the configured directional light.
// The intensity is clamped from below by the ambient floor.
func Shade(normal, albedo mgl32.Vec3, config Config) mgl32.Vec3 {
	toLight := config.LightDirection.Normalize().Mul(-1)
	intensity := max(normal.Dot(toLight), config.AmbientFloor)
	return albedo.Mul(intensity)
}
