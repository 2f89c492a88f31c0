package integrator

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Config holds the constants of the bounce loop and the light model.
// The zero value is not useful; start from DefaultConfig.
type Config struct {
	BounceBudget   int        // Maximum reflection segments traced per pixel
	Attenuation    float32    // Multiplier applied to the contribution weight after each hit
	LightDirection mgl32.Vec3 // Direction the directional light travels (normalized on use)
	AmbientFloor   float32    // Lower bound of the diffuse light intensity
	SkyColor       mgl32.Vec3 // Color added when a ray escapes the scene
	SurfaceBias    float32    // Offset along the normal for the next bounce origin
}

// DefaultConfig returns the multi-bounce settings: two bounces, 0.7 attenuation,
// light from the (+1,+1,+1) octant, no ambient term, black sky.
func DefaultConfig() Config {
	return Config{
		BounceBudget:   2,
		Attenuation:    0.7,
		LightDirection: core.NewVec3(-1, -1, -1).Normalize(),
		AmbientFloor:   0.0,
		SkyColor:       core.NewVec3(0, 0, 0),
		SurfaceBias:    1e-5,
	}
}

// DirectLightingConfig returns the single-bounce preview variant with a small ambient term
func DirectLightingConfig() Config {
	config := DefaultConfig()
	config.BounceBudget = 1
	config.AmbientFloor = 0.1
	return config
}

// MergeConfig returns base with every non-zero field of override applied.
// AmbientFloor and SkyColor of zero are indistinguishable from "unset" and keep base.
func MergeConfig(base, override Config) Config {
	result := base
	if override.BounceBudget != 0 {
		result.BounceBudget = override.BounceBudget
	}
	if override.Attenuation != 0 {
		result.Attenuation = override.Attenuation
	}
	if override.LightDirection != (mgl32.Vec3{}) {
		result.LightDirection = override.LightDirection
	}
	if override.AmbientFloor != 0 {
		result.AmbientFloor = override.AmbientFloor
	}
	if override.SkyColor != (mgl32.Vec3{}) {
		result.SkyColor = override.SkyColor
	}
	if override.SurfaceBias != 0 {
		result.SurfaceBias = override.SurfaceBias
	}
	return result
}
