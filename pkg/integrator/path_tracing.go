package integrator

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// PathResult is the outcome of one pixel's bounce loop
type PathResult struct {
	Color      mgl32.Vec4 // Accumulated color, alpha always 1
	Segments   int        // Ray segments traced, including the one that missed
	PrimaryHit bool       // Whether the camera ray hit a sphere
}

// PathIntegrator drives the bounce loop for single pixels
type PathIntegrator struct {
	config Config
}

// NewPathIntegrator creates an integrator with the given configuration
func NewPathIntegrator(config Config) *PathIntegrator {
	return &PathIntegrator{config: config}
}

// PerPixel returns the final color of one camera ray
func (pi *PathIntegrator) PerPixel(ray core.Ray, sc *scene.Scene) mgl32.Vec4 {
	return pi.Trace(ray, sc).Color
}

// Trace runs the bounce loop. Each hit adds its shaded color weighted by the
// current multiplier, then the multiplier is attenuated and the ray is
// mirrored about the normal. A miss adds the sky color and ends the path.
// Running out of bounces ends the path without a sky term.
func (pi *PathIntegrator) Trace(ray core.Ray, sc *scene.Scene) PathResult {
	var result PathResult
	color := mgl32.Vec3{}
	multiplier := float32(1.0)

	for bounce := 0; bounce < pi.config.BounceBudget; bounce++ {
		result.Segments++

		payload, hit := TraceRay(ray, sc)
		if !hit {
			color = color.Add(pi.config.SkyColor.Mul(multiplier))
			break
		}
		if bounce == 0 {
			result.PrimaryHit = true
		}

		sphere := sc.Spheres[payload.ObjectIndex]
		shaded := Shade(payload.WorldNormal, sphere.Albedo, pi.config)
		color = color.Add(shaded.Mul(multiplier))

		multiplier *= pi.config.Attenuation

		ray.Origin = payload.WorldPosition.Add(payload.WorldNormal.Mul(pi.config.SurfaceBias))
		ray.Direction = core.Reflect(ray.Direction, payload.WorldNormal).Normalize()
	}

	result.Color = color.Vec4(1.0)
	return result
}

// PerPixel traces one ray with the given configuration
func PerPixel(ray core.Ray, sc *scene.Scene, config Config) mgl32.Vec4 {
	return NewPathIntegrator(config).PerPixel(ray, sc)
}
