package renderer

import (
	"context"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// TileRenderer renders pixel rectangles of one frame. It only reads the
// scene and camera rays, so many tiles may render at once.
type TileRenderer struct {
	scene      *scene.Scene
	origin     mgl32.Vec3
	directions []mgl32.Vec3
	integrator *integrator.PathIntegrator
}

// NewTileRenderer creates a tile renderer for one frame
func NewTileRenderer(sc *scene.Scene, origin mgl32.Vec3, directions []mgl32.Vec3, pathIntegrator *integrator.PathIntegrator) *TileRenderer {
	return &TileRenderer{
		scene:      sc,
		origin:     origin,
		directions: directions,
		integrator: pathIntegrator,
	}
}

// RenderTileBounds traces every pixel in bounds and writes the packed color
// to target at x + y*stride. Cancellation is checked once per row.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, target []uint32, stride int) (RenderStats, error) {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}
	ray := core.Ray{Origin: tr.origin}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := x + y*stride
			ray.Direction = tr.directions[offset]

			result := tr.integrator.Trace(ray, tr.scene)
			target[offset] = ConvertToRGBA(result.Color)

			stats.TotalSegments += result.Segments
			if result.PrimaryHit {
				stats.PrimaryHits++
			}
		}
	}

	return stats, nil
}
