package renderer

import (
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderStats contains statistics about one render pass
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	PrimaryHits     int           // Camera rays that hit a sphere
	TotalSegments   int           // Ray segments traced over all bounces
	AverageSegments float64       // Segments per pixel
	TotalTiles      int           // Tiles in the pass
	NumWorkers      int           // Workers used
	Elapsed         time.Duration // Wall time of the pass
}

// add accumulates the per-tile counters of other
func (rs *RenderStats) add(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.PrimaryHits += other.PrimaryHits
	rs.TotalSegments += other.TotalSegments
}

// finalize calculates derived statistics after all tiles are merged
func (rs *RenderStats) finalize() {
	if rs.TotalPixels > 0 {
		rs.AverageSegments = float64(rs.TotalSegments) / float64(rs.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	weights := mgl32.Vec3{0.2126, 0.7152, 0.0722}
	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			rgb := mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}.Mul(1.0 / 255.0)
			total += float64(rgb.Dot(weights))
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
