package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

var (
	// ErrFramebufferNotSized is returned by Render before the first OnResize
	// or after a resize to zero pixels.
	ErrFramebufferNotSized = errors.New("framebuffer has zero size")

	// ErrRayDirectionCount is returned when the camera does not supply exactly
	// one ray direction per pixel.
	ErrRayDirectionCount = errors.New("camera ray directions do not match framebuffer size")
)

// Config contains configuration for the renderer
type Config struct {
	TileSize   int               // Size of each tile in pixels (0 = one tile)
	NumWorkers int               // Number of parallel workers (0 = use CPU count)
	Integrator integrator.Config // Bounce and shading parameters
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
		Integrator: integrator.DefaultConfig(),
	}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int // Tile coordinates (not pixel coordinates)
	TileY     int
	Bounds    image.Rectangle // Pixel bounds of the tile
	TileImage *image.RGBA     // Image data for just this tile

	// Progress information
	TileNumber int // Completed tiles so far in this frame (1-based)
	TotalTiles int // Total number of tiles in the image
}

// RenderOptions configures a single render call
type RenderOptions struct {
	TileCallback func(TileCompletionResult) // Called on the rendering goroutine after each tile
}

// Renderer owns the framebuffer and turns a scene plus camera into packed
// pixels. Calls to OnResize and Render must not overlap.
type Renderer struct {
	config     Config
	framebuf   *Framebuffer
	sink       core.DisplaySink
	integrator *integrator.PathIntegrator
	workerPool *WorkerPool
	logger     core.Logger
	lastStats  RenderStats
}

// NewRenderer creates a renderer with an empty framebuffer. sink may be nil.
func NewRenderer(config Config, sink core.DisplaySink, logger core.Logger) *Renderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Renderer{
		config:     config,
		framebuf:   NewFramebuffer(0, 0),
		sink:       sink,
		integrator: integrator.NewPathIntegrator(config.Integrator),
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
	}
}

// OnResize resizes the framebuffer and the display sink. Resizing to the
// current size keeps the existing storage and leaves the sink untouched.
func (r *Renderer) OnResize(width, height uint32) {
	if !r.framebuf.Resize(width, height) {
		return
	}
	if r.sink != nil {
		r.sink.Resize(width, height)
	}
}

// Render draws one frame of sc as seen by cam
func (r *Renderer) Render(ctx context.Context, sc *scene.Scene, cam core.Camera) error {
	return r.RenderWithOptions(ctx, sc, cam, RenderOptions{})
}

// RenderWithOptions draws one frame of sc as seen by cam. The frame is
// rendered into a back buffer and published only when every tile finished,
// so a cancelled or failed render leaves the previous frame in place.
func (r *Renderer) RenderWithOptions(ctx context.Context, sc *scene.Scene, cam core.Camera, options RenderOptions) error {
	fb := r.framebuf
	if fb.Empty() {
		return ErrFramebufferNotSized
	}

	width, height := int(fb.Width()), int(fb.Height())
	directions := cam.GetRayDirections()
	if len(directions) != width*height {
		return fmt.Errorf("%w: got %d, want %d", ErrRayDirectionCount, len(directions), width*height)
	}

	start := time.Now()
	tiles := NewTileGrid(width, height, r.config.TileSize)
	edge := tileStride(r.config.TileSize, width, height)
	tilesX := (width + edge - 1) / edge
	target := fb.backBuffer()
	tileRenderer := NewTileRenderer(sc, cam.GetPosition(), directions, r.integrator)

	stats := RenderStats{
		TotalTiles: len(tiles),
		NumWorkers: r.workerPool.GetNumWorkers(),
	}
	completed := 0

	r.logger.Printf("Rendering %dx%d: %d spheres, %d tiles, %d workers...\n",
		width, height, sc.GetPrimitiveCount(), len(tiles), stats.NumWorkers)

	err := r.workerPool.Run(ctx, tiles,
		func(ctx context.Context, tile *Tile) (RenderStats, error) {
			return tileRenderer.RenderTileBounds(ctx, tile.Bounds, target, width)
		},
		func(result TileResult) {
			stats.add(result.Stats)
			completed++
			if options.TileCallback == nil {
				return
			}
			options.TileCallback(TileCompletionResult{
				TileX:      result.Tile.ID % tilesX,
				TileY:      result.Tile.ID / tilesX,
				Bounds:     result.Tile.Bounds,
				TileImage:  extractRegion(target, width, result.Tile.Bounds),
				TileNumber: completed,
				TotalTiles: len(tiles),
			})
		})
	if err != nil {
		return fmt.Errorf("render %dx%d: %w", width, height, err)
	}

	fb.swap()
	stats.Elapsed = time.Since(start)
	stats.finalize()
	r.lastStats = stats
	r.logger.Printf("Frame complete in %v (%.2f segments/pixel, %d primary hits)\n",
		stats.Elapsed, stats.AverageSegments, stats.PrimaryHits)

	if r.sink != nil {
		r.sink.SetData(fb.Pixels())
	}
	return nil
}

// FinalImage returns the framebuffer holding the last completed frame
func (r *Renderer) FinalImage() *Framebuffer {
	return r.framebuf
}

// LastStats returns the statistics of the last completed frame
func (r *Renderer) LastStats() RenderStats {
	return r.lastStats
}
