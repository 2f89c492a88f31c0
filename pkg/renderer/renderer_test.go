package renderer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/camera"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// testLogger discards render output
type testLogger struct{}

func (testLogger) Printf(format string, args ...interface{}) {}

// fakeCamera supplies a fixed origin and direction list
type fakeCamera struct {
	position   mgl32.Vec3
	directions []mgl32.Vec3
}

func (c *fakeCamera) GetPosition() mgl32.Vec3        { return c.position }
func (c *fakeCamera) GetRayDirections() []mgl32.Vec3 { return c.directions }

// recordingSink records everything the renderer hands to the display
type recordingSink struct {
	resizes [][2]uint32
	frames  [][]uint32
}

func (s *recordingSink) Resize(width, height uint32) {
	s.resizes = append(s.resizes, [2]uint32{width, height})
}

func (s *recordingSink) SetData(pixels []uint32) {
	s.frames = append(s.frames, append([]uint32(nil), pixels...))
}

func newTestRenderer(workers, tileSize int, sink *recordingSink) *Renderer {
	config := DefaultConfig()
	config.NumWorkers = workers
	config.TileSize = tileSize
	if sink == nil {
		return NewRenderer(config, nil, testLogger{})
	}
	return NewRenderer(config, sink, testLogger{})
}

// newSizedCamera creates a scene camera resized to width x height
func newSizedCamera(sc *scene.Scene, width, height uint32) *camera.Camera {
	cam := sc.NewCamera()
	cam.OnResize(width, height)
	return cam
}

func TestRendererOnResize(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRenderer(1, 0, sink)

	r.OnResize(4, 4)
	storage := &r.FinalImage().Pixels()[0]

	r.OnResize(4, 4)
	if &r.FinalImage().Pixels()[0] != storage {
		t.Error("Expected same-size resize to keep the framebuffer storage")
	}
	if len(sink.resizes) != 1 {
		t.Errorf("Expected 1 sink resize, got %d", len(sink.resizes))
	}

	r.OnResize(8, 2)
	if len(r.FinalImage().Pixels()) != 16 {
		t.Errorf("Expected 16 pixels after resize, got %d", len(r.FinalImage().Pixels()))
	}
	if len(sink.resizes) != 2 || sink.resizes[1] != [2]uint32{8, 2} {
		t.Errorf("Expected sink resize to 8x2, got %v", sink.resizes)
	}
}

func TestRenderZeroSizeFails(t *testing.T) {
	r := newTestRenderer(1, 0, nil)
	cam := &fakeCamera{}

	err := r.Render(context.Background(), scene.NewSingleSphereScene(), cam)
	if !errors.Is(err, ErrFramebufferNotSized) {
		t.Errorf("Expected ErrFramebufferNotSized, got %v", err)
	}

	r.OnResize(0, 5)
	err = r.Render(context.Background(), scene.NewSingleSphereScene(), cam)
	if !errors.Is(err, ErrFramebufferNotSized) {
		t.Errorf("Expected ErrFramebufferNotSized for zero width, got %v", err)
	}
}

func TestRenderDirectionCountMismatch(t *testing.T) {
	r := newTestRenderer(1, 0, nil)
	r.OnResize(2, 2)

	cam := &fakeCamera{directions: make([]mgl32.Vec3, 3)}
	err := r.Render(context.Background(), scene.NewEmptyScene(), cam)
	if !errors.Is(err, ErrRayDirectionCount) {
		t.Errorf("Expected ErrRayDirectionCount, got %v", err)
	}
}

func TestRenderEmptySceneIsOpaqueBlack(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRenderer(2, 3, sink)
	r.OnResize(7, 5)

	sc := scene.NewEmptyScene()
	if err := r.Render(context.Background(), sc, newSizedCamera(sc, 7, 5)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i, p := range r.FinalImage().Pixels() {
		if p != 0xFF000000 {
			t.Fatalf("Pixel %d: expected 0xFF000000, got 0x%08X", i, p)
		}
	}
	if len(sink.frames) != 1 {
		t.Errorf("Expected 1 frame sent to sink, got %d", len(sink.frames))
	}
}

func TestRenderRedSphereCenterPixel(t *testing.T) {
	r := newTestRenderer(1, 4, nil)
	r.OnResize(9, 9)

	sc := scene.NewSingleSphereScene()
	if err := r.Render(context.Background(), sc, newSizedCamera(sc, 9, 9)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Head-on hit: red * 1/sqrt(3), and the bounce escapes to a black sky
	center := UnpackRGBA(pixelAt(r.FinalImage(), 4, 4))
	if center.R != 147 || center.G != 0 || center.B != 0 || center.A != 255 {
		t.Errorf("Expected center pixel (147,0,0,255), got %v", center)
	}

	corner := pixelAt(r.FinalImage(), 0, 0)
	if corner != 0xFF000000 {
		t.Errorf("Expected corner pixel to be sky 0xFF000000, got 0x%08X", corner)
	}

	stats := r.LastStats()
	if stats.TotalPixels != 81 {
		t.Errorf("Expected 81 pixels in stats, got %d", stats.TotalPixels)
	}
	if stats.PrimaryHits == 0 {
		t.Error("Expected some primary hits")
	}
}

func TestRenderDeterministic(t *testing.T) {
	sc := scene.NewDefaultScene()
	cam := newSizedCamera(sc, 32, 18)

	r := newTestRenderer(4, 8, nil)
	r.OnResize(32, 18)

	if err := r.Render(context.Background(), sc, cam); err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	first := append([]uint32(nil), r.FinalImage().Pixels()...)

	if err := r.Render(context.Background(), sc, cam); err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	for i, p := range r.FinalImage().Pixels() {
		if p != first[i] {
			t.Fatalf("Pixel %d differs between renders: 0x%08X vs 0x%08X", i, first[i], p)
		}
	}
}

func TestRenderWorkerCountsAgree(t *testing.T) {
	sc := scene.NewSphereGridScene(4)
	cam := newSizedCamera(sc, 40, 24)

	var reference []uint32
	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			r := newTestRenderer(workers, 7, nil)
			r.OnResize(40, 24)
			if err := r.Render(context.Background(), sc, cam); err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			pixels := r.FinalImage().Pixels()
			if reference == nil {
				reference = append([]uint32(nil), pixels...)
				return
			}
			for i, p := range pixels {
				if p != reference[i] {
					t.Fatalf("Pixel %d: expected 0x%08X, got 0x%08X", i, reference[i], p)
				}
			}
		})
	}
}

func TestRenderCancelledKeepsPreviousFrame(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRenderer(2, 2, sink)
	r.OnResize(9, 9)

	sc := scene.NewSingleSphereScene()
	cam := newSizedCamera(sc, 9, 9)
	if err := r.Render(context.Background(), sc, cam); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	previous := append([]uint32(nil), r.FinalImage().Pixels()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Render(ctx, scene.NewEmptyScene(), cam)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	for i, p := range r.FinalImage().Pixels() {
		if p != previous[i] {
			t.Fatalf("Pixel %d changed after cancelled render: 0x%08X vs 0x%08X", i, previous[i], p)
		}
	}
	if len(sink.frames) != 1 {
		t.Errorf("Expected cancelled render to skip the sink, got %d frames", len(sink.frames))
	}
}

func TestRenderCancelledMidFrame(t *testing.T) {
	r := newTestRenderer(1, 1, nil)
	r.OnResize(6, 6)

	sc := scene.NewSingleSphereScene()
	cam := newSizedCamera(sc, 6, 6)
	before := append([]uint32(nil), r.FinalImage().Pixels()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tiles := 0
	err := r.RenderWithOptions(ctx, sc, cam, RenderOptions{
		TileCallback: func(TileCompletionResult) {
			tiles++
			if tiles == 3 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	for i, p := range r.FinalImage().Pixels() {
		if p != before[i] {
			t.Fatalf("Pixel %d was published by a cancelled render", i)
		}
	}
}

func TestRenderTileCallbacks(t *testing.T) {
	r := newTestRenderer(3, 4, nil)
	r.OnResize(10, 6)

	sc := scene.NewDefaultScene()
	var results []TileCompletionResult
	err := r.RenderWithOptions(context.Background(), sc, newSizedCamera(sc, 10, 6), RenderOptions{
		TileCallback: func(result TileCompletionResult) {
			results = append(results, result)
		},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// 10x6 with 4px tiles is a 3x2 grid
	if len(results) != 6 {
		t.Fatalf("Expected 6 tile callbacks, got %d", len(results))
	}

	seen := make(map[[2]int]bool)
	for i, result := range results {
		if result.TileNumber != i+1 {
			t.Errorf("Expected tile number %d, got %d", i+1, result.TileNumber)
		}
		if result.TotalTiles != 6 {
			t.Errorf("Expected 6 total tiles, got %d", result.TotalTiles)
		}
		if result.Bounds.Min.X != result.TileX*4 || result.Bounds.Min.Y != result.TileY*4 {
			t.Errorf("Tile (%d,%d) has bounds %v", result.TileX, result.TileY, result.Bounds)
		}
		if result.TileImage.Bounds().Dx() != result.Bounds.Dx() || result.TileImage.Bounds().Dy() != result.Bounds.Dy() {
			t.Errorf("Tile image %v does not match bounds %v", result.TileImage.Bounds(), result.Bounds)
		}
		seen[[2]int{result.TileX, result.TileY}] = true

		// Tile image must match the published frame
		for y := result.Bounds.Min.Y; y < result.Bounds.Max.Y; y++ {
			for x := result.Bounds.Min.X; x < result.Bounds.Max.X; x++ {
				want := UnpackRGBA(pixelAt(r.FinalImage(), uint32(x), uint32(y)))
				got := result.TileImage.RGBAAt(x-result.Bounds.Min.X, y-result.Bounds.Min.Y)
				if got != want {
					t.Errorf("Tile pixel (%d,%d): expected %v, got %v", x, y, want, got)
				}
			}
		}
	}
	if len(seen) != 6 {
		t.Errorf("Expected 6 distinct tiles, got %d", len(seen))
	}
}
