package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/df07/go-sphere-raytracer/pkg/camera"
	"github.com/df07/go-sphere-raytracer/pkg/display"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// moveSpeed is the camera translation per tick while a key is held
const moveSpeed = 0.05

func main() {
	sceneName := flag.String("scene", "default", "Scene name or JSON scene path")
	pixelScale := flag.Int("scale", 2, "Window pixels per rendered pixel")
	bounces := flag.Int("bounces", 0, "Bounce budget per pixel (0 = default)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto)")
	direct := flag.Bool("direct", false, "Single-bounce lighting with a small ambient floor")
	attenuation := flag.Float64("attenuation", 0, "Contribution multiplier per bounce (0 = default)")
	flag.Parse()

	sc, err := scene.Create(*sceneName)
	if err != nil {
		log.Printf("Error loading scene: %v", err)
		os.Exit(1)
	}

	config := renderer.DefaultConfig()
	config.NumWorkers = *workers
	if *direct {
		config.Integrator = integrator.DirectLightingConfig()
	}
	config.Integrator = integrator.MergeConfig(config.Integrator, integrator.Config{
		BounceBudget: max(*bounces, 0),
		Attenuation:  mgl32.Clamp(float32(*attenuation), 0, 1),
	})

	v := newViewer(sc, config, max(*pixelScale, 1))

	ebiten.SetWindowTitle("Sphere Raytracer - " + sc.Name)
	ebiten.SetWindowSize(sc.Width*v.pixelScale, sc.Height*v.pixelScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(v); err != nil {
		log.Printf("Viewer error: %v", err)
		os.Exit(1)
	}
}

// viewer renders the scene into an ImageSink on a background goroutine and
// draws the latest published frame. The renderer and camera are only touched
// by Update while no render is in flight.
type viewer struct {
	scene      *scene.Scene
	cam        *camera.Camera
	renderer   *renderer.Renderer
	logger     *renderer.SwitchLogger // Enabled only for the first frame and after a resize
	sink       *display.ImageSink
	pixelScale int

	width, height int // Render size requested by Layout
	pendingMove   mgl32.Vec3
	dirty         bool

	cancel context.CancelFunc
	done   chan error

	frameImg *ebiten.Image
}

func newViewer(sc *scene.Scene, config renderer.Config, pixelScale int) *viewer {
	sink := display.NewImageSink()
	logger := renderer.NewSwitchLogger(renderer.NewDefaultLogger())
	return &viewer{
		scene:      sc,
		cam:        sc.NewCamera(),
		renderer:   renderer.NewRenderer(config, sink, logger),
		logger:     logger,
		sink:       sink,
		pixelScale: pixelScale,
		dirty:      true,
	}
}

func (v *viewer) Update() error {
	v.pollKeys()

	if v.done != nil {
		select {
		case err := <-v.done:
			v.done = nil
			v.cancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Render error: %v", err)
			}
		default:
			// A stale frame is still rendering; drop it so the next one starts sooner
			if v.dirty || v.sizeChanged() {
				v.cancel()
			}
			return nil
		}
	}

	if v.width == 0 || v.height == 0 {
		return nil
	}
	if !v.dirty && !v.sizeChanged() {
		return nil
	}

	v.logger.SetEnabled(v.sizeChanged())
	v.applyCameraMove()
	v.renderer.OnResize(uint32(v.width), uint32(v.height))
	v.cam.OnResize(uint32(v.width), uint32(v.height))
	v.dirty = false

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.done = make(chan error, 1)
	go func(done chan<- error) {
		done <- v.renderer.Render(ctx, v.scene, v.cam)
	}(v.done)

	return nil
}

// pollKeys collects camera movement from WASD, Q and E
func (v *viewer) pollKeys() {
	forward := v.cam.GetForward()
	right := v.cam.GetRight()
	up := mgl32.Vec3{0, 1, 0}

	bindings := []struct {
		key ebiten.Key
		dir mgl32.Vec3
	}{
		{ebiten.KeyW, forward},
		{ebiten.KeyS, forward.Mul(-1)},
		{ebiten.KeyD, right},
		{ebiten.KeyA, right.Mul(-1)},
		{ebiten.KeyE, up},
		{ebiten.KeyQ, up.Mul(-1)},
	}
	for _, b := range bindings {
		if ebiten.IsKeyPressed(b.key) {
			v.pendingMove = v.pendingMove.Add(b.dir.Mul(moveSpeed))
			v.dirty = true
		}
	}
}

func (v *viewer) applyCameraMove() {
	if v.pendingMove == (mgl32.Vec3{}) {
		return
	}
	v.cam.SetView(v.cam.GetPosition().Add(v.pendingMove), v.cam.GetForward())
	v.pendingMove = mgl32.Vec3{}
}

func (v *viewer) sizeChanged() bool {
	return uint32(v.width) != v.renderer.FinalImage().Width() || uint32(v.height) != v.renderer.FinalImage().Height()
}

func (v *viewer) Draw(screen *ebiten.Image) {
	frame := v.sink.Snapshot()
	if frame == nil {
		return
	}

	bounds := frame.Bounds()
	if v.frameImg == nil || v.frameImg.Bounds().Dx() != bounds.Dx() || v.frameImg.Bounds().Dy() != bounds.Dy() {
		if v.frameImg != nil {
			v.frameImg.Deallocate()
		}
		v.frameImg = ebiten.NewImage(bounds.Dx(), bounds.Dy())
	}

	v.frameImg.WritePixels(frame.Pix)
	screen.DrawImage(v.frameImg, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width = max(outsideWidth/v.pixelScale, 1)
	v.height = max(outsideHeight/v.pixelScale, 1)
	return v.width, v.height
}
