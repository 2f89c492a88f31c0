package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/display"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	Scene      string
	Width      int
	Height     int
	Bounces    int
	Workers    int
	TileSize   int
	Scale      int
	OutputRoot string

	Direct      bool    // Single-bounce preview lighting with an ambient floor
	Attenuation float64 // 0 = integrator default
	Ambient     float64 // 0 = integrator default
	Light       string  // "x,y,z" light travel direction, empty = default
	SaveScene   string  // Write the resolved scene as JSON to this path
}

func main() {
	fs, config, help := parseFlags(os.Args[1:])
	if help {
		showHelp(fs)
		return
	}

	fmt.Println("Starting Sphere Raytracer...")

	filename, err := run(context.Background(), config, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// parseFlags parses command line flags into a Config
func parseFlags(args []string) (*flag.FlagSet, Config, bool) {
	fs := flag.NewFlagSet("raytracer", flag.ExitOnError)
	config := Config{}

	fs.StringVar(&config.Scene, "scene", "default", "Scene: built-in name ('"+strings.Join(scene.BuiltInNames(), "', '")+"') or scene name under scenes/")
	sceneFile := fs.String("scene-file", "", "Path to a JSON scene file (overrides -scene)")
	fs.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&config.Bounces, "bounces", 0, "Bounce budget per pixel (0 = default)")
	fs.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto)")
	fs.IntVar(&config.TileSize, "tile", 0, "Tile size in pixels (0 = default)")
	fs.IntVar(&config.Scale, "scale", 1, "Integer upscale factor for the saved PNG")
	fs.StringVar(&config.OutputRoot, "output", "output", "Output root directory")
	fs.BoolVar(&config.Direct, "direct", false, "Single-bounce lighting with a small ambient floor")
	fs.Float64Var(&config.Attenuation, "attenuation", 0, "Contribution multiplier per bounce in (0,1] (0 = default)")
	fs.Float64Var(&config.Ambient, "ambient", 0, "Ambient light floor in [0,1] (0 = default)")
	fs.StringVar(&config.Light, "light", "", "Light travel direction as x,y,z (empty = default)")
	fs.StringVar(&config.SaveScene, "save-scene", "", "Also write the rendered scene as JSON to this path")
	help := fs.Bool("help", false, "Show help information")
	fs.Parse(args)

	if *sceneFile != "" {
		config.Scene = *sceneFile
	}
	return fs, config, *help
}

func showHelp(fs *flag.FlagSet) {
	fmt.Println("Sphere Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	fmt.Println("  default - Pink sphere on a large blue ground sphere")
	fmt.Println("  single  - One red sphere at the origin")
	fmt.Println("  grid    - Grid of colored spheres")
	fmt.Println("  empty   - No geometry, background only")
	fmt.Println("  <name>  - scenes/<name>.json")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// run renders the configured scene and returns the saved file name
func run(ctx context.Context, config Config, logger core.Logger) (string, error) {
	sc, err := createScene(config.Scene)
	if err != nil {
		return "", err
	}

	width, height := sc.Width, sc.Height
	if config.Width > 0 {
		width = config.Width
	}
	if config.Height > 0 {
		height = config.Height
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid image size %dx%d", width, height)
	}

	integratorConfig, err := buildIntegratorConfig(config)
	if err != nil {
		return "", err
	}

	renderConfig := renderer.DefaultConfig()
	renderConfig.Integrator = integratorConfig
	if config.TileSize > 0 {
		renderConfig.TileSize = config.TileSize
	}
	renderConfig.NumWorkers = config.Workers

	sink := display.NewImageSink()
	r := renderer.NewRenderer(renderConfig, sink, logger)
	cam := sc.NewCamera()

	r.OnResize(uint32(width), uint32(height))
	cam.OnResize(uint32(width), uint32(height))

	logger.Printf("Using scene %q (%d spheres)\n", sc.Name, sc.GetPrimitiveCount())
	if err := r.Render(ctx, sc, cam); err != nil {
		return "", err
	}

	stats := r.LastStats()
	logger.Printf("Render completed in %v\n", stats.Elapsed)
	logger.Printf("Primary hits: %d/%d, segments per pixel: %.2f, average luminance: %.3f\n",
		stats.PrimaryHits, stats.TotalPixels, stats.AverageSegments,
		renderer.CalculateAverageLuminance(sink.Snapshot()))

	outputDir := createOutputDir(config.OutputRoot, config.Scene)
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	if err := display.SavePNG(filename, display.Scale(sink.Snapshot(), config.Scale)); err != nil {
		return "", err
	}

	if config.SaveScene != "" {
		sc.Width, sc.Height = width, height
		if err := scene.Save(config.SaveScene, sc); err != nil {
			return "", err
		}
		logger.Printf("Scene saved as %s\n", config.SaveScene)
	}
	return filename, nil
}

// buildIntegratorConfig applies the lighting flags to the default or direct lighting settings
func buildIntegratorConfig(config Config) (integrator.Config, error) {
	base := integrator.DefaultConfig()
	if config.Direct {
		base = integrator.DirectLightingConfig()
	}

	if config.Bounces < 0 {
		return integrator.Config{}, fmt.Errorf("bounces must not be negative, got %d", config.Bounces)
	}
	if config.Attenuation < 0 || config.Attenuation > 1 {
		return integrator.Config{}, fmt.Errorf("attenuation must be between 0 and 1, got %g", config.Attenuation)
	}
	if config.Ambient < 0 || config.Ambient > 1 {
		return integrator.Config{}, fmt.Errorf("ambient must be between 0 and 1, got %g", config.Ambient)
	}

	override := integrator.Config{
		BounceBudget: config.Bounces,
		Attenuation:  float32(config.Attenuation),
		AmbientFloor: float32(config.Ambient),
	}
	if config.Light != "" {
		light, err := core.ParseVec3(config.Light)
		if err != nil {
			return integrator.Config{}, fmt.Errorf("invalid light: %w", err)
		}
		if light == (mgl32.Vec3{}) {
			return integrator.Config{}, fmt.Errorf("light direction must not be zero")
		}
		override.LightDirection = light.Normalize()
	}
	return integrator.MergeConfig(base, override), nil
}

// createScene resolves a built-in scene name, a scene name under scenes/ or a JSON path
func createScene(sceneType string) (*scene.Scene, error) {
	sc, err := scene.Create(sceneType)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(scene.BuiltInNames(), ", "))
	}
	return sc, err
}

// createOutputDir returns the output directory for a scene; file paths use their base name
func createOutputDir(root, sceneType string) string {
	name := sceneType
	if strings.HasSuffix(name, ".json") {
		name = strings.TrimSuffix(filepath.Base(name), ".json")
	}
	return filepath.Join(root, name)
}
