package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/display"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Size limits shared by the render and inspect endpoints
const (
	MinImageSize    = 1
	MaxImageSize    = 2000
	DefaultTileSize = 64
	MaxScale        = 8
)

// Server handles web requests for the sphere raytracer
type Server struct {
	port      int
	scenesDir string
	staticDir string

	mu        sync.RWMutex
	lastFrame *image.RGBA // Most recent completed frame, served by /api/frame
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:      port,
		scenesDir: scene.FindScenesDir(),
		staticDir: "static",
	}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`    // Built-in scene ID or JSON scene name
	Width    int    `json:"width"`    // Image width
	Height   int    `json:"height"`   // Image height
	Bounces  int    `json:"bounces"`  // Bounce budget per pixel
	Workers  int    `json:"workers"`  // Parallel workers (0 = auto)
	TileSize int    `json:"tileSize"` // Tile edge in pixels
	Scale    int    `json:"scale"`    // Integer upscale for frame images

	Lighting integrator.Config `json:"-"` // Bounce loop settings built from the query
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes grouped for the scene picker
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleFrame serves the most recent completed frame as PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	scale, err := parseIntParam(r.URL.Query(), "scale", 1, 1, MaxScale)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.RLock()
	frame := s.lastFrame
	s.mu.RUnlock()

	if frame == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no frame rendered yet"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := display.WritePNG(w, display.Scale(frame, scale)); err != nil {
		log.Printf("Error writing frame: %v", err)
	}
}

// setLastFrame records a completed frame for /api/frame
func (s *Server) setLastFrame(frame *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFrame = frame
}

// parseCommonSceneParams parses the scene and image size shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	return nil
}

// parseLightingParams builds the integrator settings from bounces, direct,
// attenuation, ambient and light query parameters
func parseLightingParams(values url.Values) (integrator.Config, error) {
	base := integrator.DefaultConfig()
	if direct := values.Get("direct"); direct != "" {
		enabled, err := strconv.ParseBool(direct)
		if err != nil {
			return integrator.Config{}, fmt.Errorf("invalid direct: %s", direct)
		}
		if enabled {
			base = integrator.DirectLightingConfig()
		}
	}

	var override integrator.Config
	var err error
	if override.BounceBudget, err = parseIntParam(values, "bounces", base.BounceBudget, 0, 64); err != nil {
		return integrator.Config{}, err
	}
	if override.Attenuation, err = parseFloatParam(values, "attenuation", base.Attenuation, 0, 1); err != nil {
		return integrator.Config{}, err
	}
	if override.AmbientFloor, err = parseFloatParam(values, "ambient", base.AmbientFloor, 0, 1); err != nil {
		return integrator.Config{}, err
	}
	if light := values.Get("light"); light != "" {
		direction, err := core.ParseVec3(light)
		if err != nil {
			return integrator.Config{}, fmt.Errorf("invalid light: %w", err)
		}
		if direction == (mgl32.Vec3{}) {
			return integrator.Config{}, fmt.Errorf("light direction must not be zero")
		}
		override.LightDirection = direction.Normalize()
	}

	config := integrator.MergeConfig(base, override)
	// Explicit zeros are valid here; MergeConfig would treat them as unset
	config.BounceBudget = override.BounceBudget
	config.Attenuation = override.Attenuation
	config.AmbientFloor = override.AmbientFloor
	return config, nil
}

// resolveScene loads a built-in scene or a scene file listed in the scenes directory.
// Paths are never taken from the request.
func (s *Server) resolveScene(name string) (*scene.Scene, error) {
	if slices.Contains(scene.BuiltInNames(), name) {
		return scene.Create(name)
	}

	files, err := scene.ListJSONScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == name {
			return scene.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScene, name)
}

// createScene loads the requested scene and fills in its recommended size
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sc, err := s.resolveScene(req.Scene)
	if err != nil {
		return nil, err
	}
	if req.Width == 0 {
		req.Width = sc.Width
	}
	if req.Height == 0 {
		req.Height = sc.Height
	}
	return sc, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float32) (float32, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if float32(parsed) < min || float32(parsed) > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return float32(parsed), nil
	}
	return defaultValue, nil
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
