package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/display"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"` // Pixel position of the tile's top-left corner
	Y          int    `json:"y"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Completed tiles so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// FrameUpdate carries the published frame
type FrameUpdate struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Scale     int    `json:"scale"`
	ImageData string `json:"imageData"` // Base64 encoded PNG, scaled
}

// CompleteUpdate summarizes a finished render
type CompleteUpdate struct {
	ElapsedMs       int64   `json:"elapsedMs"`
	TotalPixels     int     `json:"totalPixels"`
	PrimaryHits     int     `json:"primaryHits"`
	TotalSegments   int     `json:"totalSegments"`
	AverageSegments float64 `json:"averageSegments"`
	TotalTiles      int     `json:"totalTiles"`
	NumWorkers      int     `json:"numWorkers"`
	PrimitiveCount  int     `json:"primitiveCount"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene, camera and renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Camera   core.Camera
	Renderer *renderer.Renderer
	Sink     *display.ImageSink
}

// handleRender renders one frame with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine owns the ResponseWriter
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	err = pipeline.Renderer.RenderWithOptions(ctx, pipeline.Scene, pipeline.Camera, renderer.RenderOptions{
		TileCallback: func(result renderer.TileCompletionResult) {
			s.handleTileUpdate(ctx, sseEventChan, result)
		},
	})
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	frame := pipeline.Sink.Snapshot()
	s.setLastFrame(frame)
	s.handleFrameUpdate(ctx, sseEventChan, frame, req.Scale)
	s.handleComplete(ctx, sseEventChan, pipeline, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes all SSE events until the channel closes or the client leaves
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range sseEventChan {
		// Client disconnected: keep draining so senders never block
		if ctx.Err() != nil {
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE stream
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)})
	}
}

// setupRenderingPipeline creates the scene, camera and renderer for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	config := renderer.Config{
		TileSize:   req.TileSize,
		NumWorkers: req.Workers,
		Integrator: req.Lighting,
	}

	sink := display.NewImageSink()
	r := renderer.NewRenderer(config, sink, logger)
	cam := sceneObj.NewCamera()

	r.OnResize(uint32(req.Width), uint32(req.Height))
	cam.OnResize(uint32(req.Width), uint32(req.Height))

	return &RenderingPipeline{
		Scene:    sceneObj,
		Camera:   cam,
		Renderer: r,
		Sink:     sink,
	}, nil
}

// handleTileUpdate sends a tile event
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := s.imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:      tileResult.TileX,
		TileY:      tileResult.TileY,
		X:          tileResult.Bounds.Min.X,
		Y:          tileResult.Bounds.Min.Y,
		ImageData:  tileData,
		TileNumber: tileResult.TileNumber,
		TotalTiles: tileResult.TotalTiles,
	}
	s.sendJSONEvent(ctx, sseEventChan, "tile", update)
}

// handleFrameUpdate sends the published frame
func (s *Server) handleFrameUpdate(ctx context.Context, sseEventChan chan SSEEvent, frame *image.RGBA, scale int) {
	imageData, err := s.imageToBase64PNG(display.Scale(frame, scale))
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}

	update := FrameUpdate{
		Width:     frame.Bounds().Dx(),
		Height:    frame.Bounds().Dy(),
		Scale:     scale,
		ImageData: imageData,
	}
	s.sendJSONEvent(ctx, sseEventChan, "frame", update)
}

// handleComplete sends the final statistics
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan SSEEvent, pipeline *RenderingPipeline, startTime time.Time) {
	stats := pipeline.Renderer.LastStats()
	update := CompleteUpdate{
		ElapsedMs:       time.Since(startTime).Milliseconds(),
		TotalPixels:     stats.TotalPixels,
		PrimaryHits:     stats.PrimaryHits,
		TotalSegments:   stats.TotalSegments,
		AverageSegments: stats.AverageSegments,
		TotalTiles:      stats.TotalTiles,
		NumWorkers:      stats.NumWorkers,
		PrimitiveCount:  pipeline.Scene.GetPrimitiveCount(),
	}
	s.sendJSONEvent(ctx, sseEventChan, "complete", update)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.Lighting, err = parseLightingParams(query); err != nil {
		return nil, err
	}
	req.Bounces = req.Lighting.BounceBudget
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", DefaultTileSize, 8, 512); err != nil {
		return nil, err
	}
	if req.Scale, err = parseIntParam(query, "scale", 1, 1, MaxScale); err != nil {
		return nil, err
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := display.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendJSONEvent marshals data and queues it as an SSE event
func (s *Server) sendJSONEvent(ctx context.Context, sseEventChan chan SSEEvent, eventType string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s update: %v", eventType, err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: eventType, Data: string(encoded)})
}

// sendEvent queues an SSE event unless the client has disconnected
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: message})
}
