package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit         bool                   `json:"hit"`
	ObjectIndex int                    `json:"objectIndex"`
	Point       [3]float32             `json:"point"`
	Normal      [3]float32             `json:"normal"`
	Distance    float32                `json:"distance"`
	PixelColor  string                 `json:"pixelColor"` // Final packed color as #rrggbb
	Segments    int                    `json:"segments"`   // Ray segments traced for this pixel
	Properties  map[string]interface{} `json:"properties"`
}

// inspectResult is the outcome of tracing a single pixel
type inspectResult struct {
	Hit    integrator.HitPayload
	HasHit bool
	Path   integrator.PathResult
}

// inspectPixel traces the camera ray through pixel (x, y) of a width x height image
func inspectPixel(sc *scene.Scene, config integrator.Config, width, height, x, y int) inspectResult {
	cam := sc.NewCamera()
	cam.OnResize(uint32(width), uint32(height))

	ray := core.NewRay(cam.GetPosition(), cam.GetRayDirections()[x+y*width])
	hit, ok := integrator.TraceRay(ray, sc)

	return inspectResult{
		Hit:    hit,
		HasHit: ok,
		Path:   integrator.NewPathIntegrator(config).Trace(ray, sc),
	}
}

// sphereProperties describes the sphere that was hit
func sphereProperties(sc *scene.Scene, index int) map[string]interface{} {
	sphere := sc.Spheres[index]
	return map[string]interface{}{
		"center": vecArray(sphere.Position),
		"radius": sphere.Radius,
		"albedo": vecArray(sphere.Albedo),
		"color":  hexColor(renderer.ConvertToRGBA(sphere.Albedo.Vec4(1))),
	}
}

func vecArray(v mgl32.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}

// hexColor formats a packed pixel as #rrggbb
func hexColor(pixel uint32) string {
	c := renderer.UnpackRGBA(pixel)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config, err := parseLightingParams(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, config, inspectReq.Width, inspectReq.Height, pixelX, pixelY)

	response := InspectResponse{
		Hit:         result.HasHit,
		ObjectIndex: result.Hit.ObjectIndex,
		Distance:    result.Hit.HitDistance,
		PixelColor:  hexColor(renderer.ConvertToRGBA(result.Path.Color)),
		Segments:    result.Path.Segments,
	}
	if result.HasHit {
		response.Point = vecArray(result.Hit.WorldPosition)
		response.Normal = vecArray(result.Hit.WorldNormal)
		response.Properties = sphereProperties(sceneObj, result.Hit.ObjectIndex)
	}

	writeJSON(w, http.StatusOK, response)
}
