package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/camera"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering. Spheres are read-only
// while a render is in flight.
type Scene struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Group        string            `json:"group,omitempty"`
	Spheres      []geometry.Sphere `json:"spheres"`
	CameraConfig camera.Config     `json:"camera"`
	Width        int               `json:"width"`  // Recommended image width
	Height       int               `json:"height"` // Recommended image height
}

// NewScene creates an empty scene with the default camera and image size
func NewScene(name string) *Scene {
	return &Scene{
		Name:         name,
		Spheres:      make([]geometry.Sphere, 0),
		CameraConfig: camera.DefaultConfig(),
		Width:        400,
		Height:       225,
	}
}

// AddSphere appends a sphere; insertion order breaks ties between equal hit distances
func (s *Scene) AddSphere(position mgl32.Vec3, radius float32, albedo mgl32.Vec3) {
	s.Spheres = append(s.Spheres, geometry.NewSphere(position, radius, albedo))
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}

// NewCamera builds a camera from the scene's camera settings
func (s *Scene) NewCamera() *camera.Camera {
	return camera.New(s.CameraConfig)
}
