package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/camera"
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// NewDefaultScene creates a pink sphere resting on a large blue ground sphere
func NewDefaultScene(cameraOverrides ...camera.Config) *Scene {
	s := NewScene("default")
	s.Description = "Pink sphere on a large blue ground sphere"
	s.Group = BuiltInGroup
	s.CameraConfig = applyCameraOverrides(camera.DefaultConfig(), cameraOverrides)

	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, core.NewVec3(1, 0, 1))
	s.AddSphere(core.NewVec3(0, -101, 0), 100, core.NewVec3(0.2, 0.3, 1))

	return s
}

// NewSingleSphereScene creates one red sphere at the origin seen straight down -Z
func NewSingleSphereScene(cameraOverrides ...camera.Config) *Scene {
	s := NewScene("single")
	s.Description = "One red sphere at the origin"
	s.Group = BuiltInGroup
	s.CameraConfig = applyCameraOverrides(camera.DefaultConfig(), cameraOverrides)
	s.Width = 225

	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, core.NewVec3(1, 0, 0))

	return s
}

// NewEmptyScene creates a scene without spheres; every pixel renders as sky
func NewEmptyScene(cameraOverrides ...camera.Config) *Scene {
	s := NewScene("empty")
	s.Description = "No geometry, background only"
	s.Group = BuiltInGroup
	s.CameraConfig = applyCameraOverrides(camera.DefaultConfig(), cameraOverrides)
	return s
}

func applyCameraOverrides(base camera.Config, overrides []camera.Config) camera.Config {
	if len(overrides) > 0 {
		return camera.MergeConfig(base, overrides[0])
	}
	return base
}
