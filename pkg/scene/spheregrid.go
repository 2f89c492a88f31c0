package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/camera"
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) mgl32.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(
		mgl32.Clamp(float32(r), 0, 1),
		mgl32.Clamp(float32(g), 0, 1),
		mgl32.Clamp(float32(blue), 0, 1),
	)
}

// NewSphereGridScene creates a gridSize x gridSize grid of colored spheres on a ground sphere
func NewSphereGridScene(gridSize int, cameraOverrides ...camera.Config) *Scene {
	if gridSize < 2 {
		gridSize = 2
	}

	defaultCameraConfig := camera.Config{
		Position:    core.NewVec3(0, 4, 9),
		Forward:     core.NewVec3(0, -0.45, -1),
		VerticalFOV: 40.0,
		NearClip:    0.1,
		FarClip:     100.0,
	}

	s := NewScene("grid")
	s.Description = "Grid of OKLCH-colored spheres"
	s.Group = BuiltInGroup
	s.CameraConfig = applyCameraOverrides(defaultCameraConfig, cameraOverrides)
	s.Width = 400
	s.Height = 225

	// Ground sphere, the grid rests on its top at y = 0
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, core.NewVec3(0.5, 0.5, 0.5))

	// Fit the grid into roughly 6x6 units regardless of grid size
	targetArea := 6.0
	spacing := targetArea / float64(gridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			z := float64(j)*spacing - targetArea/2.0

			// Hue across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			s.AddSphere(
				core.NewVec3(float32(x), float32(radius), float32(z)),
				float32(radius),
				oklchToRGB(lightness, chroma, hue),
			)
		}
	}

	return s
}
