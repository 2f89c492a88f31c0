package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Sphere represents a sphere shape with a flat albedo
type Sphere struct {
	Position mgl32.Vec3 `json:"position"`
	Radius   float32    `json:"radius"`
	Albedo   mgl32.Vec3 `json:"albedo"`
}

// NewSphere creates a new sphere
func NewSphere(position mgl32.Vec3, radius float32, albedo mgl32.Vec3) Sphere {
	return Sphere{
		Position: position,
		Radius:   radius,
		Albedo:   albedo,
	}
}

// NearRoot solves the ray/sphere quadratic and returns the near root.
// The far root is never considered, so a ray starting inside the sphere
// reports the (negative) entry distance and the caller rejects it.
// ok is false when the discriminant is negative or the radius is not positive.
func (s Sphere) NearRoot(ray core.Ray) (t float32, ok bool) {
	// Degenerate spheres have no surface and no defined normal
	if s.Radius <= 0 {
		return 0, false
	}

	// Move the ray into sphere-local space
	origin := ray.Origin.Sub(s.Position)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * origin.Dot(ray.Direction)
	c := origin.Dot(origin) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	return (-b - core.Sqrt(discriminant)) / (2 * a), true
}
