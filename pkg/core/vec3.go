package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// NewVec3 creates a new mgl32.Vec3
func NewVec3(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x, y, z}
}

// Reflect mirrors the direction d about the normal n: d - 2·dot(d,n)·n.
// n is expected to be unit length; d is not normalized.
func Reflect(d, n mgl32.Vec3) mgl32.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

// Sqrt is a float32 square root
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// ClampVec4 clamps every component of v to [lo, hi]
func ClampVec4(v mgl32.Vec4, lo, hi float32) mgl32.Vec4 {
	return mgl32.Vec4{
		mgl32.Clamp(v[0], lo, hi),
		mgl32.Clamp(v[1], lo, hi),
		mgl32.Clamp(v[2], lo, hi),
		mgl32.Clamp(v[3], lo, hi),
	}
}

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// ParseVec3 parses "x,y,z" into a vector
func ParseVec3(value string) (mgl32.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected x,y,z, got %q", value)
	}

	var v mgl32.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid component %q in %q", part, value)
		}
		v[i] = float32(f)
	}
	return v, nil
}
