package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Config describes where the camera sits and how wide it sees
type Config struct {
	Position    mgl32.Vec3 `json:"position"`    // Eye position, origin of every primary ray
	Forward     mgl32.Vec3 `json:"forward"`     // Viewing direction
	VerticalFOV float32    `json:"verticalFov"` // Vertical field of view in degrees
	NearClip    float32    `json:"nearClip"`
	FarClip     float32    `json:"farClip"`
}

// DefaultConfig returns a camera three units back on +Z looking down -Z
func DefaultConfig() Config {
	return Config{
		Position:    mgl32.Vec3{0, 0, 3},
		Forward:     mgl32.Vec3{0, 0, -1},
		VerticalFOV: 45.0,
		NearClip:    0.1,
		FarClip:     100.0,
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	result := base
	if override.Position != (mgl32.Vec3{}) {
		result.Position = override.Position
	}
	if override.Forward != (mgl32.Vec3{}) {
		result.Forward = override.Forward
	}
	if override.VerticalFOV != 0 {
		result.VerticalFOV = override.VerticalFOV
	}
	if override.NearClip != 0 {
		result.NearClip = override.NearClip
	}
	if override.FarClip != 0 {
		result.FarClip = override.FarClip
	}
	return result
}

var (
	worldUp = mgl32.Vec3{0, 1, 0}
	// altUp replaces worldUp when the camera looks straight up or down
	altUp = mgl32.Vec3{0, 0, -1}
)

// upFor returns a reference up vector that is not parallel to forward
func upFor(forward mgl32.Vec3) mgl32.Vec3 {
	if mgl32.Abs(forward.Dot(worldUp)) > 0.9999 {
		return altUp
	}
	return worldUp
}

// Camera is a perspective camera that caches one primary ray direction per pixel.
// Directions are recomputed when the viewport or the view changes.
type Camera struct {
	config Config

	projection        mgl32.Mat4
	inverseProjection mgl32.Mat4
	view              mgl32.Mat4
	inverseView       mgl32.Mat4

	width, height uint32
	rayDirections []mgl32.Vec3
}

// New creates a camera with an empty viewport; call OnResize before use
func New(config Config) *Camera {
	c := &Camera{config: MergeConfig(DefaultConfig(), config)}
	c.config.Forward = c.config.Forward.Normalize()
	c.recalculateView()
	return c
}

// OnResize sets the viewport size. Same size is a no-op.
func (c *Camera) OnResize(width, height uint32) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height

	c.recalculateProjection()
	c.recalculateRayDirections()
}

// SetView moves the camera and recomputes the ray directions
func (c *Camera) SetView(position, forward mgl32.Vec3) {
	c.config.Position = position
	c.config.Forward = forward.Normalize()
	c.recalculateView()
	c.recalculateRayDirections()
}

// GetPosition returns the shared origin of all primary rays
func (c *Camera) GetPosition() mgl32.Vec3 { return c.config.Position }

// GetForward returns the normalized viewing direction
func (c *Camera) GetForward() mgl32.Vec3 { return c.config.Forward }

// GetRayDirections returns one direction per pixel, indexed by x + y*width
func (c *Camera) GetRayDirections() []mgl32.Vec3 { return c.rayDirections }

// GetRight returns the unit vector pointing to the right of the image
func (c *Camera) GetRight() mgl32.Vec3 {
	return c.config.Forward.Cross(upFor(c.config.Forward)).Normalize()
}

// Width returns the viewport width in pixels
func (c *Camera) Width() uint32 { return c.width }

// Height returns the viewport height in pixels
func (c *Camera) Height() uint32 { return c.height }

func (c *Camera) recalculateProjection() {
	if c.width == 0 || c.height == 0 {
		return
	}
	aspect := float32(c.width) / float32(c.height)
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.config.VerticalFOV), aspect, c.config.NearClip, c.config.FarClip)
	c.inverseProjection = c.projection.Inv()
}

func (c *Camera) recalculateView() {
	target := c.config.Position.Add(c.config.Forward)
	c.view = mgl32.LookAtV(c.config.Position, target, upFor(c.config.Forward))
	c.inverseView = c.view.Inv()
}

// recalculateRayDirections unprojects every pixel center through the inverse
// projection and view. Row 0 is the top of the image.
func (c *Camera) recalculateRayDirections() {
	count := int(c.width) * int(c.height)
	if cap(c.rayDirections) >= count {
		c.rayDirections = c.rayDirections[:count]
	} else {
		c.rayDirections = make([]mgl32.Vec3, count)
	}
	if count == 0 {
		return
	}

	w, h := float32(c.width), float32(c.height)
	for y := uint32(0); y < c.height; y++ {
		for x := uint32(0); x < c.width; x++ {
			ndcX := (float32(x)+0.5)/w*2 - 1
			ndcY := 1 - (float32(y)+0.5)/h*2

			target := c.inverseProjection.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
			local := target.Vec3().Mul(1 / target[3]).Normalize()
			direction := c.inverseView.Mul4x1(local.Vec4(0)).Vec3()

			c.rayDirections[x+y*c.width] = direction
		}
	}
}
