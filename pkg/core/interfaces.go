package core

import "github.com/go-gl/mathgl/mgl32"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Camera supplies the primary rays for a frame. The position is the origin of
// every primary ray; directions are indexed by x + y*width.
type Camera interface {
	GetPosition() mgl32.Vec3
	GetRayDirections() []mgl32.Vec3
}

// DisplaySink receives finished frames. SetData must copy pixels if it keeps them,
// the renderer reuses the slice on the next pass.
type DisplaySink interface {
	Resize(width, height uint32)
	SetData(pixels []uint32)
}
