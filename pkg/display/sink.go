package display

import (
	"image"
	"sync"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

var _ core.DisplaySink = (*ImageSink)(nil)

// ImageSink keeps the latest published frame as an RGBA image. It is safe to
// read snapshots from other goroutines while the renderer publishes frames.
type ImageSink struct {
	mu            sync.RWMutex
	width, height int
	frame         *image.RGBA
	frames        int
	onFrame       func(*image.RGBA)
}

// NewImageSink creates an empty sink
func NewImageSink() *ImageSink {
	return &ImageSink{}
}

// OnFrame registers a function called with a copy of every published frame
func (s *ImageSink) OnFrame(fn func(*image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// Resize drops the current frame and records the new size
func (s *ImageSink) Resize(width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = int(width)
	s.height = int(height)
	s.frame = nil
}

// SetData copies a packed frame into the sink
func (s *ImageSink) SetData(pixels []uint32) {
	s.mu.Lock()
	s.frame = renderer.PixelsToRGBA(pixels, s.width, s.height)
	s.frames++
	onFrame, frame := s.onFrame, s.frame
	s.mu.Unlock()

	if onFrame != nil {
		onFrame(frame)
	}
}

// Snapshot returns the latest frame, or nil if nothing was published since the last resize
func (s *ImageSink) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Size returns the size of the sink
func (s *ImageSink) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// FrameCount returns how many frames were published
func (s *ImageSink) FrameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}
