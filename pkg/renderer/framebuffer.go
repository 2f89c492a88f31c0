package renderer

// Framebuffer owns the packed pixels of the last completed frame, row-major
// with the origin at the top left. A second buffer of the same size receives
// the frame in progress and is swapped in only when the frame is complete.
type Framebuffer struct {
	width, height uint32
	pixels        []uint32
	back          []uint32
}

// NewFramebuffer allocates a framebuffer of the given size
func NewFramebuffer(width, height uint32) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]uint32, int(width)*int(height)),
	}
}

// Resize reallocates the storage for a new size and discards the old contents.
// Resizing to the current size does nothing and returns false.
func (fb *Framebuffer) Resize(width, height uint32) bool {
	if fb.width == width && fb.height == height {
		return false
	}
	fb.width = width
	fb.height = height
	fb.pixels = make([]uint32, int(width)*int(height))
	fb.back = nil
	return true
}

// Width returns the width in pixels
func (fb *Framebuffer) Width() uint32 { return fb.width }

// Height returns the height in pixels
func (fb *Framebuffer) Height() uint32 { return fb.height }

// Empty reports whether the framebuffer has no pixels
func (fb *Framebuffer) Empty() bool { return fb.width == 0 || fb.height == 0 }

// Pixels returns the packed pixels of the last completed frame
func (fb *Framebuffer) Pixels() []uint32 { return fb.pixels }

// backBuffer returns the buffer for the next frame, allocating it on first use
func (fb *Framebuffer) backBuffer() []uint32 {
	if len(fb.back) != len(fb.pixels) {
		fb.back = make([]uint32, len(fb.pixels))
	}
	return fb.back
}

// swap publishes the back buffer as the current frame
func (fb *Framebuffer) swap() {
	fb.pixels, fb.back = fb.back, fb.pixels
}
