package renderer

import "testing"

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(0, 0)
	if !fb.Empty() {
		t.Error("Expected new zero-size framebuffer to be empty")
	}

	if !fb.Resize(4, 3) {
		t.Error("Expected resize to a new size to report a change")
	}
	if len(fb.Pixels()) != 12 {
		t.Errorf("Expected 12 pixels, got %d", len(fb.Pixels()))
	}

	fb.Pixels()[5] = 0xFF00FF00
	storage := &fb.Pixels()[0]
	if fb.Resize(4, 3) {
		t.Error("Expected resize to the same size to report no change")
	}
	if &fb.Pixels()[0] != storage {
		t.Error("Expected same-size resize to keep the existing storage")
	}
	if pixelAt(fb, 1, 1) != 0xFF00FF00 {
		t.Errorf("Expected pixel to survive same-size resize, got 0x%08X", pixelAt(fb, 1, 1))
	}

	fb.Resize(2, 2)
	if fb.Width() != 2 || fb.Height() != 2 || len(fb.Pixels()) != 4 {
		t.Errorf("Expected 2x2 with 4 pixels, got %dx%d with %d", fb.Width(), fb.Height(), len(fb.Pixels()))
	}
}

func TestFramebufferSwap(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	back := fb.backBuffer()
	back[0] = 0xFFFFFFFF

	if fb.Pixels()[0] != 0 {
		t.Error("Expected writes to the back buffer to stay hidden before swap")
	}

	fb.swap()
	if fb.Pixels()[0] != 0xFFFFFFFF {
		t.Errorf("Expected swapped pixel 0xFFFFFFFF, got 0x%08X", fb.Pixels()[0])
	}
	if len(fb.backBuffer()) != 2 {
		t.Errorf("Expected back buffer of 2 pixels, got %d", len(fb.backBuffer()))
	}
}

// pixelAt returns the published packed pixel at (x, y)
func pixelAt(fb *Framebuffer, x, y uint32) uint32 {
	return fb.Pixels()[x+y*fb.Width()]
}
