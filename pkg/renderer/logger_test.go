package renderer

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// recordingLogger keeps every formatted line
type recordingLogger struct {
	lines []string
}

func (rl *recordingLogger) Printf(format string, args ...interface{}) {
	rl.lines = append(rl.lines, fmt.Sprintf(format, args...))
}

func TestSwitchLogger(t *testing.T) {
	out := &recordingLogger{}
	logger := NewSwitchLogger(out)

	logger.Printf("dropped %d\n", 1)
	if len(out.lines) != 0 {
		t.Fatalf("Expected a new switch logger to be disabled, got %v", out.lines)
	}

	logger.SetEnabled(true)
	logger.Printf("kept %d\n", 2)
	logger.SetEnabled(false)
	logger.Printf("dropped %d\n", 3)

	if len(out.lines) != 1 || out.lines[0] != "kept 2\n" {
		t.Errorf("Expected only the enabled line, got %v", out.lines)
	}
}

func TestSwitchLoggerQuietsRender(t *testing.T) {
	out := &recordingLogger{}
	logger := NewSwitchLogger(out)
	r := NewRenderer(DefaultConfig(), nil, logger)
	r.OnResize(2, 2)
	cam := &fakeCamera{directions: make([]mgl32.Vec3, 4)}

	if err := r.Render(context.Background(), scene.NewScene("empty"), cam); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out.lines) != 0 {
		t.Errorf("Expected no output while disabled, got %v", out.lines)
	}

	logger.SetEnabled(true)
	if err := r.Render(context.Background(), scene.NewScene("empty"), cam); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out.lines) != 2 {
		t.Errorf("Expected start and end lines, got %v", out.lines)
	}
}
