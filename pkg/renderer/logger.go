package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// SwitchLogger forwards to another logger only while enabled.
// Hosts that re-render continuously use it to log selected frames.
type SwitchLogger struct {
	out     core.Logger
	enabled atomic.Bool
}

// NewSwitchLogger creates a disabled logger that writes to out when enabled
func NewSwitchLogger(out core.Logger) *SwitchLogger {
	return &SwitchLogger{out: out}
}

// SetEnabled turns forwarding on or off
func (sl *SwitchLogger) SetEnabled(enabled bool) {
	sl.enabled.Store(enabled)
}

func (sl *SwitchLogger) Printf(format string, args ...interface{}) {
	if sl.enabled.Load() {
		sl.out.Printf(format, args...)
	}
}
