// Where: internal/launcher/mode.go
// What: Launch mode registry.
// Why: Fix the menu order and the mode names commands accept.
package launcher

import (
	"fmt"
	"strings"
)

// Mode identifies one of the three launch configurations.
type Mode string

const (
	// ModeLocal runs the workload directly with file logging only.
	ModeLocal Mode = "local"
	// ModeJaeger starts the Jaeger tracing UI first and attaches to it.
	ModeJaeger Mode = "jaeger"
	// ModeCollector starts the OpenTelemetry collector first and attaches to it.
	ModeCollector Mode = "collector"
)

// Modes returns all launch modes in menu order.
func Modes() []Mode {
	return []Mode{ModeLocal, ModeJaeger, ModeCollector}
}

// Label returns the menu text for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeLocal:
		return "📄 Local file logging only"
	case ModeJaeger:
		return "🌐 Jaeger tracing UI (port 16686)"
	case ModeCollector:
		return "📊 OpenTelemetry collector (metrics on port 8888)"
	}
	return string(m)
}

// ParseMode validates a mode name from flags or state.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeLocal:
		return ModeLocal, nil
	case ModeJaeger:
		return ModeJaeger, nil
	case ModeCollector:
		return ModeCollector, nil
	}
	return "", fmt.Errorf("unknown mode: %q (expected local, jaeger, or collector)", value)
}
