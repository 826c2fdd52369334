package logger

import (
	"fmt"
	"testing"
)

func TestLogger(t *testing.T) {
	// the helpers share one package-level sugared logger; they only need
	// to format and emit without panicking
	Debug("lookback window is %d days", 7)
	Info("loaded %d tracker records", 42)
	Warn("unknown timezone %q, falling back to UTC", "Definitely/Nowhere")
	Error(fmt.Errorf("request to %s failed", "https://example.test"))
}
