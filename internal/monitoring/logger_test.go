package monitoring

import (
	"fmt"
	"log"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(log.Printf)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Logf("gate %s", "open")
	if got != "gate open" {
		t.Errorf("expected redirected log output, got %q", got)
	}
}

func TestSetLoggerNilMutes(t *testing.T) {
	defer SetLogger(log.Printf)

	SetLogger(nil)
	// Must not panic.
	Logf("dropped %d", 1)
}
