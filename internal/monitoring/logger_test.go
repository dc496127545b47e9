package monitoring

import (
	"fmt"
	"strings"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(nil)

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})

	Logf("hello %d", 7)
	if len(got) != 1 || got[0] != "hello 7" {
		t.Fatalf("unexpected log capture: %v", got)
	}
}

func TestSetLoggerNilMutes(t *testing.T) {
	SetLogger(nil)
	// must not panic
	Logf("dropped %s", "message")
}

func TestPrefixed(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Prefixed("EchoDB")("run %s saved", "abc")
	if !strings.HasPrefix(got, "[EchoDB] ") || !strings.Contains(got, "run abc saved") {
		t.Fatalf("unexpected prefixed output: %q", got)
	}
}
