package echo

import "fmt"

// ConfigError marks a fatal misconfiguration detected before any gate is
// processed: unrecognized moment names, negative weights, thresholds outside
// [0,1], or mismatched grid shapes. A call that returns a ConfigError has
// computed nothing.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
