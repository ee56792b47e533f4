package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every validation failure raised while
// constructing curves, buildings, or market participants.
var ErrConfiguration = errors.New("configuration error")

// ConfigError describes malformed input. It unwraps to ErrConfiguration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// ConfigErrorf builds a *ConfigError with a formatted reason.
func ConfigErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
