package domain

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when triggered rules and explanations do not pair up.
var ErrLengthMismatch = errors.New("triggered rules and explanations differ in length")

// InvalidRangeError reports a normalization range whose lower bound is not below its upper bound.
type InvalidRangeError struct {
	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: min %.2f must be below max %.2f", e.Min, e.Max)
}

// ConfigError describes a configuration value that cannot be served.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid config: " + e.Reason
	}
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StageError ties a diagnostic runner failure to the store and stage it happened in.
type StageError struct {
	StoreCode string
	Stage     string
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("store %s: stage %s: %v", e.StoreCode, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
