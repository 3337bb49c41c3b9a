package stanargs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports an invalid or inconsistent run configuration: an
// option out of range, a per-chain list whose length does not match the
// chain count, a missing input file, or a combination of options the
// inference executable would reject. Validation stops at the first
// violation, so a ConfigError always describes exactly one problem.
type ConfigError struct {
	msg   string
	cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the underlying cause (nil if there is none).
func (e *ConfigError) Unwrap() error { return e.cause }

// Cause returns the underlying cause for pkg/errors chains.
func (e *ConfigError) Cause() error { return e.cause }

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// configErrorf builds a ConfigError from a format string.
func configErrorf(format string, a ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, a...)}
}

// configWrapf builds a ConfigError that keeps err as its cause.
func configWrapf(err error, format string, a ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, a...), cause: err}
}
