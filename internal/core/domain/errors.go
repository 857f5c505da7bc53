package domain

import (
	"errors"
	"fmt"
)

// =============================================================================
// Configuration Errors
// =============================================================================

var (
	ErrRequiredInput   = errors.New("required input is missing")
	ErrInvalidNumber   = errors.New("value is not a valid number")
	ErrInvalidBoolean  = errors.New("value is not a valid boolean")
	ErrMalformedEnv    = errors.New("malformed environment variables")
	ErrUnreadableInput = errors.New("input could not be read")
)

// ConfigurationError reports a fatal problem with the step inputs, such as a
// missing required input or a value that cannot be parsed.
type ConfigurationError struct {
	Field   string // Input name (e.g., "env-from-json")
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(field, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
