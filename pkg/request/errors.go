package request

import "fmt"

// ConfigurationError reports a missing or invalid request parameter. It is
// always detected before any request is sent.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
