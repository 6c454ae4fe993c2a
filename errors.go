package orbitprop

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration flags missing or malformed inputs, detected before any integration.
	ErrConfiguration = errors.New("configuration error")
	// ErrIntegration flags a propagation which could not complete. No partial results are kept.
	ErrIntegration = errors.New("integration failure")
	// ErrExport flags a failure to retrieve or write the results.
	ErrExport = errors.New("export error")
	// ErrNotPropagated is returned when results are requested before a successful propagation.
	ErrNotPropagated = fmt.Errorf("%w: orbit has not been propagated", ErrExport)
)

// ErrorKind returns the name of the kind of the provided error, or "unknown".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, ErrIntegration):
		return "IntegrationFailure"
	case errors.Is(err, ErrExport):
		return "ExportError"
	}
	return "unknown"
}
