package servercache

import (
	"errors"
	"fmt"

	"github.com/jhonatancruzmail/SkyConnectExplorer/aviationstack"
)

// ConfigurationError is returned when no provider credential is configured
// and sample data may not be used instead.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// UnknownError wraps failures outside the known taxonomy.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown error: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }

// classify returns err unchanged when it belongs to the known taxonomy and
// wraps it in an UnknownError otherwise.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		cfgErr    *ConfigurationError
		httpErr   *aviationstack.HTTPError
		formatErr *aviationstack.FormatError
		unknown   *UnknownError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &httpErr), errors.As(err, &formatErr), errors.As(err, &unknown):
		return err
	default:
		return &UnknownError{Err: err}
	}
}
