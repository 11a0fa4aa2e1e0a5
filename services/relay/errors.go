package relay

import "fmt"

// RelayError is a typed error raised by the relay engine.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewLookupError(msg string) error {
	return &RelayError{
		Code:    "flightLookupError",
		Message: msg,
	}
}
