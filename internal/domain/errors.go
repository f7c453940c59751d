package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReading indicates a reading with impossible values
	ErrInvalidReading = errors.New("reading has negative lux or position")

	// ErrReadingNotFound indicates requested reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")

	// ErrUnexpectedStatus indicates the device answered with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected status from device")
)

// NetworkError reports a fetch that never produced a usable response:
// the request could not complete, or the device rejected it.
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v: %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
