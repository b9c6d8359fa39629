package tide

import (
	"fmt"
	"strings"
)

// NoaaAPIError represents an error from the NOAA API
type NoaaAPIError struct {
	Message string
	Err     error
}

func (e *NoaaAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("NOAA API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("NOAA API error: %s", e.Message)
}

func (e *NoaaAPIError) Unwrap() error {
	return e.Err
}

// NewNoaaAPIError creates a new NOAA API error
func NewNoaaAPIError(message string, err error) *NoaaAPIError {
	return &NoaaAPIError{
		Message: message,
		Err:     err,
	}
}

// Error when user requests data for too much data
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string {
	return e.Message
}

func NewInvalidRangeError(message string) *InvalidRangeError {
	return &InvalidRangeError{
		Message: message,
	}
}

// MalformedRecord describes one raw extreme the parser could not use.
type MalformedRecord struct {
	Index int
	Field string // "t", "v" or "type"
	Value string
	Err   error
}

func (r MalformedRecord) String() string {
	if r.Err != nil {
		return fmt.Sprintf("#%d %s=%q: %v", r.Index, r.Field, r.Value, r.Err)
	}
	return fmt.Sprintf("#%d %s=%q", r.Index, r.Field, r.Value)
}

// MalformedExtremesError lists every raw extreme rejected by Parse.
type MalformedExtremesError struct {
	Records []MalformedRecord
	Total   int
}

func (e *MalformedExtremesError) Error() string {
	parts := make([]string, len(e.Records))
	for i, r := range e.Records {
		parts[i] = r.String()
	}
	return fmt.Sprintf("%d of %d extremes malformed: %s", len(e.Records), e.Total, strings.Join(parts, "; "))
}

// AllMalformed reports whether no record survived parsing.
func (e *MalformedExtremesError) AllMalformed() bool {
	return len(e.Records) == e.Total
}
