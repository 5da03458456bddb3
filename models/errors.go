package models

import "errors"

// Shared error taxonomy for the calculators, the history stores and the
// Gemini gateway. Wrap with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidDate     = errors.New("invalid date")
	ErrGateway         = errors.New("gateway failure")
	ErrInvalidResponse = errors.New("invalid gateway response")
	ErrPersistence     = errors.New("persistence failure")
	ErrIndexOutOfRange = errors.New("index out of range")
)
