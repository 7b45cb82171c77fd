package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Server lifecycle errors
	ErrPortsExhausted = fmt.Errorf("no free port in retry range")
	ErrBindFailed     = fmt.Errorf("failed to bind listener")
	ErrNotRunning     = fmt.Errorf("server not running")

	// Request errors, surfaced to clients as 404
	ErrNotFound     = fmt.Errorf("file not found")
	ErrEmptyContent = fmt.Errorf("empty content cannot be previewed")

	// Address resolution
	ErrAddressUnavailable = fmt.Errorf("no wi-fi address available")

	// History errors
	ErrHistoryDisabled = fmt.Errorf("upload history disabled")
	ErrRecordNotFound  = fmt.Errorf("upload record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
