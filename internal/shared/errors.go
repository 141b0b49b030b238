package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Generation errors
	ErrGenerationInProgress = fmt.Errorf("playlist generation already in progress")
	ErrWriteFailed          = fmt.Errorf("failed to write playlist")

	// Persistence errors
	ErrRunNotFound = fmt.Errorf("generation run not found")
	ErrInvalidRun  = fmt.Errorf("invalid generation run")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
