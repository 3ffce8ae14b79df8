package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote collaborator errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrStoreUnavailable   = fmt.Errorf("file store unavailable")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrParse              = fmt.Errorf("metadata parse failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
