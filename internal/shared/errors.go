package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Task errors
	ErrResolve         = fmt.Errorf("resolve failed")
	ErrNoResults       = fmt.Errorf("no search results")
	ErrMalformedResult = fmt.Errorf("malformed search result")
	ErrMissingMediaID  = fmt.Errorf("search result has no id")
	ErrFetch           = fmt.Errorf("fetch failed")
	ErrIO              = fmt.Errorf("i/o error")

	// Persistence errors
	ErrNotFound = fmt.Errorf("record not found")
)
