package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog and resolver errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrNoISRC           = fmt.Errorf("track has no ISRC")
	ErrNoMatch          = fmt.Errorf("no similar song found")
	ErrUnknownProvider  = fmt.Errorf("unknown provider")
	ErrCannotOpen       = fmt.Errorf("unable to open URL")

	// Share store errors
	ErrShareNotFound = fmt.Errorf("share record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
