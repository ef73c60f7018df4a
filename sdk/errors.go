package sdk

import "errors"

// Common SDK errors that callers can check for specific error handling.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrUnauthorized indicates the provided credentials are invalid.
	ErrUnauthorized = errors.New("unauthorized: invalid credentials")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the request was rate limited by the platform.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerError indicates a platform-side server error occurred.
	ErrServerError = errors.New("platform server error")

	// ErrBadRequest indicates the request was malformed or invalid.
	ErrBadRequest = errors.New("bad request")
)
