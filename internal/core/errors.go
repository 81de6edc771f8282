package core

import "fmt"

// RequestError is returned when the API answers with a 4xx status code. It
// carries the status and the server-supplied message and is never retried
// automatically.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// RateLimitedError is the 429 variant of RequestError. The request
// coordinator handles it internally by refreshing limiter state and retrying,
// so callers of the derived operations never see it.
type RateLimitedError struct {
	RequestError
}

// MethodNotAllowedError is the 405 variant of RequestError. It shows up
// during normal operation: probe requests use it to learn that an endpoint
// does not carry a rate limit.
type MethodNotAllowedError struct {
	RequestError
}

// EndpointDisabledError is the 410 variant of RequestError, returned while
// the server has an endpoint switched off.
type EndpointDisabledError struct {
	RequestError
}

// ServerError is returned when the API answers with a 5xx status code. It is
// transient; whether to retry is left to the caller.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// CanvasFormatError is returned when a fetched canvas buffer does not match
// the dimensions the server reported.
type CanvasFormatError struct {
	Expected int
	Actual   int
}

func (e *CanvasFormatError) Error() string {
	return fmt.Sprintf("canvas format: expected %d bytes, got %d", e.Expected, e.Actual)
}
