package errors

// Common error codes shared across handlers and usecases.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrUpstream        = "UPSTREAM_FAILURE"
)

// httpMapping maps error codes to HTTP status codes.
var httpMapping = map[string]int{
	ErrInternal:        500,
	ErrNotFound:        404,
	ErrInvalidArgument: 400,
	ErrConflict:        409,
	ErrTimeout:         504,
	ErrUpstream:        502,
}

// ToHTTPStatus converts an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	if status, ok := httpMapping[code]; ok {
		return status
	}
	return 500
}
