package response

import (
	"net/http"
)

// Response represents the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details in the response
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// --- Error Code Constants ---

const (
	// Client errors (4xx)
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeConflict         = "CONFLICT"

	// Server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// Business logic errors
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
)

// --- HTTP Status Code Mapping ---

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes
var ErrorCodeToHTTPStatus = map[string]int{
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeInvalidTransition:  http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// --- Response Builders ---

// Success creates a success response with data
func Success(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// Error creates an error response
func Error(code string, message string) *Response {
	return &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// ErrorWithDetails creates an error response with additional details
func ErrorWithDetails(code string, message string, details map[string]string) *Response {
	return &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Status returns the HTTP status that matches the response's error code,
// or 200 for a success response.
func (r *Response) Status() int {
	if r.Error == nil {
		return http.StatusOK
	}
	return GetHTTPStatus(r.Error.Code)
}

// --- Common Error Responses ---

// BadRequest creates a bad request error response
func BadRequest(message string) *Response {
	return Error(ErrCodeBadRequest, message)
}

// Unauthorized creates an unauthorized error response
func Unauthorized(message string) *Response {
	if message == "" {
		message = "Authentication required"
	}
	return Error(ErrCodeUnauthorized, message)
}

// Forbidden creates a forbidden error response
func Forbidden(message string) *Response {
	if message == "" {
		message = "Access denied"
	}
	return Error(ErrCodeForbidden, message)
}

// NotFound creates a not found error response
func NotFound(message string) *Response {
	if message == "" {
		message = "Resource not found"
	}
	return Error(ErrCodeNotFound, message)
}

// Conflict creates a conflict error response
func Conflict(message string) *Response {
	if message == "" {
		message = "Resource conflict"
	}
	return Error(ErrCodeConflict, message)
}

// InvalidTransition creates a response for a rejected status change
func InvalidTransition(message string) *Response {
	if message == "" {
		message = "Status transition not allowed"
	}
	return Error(ErrCodeInvalidTransition, message)
}

// InternalError creates an internal server error response
func InternalError(message string) *Response {
	if message == "" {
		message = "An internal error occurred"
	}
	return Error(ErrCodeInternalError, message)
}

// ValidationFailed creates a validation error response with field details
func ValidationFailed(details map[string]string) *Response {
	return ErrorWithDetails(ErrCodeValidationFailed, "Validation failed", details)
}

// ServiceUnavailable creates a service unavailable error response
func ServiceUnavailable(message string) *Response {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return Error(ErrCodeServiceUnavailable, message)
}
