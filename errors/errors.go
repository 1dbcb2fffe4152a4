package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error type shared by the export engine and the HTTP layer
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Detail returns a detail value or empty string
func (e AppError) Detail(key string) string {
	return e.Details[key]
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}


func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

func ErrPermissionDenied(scope string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PERMISSION_DENIED,
		Message:  "Insufficient permissions",
	}.WithDetail("scope", scope)
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Export run errors. Both abort the whole run.
func ErrNoTranscript(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_EXPORT_NO_TRANSCRIPT,
		Message:  "No transcript found for user",
	}.WithDetail("user_id", userID)
}

func ErrUserNotFound(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_EXPORT_USER_NOT_FOUND,
		Message:  "User not found",
	}.WithDetail("user_id", userID)
}

func ErrRunNotFound(runID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_EXPORT_RUN_NOT_FOUND,
		Message:  "Export run not found",
	}.WithDetail("run_id", runID)
}

// Step errors. These abort only the current step.
func ErrStepConfigInvalid(stepType string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_EXPORT_STEP_CONFIG,
		Message:  fmt.Sprintf("Invalid %s step configuration", stepType),
	}.WithDetail("step_type", stepType)
}

func ErrStepUnsupported(stepType string) AppError {
	return AppError{
		HTTPCode: http.StatusNotImplemented,
		Code:     ErrorCode_EXPORT_STEP_UNSUPPORTED,
		Message:  fmt.Sprintf("No exporter registered for %s steps", stepType),
	}.WithDetail("step_type", stepType)
}

// Integration Errors
func ErrInvalidCredential(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_INTEGRATION_INVALID_CREDENTIAL,
		Message:  fmt.Sprintf("%s access is no longer valid, please reconnect %s from the integrations page", provider, provider),
	}.WithDetail("provider", provider)
}

func ErrIncompleteIntegration(provider, missing string) AppError {
	return AppError{
		HTTPCode: http.StatusPreconditionFailed,
		Code:     ErrorCode_INTEGRATION_INCOMPLETE,
		Message:  fmt.Sprintf("%s integration is incomplete, please reconnect %s from the integrations page", provider, provider),
	}.WithDetail("provider", provider).
		WithDetail("missing", missing)
}

func ErrProviderAPI(provider string, status int, body string) AppError {
	return AppError{
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INTEGRATION_PROVIDER_API_FAILED,
		Message:  fmt.Sprintf("%s API call failed", provider),
	}.WithDetail("provider", provider).
		WithDetail("status", fmt.Sprintf("%d", status)).
		WithDetail("body", body)
}

func ErrProviderTransport(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INTEGRATION_PROVIDER_API_FAILED,
		Message:  fmt.Sprintf("%s API call failed", provider),
	}.WithDetail("provider", provider)
}

func ErrTokenRefresh(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_INTEGRATION_TOKEN_REFRESH_FAILED,
		Message:  fmt.Sprintf("Failed to refresh %s access token, please reconnect %s", provider, provider),
	}.WithDetail("provider", provider)
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}

// CodeOf returns the code of an AppError anywhere in the chain, or ErrorCode_INTERNAL
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}
