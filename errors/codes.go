package errors

// ErrorCode identifies an application error class
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1005

	// Export run
	ErrorCode_EXPORT_NO_TRANSCRIPT    ErrorCode = 2000
	ErrorCode_EXPORT_USER_NOT_FOUND   ErrorCode = 2001
	ErrorCode_EXPORT_RUN_NOT_FOUND    ErrorCode = 2002
	ErrorCode_EXPORT_STEP_CONFIG      ErrorCode = 2003
	ErrorCode_EXPORT_STEP_UNSUPPORTED ErrorCode = 2004

	// Integrations
	ErrorCode_INTEGRATION_INVALID_CREDENTIAL   ErrorCode = 3000
	ErrorCode_INTEGRATION_INCOMPLETE           ErrorCode = 3001
	ErrorCode_INTEGRATION_PROVIDER_API_FAILED  ErrorCode = 3002
	ErrorCode_INTEGRATION_TOKEN_REFRESH_FAILED ErrorCode = 3003

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 4000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                          "HTTP_OK",
	ErrorCode_INTERNAL:                         "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                 "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                        "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:                  "UNAUTHENTICATED",
	ErrorCode_PERMISSION_DENIED:                "PERMISSION_DENIED",
	ErrorCode_INVALID_PAYLOAD:                  "INVALID_PAYLOAD",
	ErrorCode_EXPORT_NO_TRANSCRIPT:             "EXPORT_NO_TRANSCRIPT",
	ErrorCode_EXPORT_USER_NOT_FOUND:            "EXPORT_USER_NOT_FOUND",
	ErrorCode_EXPORT_RUN_NOT_FOUND:             "EXPORT_RUN_NOT_FOUND",
	ErrorCode_EXPORT_STEP_CONFIG:               "EXPORT_STEP_CONFIG",
	ErrorCode_EXPORT_STEP_UNSUPPORTED:          "EXPORT_STEP_UNSUPPORTED",
	ErrorCode_INTEGRATION_INVALID_CREDENTIAL:   "INTEGRATION_INVALID_CREDENTIAL",
	ErrorCode_INTEGRATION_INCOMPLETE:           "INTEGRATION_INCOMPLETE",
	ErrorCode_INTEGRATION_PROVIDER_API_FAILED:  "INTEGRATION_PROVIDER_API_FAILED",
	ErrorCode_INTEGRATION_TOKEN_REFRESH_FAILED: "INTEGRATION_TOKEN_REFRESH_FAILED",
	ErrorCode_DB_QUERY_FAILED:                  "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
