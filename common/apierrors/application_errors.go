package apierrors

// Application error codes
const (
	// System Errors
	ErrCodeDatabaseAccess     = "DATABASE_ACCESS_ERROR"     // Seed file read failures
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"       // When a dependency is unavailable
	ErrCodeRequestValidation  = "REQUEST_VALIDATION_ERROR"  // Input validation failures
	ErrCodeInternalProcessing = "INTERNAL_PROCESSING_ERROR" // Logic execution failures
	ErrCodeForbidden          = "FORBIDDEN"                 // Caller role may not perform the operation

	// Unexpected Errors
	ErrCodeSystemPanic   = "SYSTEM_PANIC"    // Recovered panics
	ErrCodeMalformedData = "MALFORMED_DATA"  // Invalid data formats (JSON parse errors, etc.)
	ErrCodeUnknown       = "UNKNOWN_ERROR"   // Fallback for unclassified errors
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND" // No handler registered for the path
)
