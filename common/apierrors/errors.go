package apierrors

import "fmt"

// AppError defines a standard application error.
type AppError struct {
	Code     string        // Application-specific error code
	Category ErrorCategory // Business rule violation or technical failure
	Message  string        // User-friendly error message
	Err      error         // Original underlying error (optional)
	Context  map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AppError(Code=%s, Message=%s, Cause=%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("AppError(Code=%s, Message=%s)", e.Code, e.Message)
}

// Unwrap provides compatibility for errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext attaches a key/value pair that is logged alongside the error.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new AppError. The category is derived from the code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Category: categoryFor(code),
		Message:  message,
		Err:      cause,
	}
}

// NewBusinessError creates an AppError for a violated business rule.
func NewBusinessError(code, message string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Category: CategoryBusiness,
		Message:  message,
		Err:      cause,
	}
}

// NewApplicationError creates an AppError for a technical failure.
func NewApplicationError(code, message string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Category: CategoryApplication,
		Message:  message,
		Err:      cause,
	}
}

func categoryFor(code string) ErrorCategory {
	switch code {
	case ErrCodeProductNotFound, ErrCodeDuplicateProductName, ErrCodeUnacceptedDenomination, ErrCodeInvalidMoneyAmount:
		return CategoryBusiness
	default:
		return CategoryApplication
	}
}
