package apierrors

import "net/http"

// ErrorCategory distinguishes between different types of errors
type ErrorCategory string

const (
	// CategoryBusiness represents errors related to business rules violations
	CategoryBusiness ErrorCategory = "business"

	// CategoryApplication represents technical and infrastructure errors
	CategoryApplication ErrorCategory = "application"
)

var statusByCode = map[string]int{
	ErrCodeProductNotFound:        http.StatusNotFound,
	ErrCodeRouteNotFound:          http.StatusNotFound,
	ErrCodeDuplicateProductName:   http.StatusBadRequest,
	ErrCodeUnacceptedDenomination: http.StatusBadRequest,
	ErrCodeInvalidMoneyAmount:     http.StatusBadRequest,
	ErrCodeRequestValidation:      http.StatusBadRequest,
	ErrCodeMalformedData:          http.StatusBadRequest,
	ErrCodeForbidden:              http.StatusForbidden,
	ErrCodeServiceUnavailable:     http.StatusServiceUnavailable,
}

// HTTPStatus maps an AppError to the status code returned to clients.
// Unknown business codes are treated as 400, everything else as 500.
func HTTPStatus(err *AppError) int {
	if status, ok := statusByCode[err.Code]; ok {
		return status
	}
	if err.Category == CategoryBusiness {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
