package apiresponses

import (
	"time"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// SuccessResponse wraps every 2xx body.
type SuccessResponse struct {
	Status    string `json:"status"`
	Data      any    `json:"data"`
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ErrorResponse is what middleware.ErrorHandler writes for any failed request.
type ErrorResponse struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// ActionConfirmation is the payload of a DELETE: what was removed.
type ActionConfirmation struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(requestID string, data any) SuccessResponse {
	return SuccessResponse{Status: statusSuccess, Data: data, RequestID: requestID, Timestamp: now()}
}

// Failure renders err. Its context entries are returned as details, so they
// must be safe to show to callers.
func Failure(requestID string, err *apierrors.AppError) ErrorResponse {
	return ErrorResponse{
		Status: statusError,
		Error: ErrorDetail{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Context,
			RequestID: requestID,
			Timestamp: now(),
		},
	}
}
