package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/apiresponses"
)

// ErrorHandler renders every error returned by a handler as an ErrorResponse envelope.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, statusCode := classify(err)

		fields := logrus.Fields{
			"status_code": statusCode,
			"error_code":  appErr.Code,
			"category":    appErr.Category,
			"path":        c.Path(),
			"method":      c.Method(),
			"request_id":  GetRequestID(c),
		}
		for k, v := range appErr.Context {
			fields[k] = v
		}
		entry := logger.WithContext(c.UserContext()).WithFields(fields)
		if appErr.Err != nil {
			entry = entry.WithError(appErr.Err)
		}

		span := trace.SpanFromContext(c.UserContext())
		if statusCode >= http.StatusInternalServerError {
			entry.Error(appErr.Message)
			span.SetStatus(codes.Error, appErr.Message)
		} else {
			entry.Warn(appErr.Message)
		}
		span.RecordError(err)

		return c.Status(statusCode).JSON(apiresponses.Failure(GetRequestID(c), appErr))
	}
}

// classify maps err onto an AppError and the HTTP status it is reported with.
// Plain fiber errors keep their own status code.
func classify(err error) (*apierrors.AppError, int) {
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return appErr, apierrors.HTTPStatus(appErr)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case http.StatusNotFound:
			return apierrors.NewApplicationError(apierrors.ErrCodeRouteNotFound, fe.Message, err), fe.Code
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return apierrors.NewApplicationError(apierrors.ErrCodeMalformedData, fe.Message, err), fe.Code
		default:
			return apierrors.NewApplicationError(apierrors.ErrCodeUnknown, fe.Message, err), fe.Code
		}
	}

	return apierrors.NewApplicationError(apierrors.ErrCodeInternalProcessing, "Internal server error", err), http.StatusInternalServerError
}
