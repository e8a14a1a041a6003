package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

// Recovery turns a handler panic into a SYSTEM_PANIC error for the ErrorHandler.
func Recovery(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.WithContext(c.UserContext()).WithFields(logrus.Fields{
				"panic_value": fmt.Sprintf("%v", r),
				"stack_trace": string(debug.Stack()),
				"path":        c.Path(),
				"method":      c.Method(),
				"request_id":  GetRequestID(c),
			}).Error("Recovered from panic")

			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = apierrors.NewApplicationError(apierrors.ErrCodeSystemPanic, "Internal server error", cause)
		}()
		return c.Next()
	}
}
