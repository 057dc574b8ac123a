package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"devtasker/internal/api/response"
	"devtasker/internal/apperr"
	"devtasker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics into a generic 500 envelope and writes one request
// log line per request, after the error has been rendered.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error("Recovered from panic",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = response.Error(c, apperr.Internal(fmt.Errorf("panic: %v", r)))
			}
			logger.RequestLogger.Info("Request",
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			)
		}()

		if err := c.Next(); err != nil {
			return response.Error(c, err)
		}
		return nil
	}
}

// HandleError is the app-level fiber ErrorHandler for errors raised outside the
// middleware chain.
func HandleError(c *fiber.Ctx, err error) error {
	return response.Error(c, err)
}
