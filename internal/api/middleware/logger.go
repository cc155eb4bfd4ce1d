package middleware

import (
	"time"

	"github.com/es2/countrysync/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = logger.RequestIDHeader

const loggerKey = "logger"

// RequestLogger attaches a request-scoped logger and logs each request's outcome.
// An incoming X-Request-ID is reused so ids follow calls between MDM and DEM.
// Parameters:
//   - log: base logger; nil uses the default logger.
//   - component: value of the component field, e.g. "mdm-api".
// Returns:
//   - gin.HandlerFunc: middleware handler.
func RequestLogger(log *logger.Logger, component string) gin.HandlerFunc {
	if log == nil {
		log = logger.GetDefault()
	}
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := log.WithContext(c.Request.Context())
		ctx = logger.WithFields(ctx, logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: component,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(loggerKey, logger.FromContext(ctx))
		c.Header(RequestIDHeader, requestID)

		c.Next()

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		entry := logger.With(logger.Fields{
			logger.FieldStatus: c.Writer.Status(),
			logger.FieldSize:   c.Writer.Size(),
		}).WithDuration(time.Since(start).Milliseconds())

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error(ctx, "%s %s from %s: %s", c.Request.Method, path, c.ClientIP(), c.Errors.String())
		case status >= 400:
			entry.Warn(ctx, "%s %s from %s", c.Request.Method, path, c.ClientIP())
		default:
			entry.Info(ctx, "%s %s from %s", c.Request.Method, path, c.ClientIP())
		}
	}
}

// GetLogger returns the logger stored by RequestLogger, falling back to the request context.
func GetLogger(c *gin.Context) *logger.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.FromContext(c.Request.Context())
}
