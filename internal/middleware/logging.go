package middleware

import (
	"strconv"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger attaches a request scoped logger and the client address to the
// context and logs each completed request
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqLog := base.With(
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)
			ctx := logger.WithContext(req.Context(), reqLog)
			ctx = common.WithClientIP(ctx, c.RealIP())
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status, _ = common.StatusFromError(err)
			}
			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}

			// the session middleware may have enriched the logger further down
			log := logger.FromContext(c.Request().Context())
			fields := []zap.Field{
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			if ce := log.Check(level, "request completed"); ce != nil {
				ce.Write(fields...)
			}
			return err
		}
	}
}

// Metrics records request counts and latency by route
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.IncInFlight()
			defer metrics.DecInFlight()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status, _ = common.StatusFromError(err)
			}
			metrics.RecordHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}
