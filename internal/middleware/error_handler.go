package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"carta/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errInterno = apierror.New("Error interno del servidor")

// ErrorHandler turns errors attached with c.Error into a generic 500.
// Handlers that already wrote a response keep it; the error is only logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestLog(c).Error().
			Err(err.Err).
			Int("errores", len(c.Errors)).
			Msg("unhandled error")

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errInterno)
		}
	}
}

// Recovery converts panics into 500 responses. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestLog(c).Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, errInterno)
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. Level follows the status class so that
// 5xx stand out from client mistakes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = requestLog(c).Error()
		case status >= http.StatusBadRequest:
			ev = requestLog(c).Warn()
		default:
			ev = requestLog(c).Info()
		}
		if sid := c.GetHeader("X-Session-ID"); sid != "" {
			ev = ev.Str("session", sid)
		}
		ev.Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// requestLog returns a logger carrying the request id, method and route.
func requestLog(c *gin.Context) *zerolog.Logger {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	l := log.With().
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", route).
		Logger()
	return &l
}
