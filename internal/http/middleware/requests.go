package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"
)

// firstNonEmpty returns the first candidate that is not blank.
func firstNonEmpty(candidates ...func() string) string {
	for _, f := range candidates {
		if v := strings.TrimSpace(f()); v != "" {
			return v
		}
	}
	return ""
}

// RequestIdentity tags every request with a request id, a trace id and the
// client address. Incoming ids are honoured; the trace id otherwise comes
// from the active otel span, and a fresh uuid is the last resort.
func RequestIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := c.Request
		fresh := func() string { return uuid.NewString() }
		td := &ctxutil.TraceData{
			RequestID: firstNonEmpty(func() string { return r.Header.Get(HeaderRequestID) }, fresh),
			TraceID: firstNonEmpty(
				func() string { return r.Header.Get(HeaderTraceID) },
				func() string {
					if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
						return sc.TraceID().String()
					}
					return ""
				},
				fresh,
			),
			ClientIP: c.ClientIP(),
		}
		c.Request = r.WithContext(ctxutil.WithTraceData(r.Context(), td))

		h := c.Writer.Header()
		h.Set(HeaderRequestID, td.RequestID)
		h.Set(HeaderTraceID, td.TraceID)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain returns.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "AccessLog")
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		code := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", code,
			"latency_ms", time.Since(began).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		ctx := c.Request.Context()
		kv = append(kv, ctxutil.GetTraceData(ctx).LogFields()...)
		if p := ctxutil.GetPrincipal(ctx); p != nil {
			kv = append(kv, "user_id", p.ID.String())
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			kv = append(kv, "errors", errs.String())
		}

		switch {
		case code >= http.StatusInternalServerError:
			log.Error("request served", kv...)
		case code >= http.StatusBadRequest:
			log.Warn("request served", kv...)
		default:
			log.Debug("request served", kv...)
		}
	}
}
