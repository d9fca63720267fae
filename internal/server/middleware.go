package server

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/bank-import/internal/logging"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	userHeader      = "X-User-ID"
	headerLimit     = "X-RateLimit-Limit"
	headerRemaining = "X-RateLimit-Remaining"
	headerReset     = "X-RateLimit-Reset"
)

// rateLimitMiddleware applies the process-wide token bucket.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.logger.Warn("Rate limit exceeded",
				logging.Field{Key: "method", Value: r.Method},
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: "remote_addr", Value: r.RemoteAddr})
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// throttleMiddleware enforces the per-identity quota and reports it in headers.
// The identity is the X-User-ID header, else the client address.
func (s *Server) throttleMiddleware(next http.Handler) http.Handler {
	if s.throttle == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Header.Get(userHeader)
		if identity == "" {
			identity = r.RemoteAddr
		}
		q := s.throttle.Allow(identity)
		h := w.Header()
		h.Set(headerLimit, strconv.Itoa(q.Limit))
		h.Set(headerRemaining, strconv.Itoa(q.Remaining))
		h.Set(headerReset, strconv.FormatInt(q.ResetAt.Unix(), 10))
		if !q.Allowed {
			retry := int(time.Until(q.ResetAt).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			s.logger.Warn("Quota exhausted",
				logging.Field{Key: logging.FieldUser, Value: identity},
				logging.Field{Key: "path", Value: r.URL.Path})
			writeError(w, http.StatusTooManyRequests, "quota exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: logging.FieldStatus, Value: ww.Status()},
			logging.Field{Key: "bytes", Value: ww.BytesWritten()},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()},
			logging.Field{Key: "request_id", Value: middleware.GetReqID(r.Context())})
	})
}
