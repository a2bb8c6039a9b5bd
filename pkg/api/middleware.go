package api

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/internal/ratelimiter"
	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// recoverer turns a handler panic into a 500 error envelope.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeError(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// instrument logs each request and reports it to m.
//
// The route label is the matched chi pattern, so "/files/{name}" is one
// series regardless of how many files exist.
func instrument(m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			m.RecordRequestStart(r.Method)
			defer m.RecordRequestEnd(r.Method)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			m.RecordRequest(route, r.Method, status, duration)
			if r.ContentLength > 0 {
				m.RecordBodyBytes("in", r.ContentLength)
			}
			m.RecordBodyBytes("out", int64(ww.BytesWritten()))

			if status >= http.StatusInternalServerError {
				logger.Warn("%s %s -> %d (%s)", r.Method, r.URL.Path, status, duration)
			} else {
				logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, status, duration)
			}
		})
	}
}

// rateLimit rejects requests over the limit with 429 and a Retry-After
// header. With perClient the bucket is chosen by remote IP, otherwise all
// requests share one bucket.
func rateLimit(limiter *ratelimiter.Limiter, perClient bool, m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if perClient {
				key = clientIP(r)
			}

			if !limiter.Allow(key) {
				m.RecordRateLimited()
				retry := limiter.RetryAfter(key)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				logger.Debug("Rate limited %s %s from %q", r.Method, r.URL.Path, key)
				writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limitBody caps the request body at n bytes.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > n {
				writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("%s: %s %s", msgMethodNotAllowed, r.Method, r.URL.Path))
}
