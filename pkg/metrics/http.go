package metrics

import "time"

// HTTPMetrics provides observability for the HTTP API.
//
// Implementations collect request counts, latencies, in-flight requests,
// body sizes and rate-limit rejections. If nil is passed to the router, a
// no-op implementation is used.
type HTTPMetrics interface {
	// RecordRequest records a completed request.
	//
	// Parameters:
	//   - route: Route pattern (e.g., "/files/{name}"), never the raw path
	//   - method: HTTP method
	//   - status: Response status code
	//   - duration: Time taken to serve the request
	RecordRequest(route, method string, status int, duration time.Duration)

	// RecordRequestStart increments the in-flight request gauge.
	RecordRequestStart(method string)

	// RecordRequestEnd decrements the in-flight request gauge.
	RecordRequestEnd(method string)

	// RecordBodyBytes records request or response body size.
	//
	// Parameters:
	//   - direction: "in" or "out"
	//   - bytes: Number of bytes
	RecordBodyBytes(direction string, bytes int64)

	// RecordRateLimited counts a request rejected with 429.
	RecordRateLimited()
}

// NewNoopHTTPMetrics returns an HTTPMetrics that discards everything.
func NewNoopHTTPMetrics() HTTPMetrics {
	return noopHTTPMetrics{}
}

type noopHTTPMetrics struct{}

func (noopHTTPMetrics) RecordRequest(route, method string, status int, duration time.Duration) {}
func (noopHTTPMetrics) RecordRequestStart(method string)                                       {}
func (noopHTTPMetrics) RecordRequestEnd(method string)                                         {}
func (noopHTTPMetrics) RecordBodyBytes(direction string, bytes int64)                          {}
func (noopHTTPMetrics) RecordRateLimited()                                                     {}
