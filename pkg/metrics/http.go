package metrics

import "time"

// HTTPMetrics provides observability for the HTTP adapter.
//
// This interface is optional - if not provided to the adapter, a no-op
// implementation is used.
//
// Example usage:
//
//	// With metrics enabled
//	m := prometheus.NewHTTPMetrics()
//	adapter := http.New(config, m)
//
//	// Without metrics (no-op)
//	adapter := http.New(config, nil)
type HTTPMetrics interface {
	// RecordRequest records a completed request.
	//
	// Parameters:
	//   - route: matched route name (e.g. "GET /users", "not_found")
	//   - status: HTTP status code written to the client
	//   - duration: time from first byte read to response written
	RecordRequest(route string, status int, duration time.Duration)

	// RecordBytesWritten records response bytes sent to clients.
	RecordBytesWritten(bytes int)

	// SetActiveConnections updates the number of connections being served.
	SetActiveConnections(count int32)

	// RecordConnectionAccepted increments the total accepted connections counter.
	RecordConnectionAccepted()

	// RecordConnectionClosed increments the total closed connections counter.
	RecordConnectionClosed()

	// RecordConnectionForceClosed counts connections closed by the shutdown
	// timeout or abandoned in the queue.
	RecordConnectionForceClosed()

	// SetPoolState publishes the worker pool's queue depth and busy workers.
	SetPoolState(queued, busy int)

	// RecordJobPanic counts jobs whose handler panicked.
	RecordJobPanic()
}

// NewNoopHTTPMetrics returns an HTTPMetrics that discards everything.
func NewNoopHTTPMetrics() HTTPMetrics {
	return noopHTTPMetrics{}
}

type noopHTTPMetrics struct{}

func (noopHTTPMetrics) RecordRequest(route string, status int, duration time.Duration) {}
func (noopHTTPMetrics) RecordBytesWritten(bytes int)                                   {}
func (noopHTTPMetrics) SetActiveConnections(count int32)                               {}
func (noopHTTPMetrics) RecordConnectionAccepted()                                      {}
func (noopHTTPMetrics) RecordConnectionClosed()                                        {}
func (noopHTTPMetrics) RecordConnectionForceClosed()                                   {}
func (noopHTTPMetrics) SetPoolState(queued, busy int)                                  {}
func (noopHTTPMetrics) RecordJobPanic()                                                {}
