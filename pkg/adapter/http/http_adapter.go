package http

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/marmos91/minihttpd/internal/logger"
	"github.com/marmos91/minihttpd/internal/ratelimiter"
	"github.com/marmos91/minihttpd/internal/workerpool"
	"github.com/marmos91/minihttpd/pkg/arith"
	"github.com/marmos91/minihttpd/pkg/arith/mathlib"
	"github.com/marmos91/minihttpd/pkg/content"
	"github.com/marmos91/minihttpd/pkg/metrics"
	"github.com/marmos91/minihttpd/pkg/store/users"
)

// HTTPAdapter implements the adapter.Adapter interface for the HTTP/1.1
// subset served by minihttpd.
//
// Architecture:
// The accept loop runs on its own goroutine and never serves a connection
// itself: every accepted connection becomes one job on a fixed worker pool.
// A job reads a single request, writes a single response and closes the
// connection. When every worker is busy, new connections wait in the pool's
// queue.
//
// Shutdown flow:
//  1. Context cancelled or Stop() called
//  2. Listener closed (no new connections)
//  3. Pool closed: queued connections are closed without a response,
//     running ones finish
//  4. Wait up to ShutdownTimeout, then force-close what is left
type HTTPAdapter struct {
	// config holds the adapter configuration (address, pool size, timeouts)
	config HTTPConfig

	// listener is the TCP listener for accepting connections
	// Closed during shutdown to stop accepting new connections
	// Guarded by mu until ready is closed
	listener net.Listener
	mu       sync.Mutex

	// port is the bound port once Serve has started listening
	port atomic.Int32

	// ready is closed once the listener is bound
	ready chan struct{}

	// pool runs connection jobs; created by Serve
	pool *workerpool.Pool

	// acceptLimiter throttles the accept loop; nil when unlimited
	acceptLimiter *ratelimiter.RateLimiter

	// router dispatches parsed requests to handlers
	router *Router

	// handler owns the stores and the arithmetic bridge
	handler *Handler

	// metrics provides optional Prometheus metrics collection
	metrics metrics.HTTPMetrics

	// activeConns tracks every accepted connection until it is closed,
	// whether it is queued or being served
	activeConns sync.WaitGroup

	// shutdownOnce ensures shutdown is only initiated once
	shutdownOnce sync.Once

	// shutdown signals that graceful shutdown has been initiated
	shutdown chan struct{}

	// stopped is closed when Serve has finished its shutdown sequence
	stopped chan struct{}

	// connCount tracks the current number of open connections
	connCount atomic.Int32

	// shutdownCtx is cancelled when shutdown starts. It stops the accept
	// limiter wait and the metrics logger.
	shutdownCtx    context.Context
	cancelShutdown context.CancelFunc

	// requestCtx is handed to handlers. It outlives graceful shutdown so
	// in-flight requests still produce their normal response, and is only
	// cancelled when remaining connections are force-closed.
	requestCtx     context.Context
	cancelRequests context.CancelFunc

	// activeConnections maps connection id to net.Conn for forced closure
	activeConnections sync.Map
}

// New creates a new HTTPAdapter with the specified configuration.
//
// Zero values in config are replaced with defaults. An invalid configuration
// causes a panic (indicates programmer error; pkg/config validates first).
//
// httpMetrics may be nil for no metrics.
func New(config HTTPConfig, httpMetrics metrics.HTTPMetrics) *HTTPAdapter {
	config.applyDefaults()

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid HTTP config: %v", err))
	}

	if httpMetrics == nil {
		httpMetrics = metrics.NewNoopHTTPMetrics()
	}

	shutdownCtx, cancelShutdown := context.WithCancel(context.Background())
	requestCtx, cancelRequests := context.WithCancel(context.Background())

	s := &HTTPAdapter{
		config:         config,
		acceptLimiter:  ratelimiter.New(config.MaxAcceptRate, config.AcceptBurst),
		metrics:        httpMetrics,
		ready:          make(chan struct{}),
		shutdown:       make(chan struct{}),
		stopped:        make(chan struct{}),
		shutdownCtx:    shutdownCtx,
		cancelShutdown: cancelShutdown,
		requestCtx:     requestCtx,
		cancelRequests: cancelRequests,
	}
	s.port.Store(int32(config.Port))
	s.handler = NewHandler(config, arith.NewBridge(mathlib.New()))
	s.router = NewRouter(s.handler)
	return s
}

// SetStores injects the shared record store and the static page store.
//
// Thread safety:
// Called exactly once before Serve(), no synchronization needed.
func (s *HTTPAdapter) SetStores(records users.Repository, pages content.ContentStore) {
	s.handler.users = records
	s.handler.pages = pages
	logger.Debug("HTTP stores configured")
}

// SetNative replaces the arithmetic module behind POST /math. Must be called
// before Serve().
func (s *HTTPAdapter) SetNative(native arith.Native) {
	s.handler.bridge = arith.NewBridge(native)
}

// Serve binds the listener and runs the accept loop until the context is
// cancelled or Stop() is called.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the listener fails to start or shutdown timed out
//
// Thread safety:
// Serve() should only be called once per HTTPAdapter instance.
func (s *HTTPAdapter) Serve(ctx context.Context) error {
	if s.handler.users == nil || s.handler.pages == nil {
		return fmt.Errorf("HTTP adapter stores not configured")
	}

	addr := net.JoinHostPort(s.config.BindAddress, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create HTTP listener on %s: %w", addr, err)
	}

	pool, err := workerpool.New(s.config.Workers)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	s.mu.Lock()
	select {
	case <-s.shutdown:
		// Stop() won the race with startup.
		s.mu.Unlock()
		_ = listener.Close()
		pool.Close()
		return nil
	default:
	}
	s.listener = listener
	s.pool = pool
	s.port.Store(int32(listener.Addr().(*net.TCPAddr).Port))
	close(s.ready)
	s.mu.Unlock()

	logger.Info("HTTP server listening on %s", listener.Addr())
	logger.Debug("HTTP config: workers=%d read_buffer=%s sleep_delay=%v read_timeout=%v write_timeout=%v accept_rate=%v",
		s.config.Workers, humanize.IBytes(uint64(s.config.ReadBufferSize)), s.config.SleepDelay,
		s.config.ReadTimeout, s.config.WriteTimeout, s.acceptLimiter.Limit())

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("HTTP shutdown signal received: %v", ctx.Err())
			s.initiateShutdown()
		case <-s.shutdown:
		}
	}()

	if s.config.MetricsLogInterval > 0 {
		go s.logMetrics(s.shutdownCtx)
	}

	for {
		if !s.acceptLimiter.Allow() {
			logger.Debug("Accept rate limit reached (%v/s, burst %d), waiting",
				s.acceptLimiter.Limit(), s.acceptLimiter.Burst())
			if err := s.acceptLimiter.Wait(s.shutdownCtx); err != nil {
				return s.gracefulShutdown()
			}
		}

		tcpConn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				// Expected error during shutdown (listener was closed)
				return s.gracefulShutdown()
			default:
				logger.Debug("Error accepting HTTP connection: %v", err)
				continue
			}
		}

		conn := s.track(tcpConn)
		if err := s.pool.Execute(conn); err != nil {
			// The pool only refuses jobs once it is closed.
			logger.Debug("HTTP connection %s dropped: %v", conn.id, err)
			conn.Abandon()
		}
		s.metrics.SetPoolState(s.queueDepth())
	}
}

// track registers an accepted connection and wraps it in a pool job.
func (s *HTTPAdapter) track(tcpConn net.Conn) *HTTPConnection {
	id := uuid.NewString()[:8]

	s.activeConns.Add(1)
	current := s.connCount.Add(1)
	s.activeConnections.Store(id, tcpConn)

	s.metrics.RecordConnectionAccepted()
	s.metrics.SetActiveConnections(current)

	logger.Debug("HTTP connection %s accepted from %s (active: %d)", id, tcpConn.RemoteAddr(), current)

	return NewHTTPConnection(s, tcpConn, id)
}

// release is called exactly once per tracked connection, after it is closed.
func (s *HTTPAdapter) release(id string) {
	s.activeConnections.Delete(id)
	current := s.connCount.Add(-1)
	s.activeConns.Done()
	s.metrics.SetActiveConnections(current)
}

func (s *HTTPAdapter) queueDepth() (queued, busy int) {
	if s.pool == nil {
		return 0, 0
	}
	stats := s.pool.Stats()
	return stats.Queued, stats.Busy
}

// initiateShutdown closes the listener and cancels the request context.
// Safe to call multiple times and from multiple goroutines.
func (s *HTTPAdapter) initiateShutdown() {
	s.shutdownOnce.Do(func() {
		logger.Debug("HTTP shutdown initiated")

		s.mu.Lock()
		close(s.shutdown)
		listener := s.listener
		s.mu.Unlock()

		if listener != nil {
			if err := listener.Close(); err != nil {
				logger.Debug("Error closing HTTP listener: %v", err)
			}
		}

		s.cancelShutdown()
	})
}

// gracefulShutdown closes the pool and waits for open connections, up to
// ShutdownTimeout.
//
// Returns nil if every connection completed, an error if some had to be
// force-closed.
//
// Thread safety:
// Should only be called once, from the Serve() method.
func (s *HTTPAdapter) gracefulShutdown() error {
	defer close(s.stopped)

	// Reached when the limiter wait was cancelled before the listener closed.
	s.initiateShutdown()

	logger.Info("HTTP graceful shutdown: %d open connection(s) (timeout: %v)",
		s.connCount.Load(), s.config.ShutdownTimeout)

	done := make(chan struct{})
	go func() {
		// Close drops queued jobs (their connections are closed through
		// Abandon) and waits for running ones.
		s.pool.Close()
		s.activeConns.Wait()
		close(done)
	}()

	timer := time.NewTimer(s.config.ShutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		s.cancelRequests()
		logger.Info("HTTP graceful shutdown complete: all connections closed")
		return nil

	case <-timer.C:
		remaining := s.connCount.Load()
		logger.Warn("HTTP shutdown timeout exceeded: %d connection(s) still open after %v - forcing closure",
			remaining, s.config.ShutdownTimeout)

		s.forceCloseConnections()

		return fmt.Errorf("HTTP shutdown timeout: %d connections force-closed", remaining)
	}
}

// forceCloseConnections closes every open TCP connection. Workers blocked on
// a read or write fail immediately; a worker inside a handler finishes the
// handler and then fails to write.
func (s *HTTPAdapter) forceCloseConnections() {
	s.cancelRequests()

	closedCount := 0
	s.activeConnections.Range(func(key, value any) bool {
		id := key.(string)
		conn := value.(net.Conn)

		if err := conn.Close(); err != nil {
			logger.Debug("Error force-closing connection %s: %v", id, err)
		} else {
			closedCount++
			s.metrics.RecordConnectionForceClosed()
		}
		return true
	})

	if closedCount > 0 {
		logger.Info("Force-closed %d connection(s)", closedCount)
	}
}

// Stop initiates graceful shutdown and waits for Serve to finish it, or for
// ctx to be done.
//
// Thread safety:
// Safe to call concurrently from multiple goroutines.
func (s *HTTPAdapter) Stop(ctx context.Context) error {
	s.initiateShutdown()

	select {
	case <-s.ready:
	default:
		// Serve never bound a listener; nothing to wait for.
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		logger.Warn("HTTP shutdown context cancelled: %d connection(s) still open: %v",
			s.connCount.Load(), ctx.Err())
		return ctx.Err()
	}
}

// logMetrics periodically logs pool and connection counters.
func (s *HTTPAdapter) logMetrics(ctx context.Context) {
	ticker := time.NewTicker(s.config.MetricsLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := s.pool.Stats()
			logger.Info("HTTP metrics: open_connections=%d queued=%d busy=%d/%d served=%d panicked=%d",
				s.connCount.Load(), stats.Queued, stats.Busy, stats.Workers, stats.Completed, stats.Panicked)
		}
	}
}

// Ready is closed once Serve has bound its listener.
func (s *HTTPAdapter) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address, or nil before Serve has bound it.
func (s *HTTPAdapter) Addr() net.Addr {
	select {
	case <-s.ready:
		return s.listener.Addr()
	default:
		return nil
	}
}

// GetActiveConnections returns the current number of open connections,
// queued or being served.
func (s *HTTPAdapter) GetActiveConnections() int32 {
	return s.connCount.Load()
}

// Port returns the TCP port the adapter is listening on.
func (s *HTTPAdapter) Port() int {
	return int(s.port.Load())
}

// Protocol returns "HTTP" as the protocol identifier.
func (s *HTTPAdapter) Protocol() string {
	return "HTTP"
}
