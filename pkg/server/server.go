// Package server runs the protocol adapters that share one record store and
// one static page store.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/minihttpd/internal/logger"
	"github.com/marmos91/minihttpd/pkg/adapter"
	"github.com/marmos91/minihttpd/pkg/content"
	"github.com/marmos91/minihttpd/pkg/store/users"
)

// DefaultStopTimeout bounds how long Serve waits for each adapter's Stop.
const DefaultStopTimeout = 30 * time.Second

// Server manages the lifecycle of the registered adapters.
//
// The server constructs and owns the single record store. Every adapter gets
// a handle to it; the store lives for exactly one Serve call and is closed
// once all adapters have stopped.
//
// Lifecycle:
//  1. Creation: New() with the page store
//  2. Registration: AddAdapter() for each protocol
//  3. Startup: Serve() starts all adapters concurrently
//  4. Shutdown: Context cancellation triggers graceful shutdown of all adapters
//
// Example usage:
//
//	srv := server.New(pages)
//	srv.AddAdapter(http.New(httpConfig, httpMetrics))
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
type Server struct {
	// records is the process-wide record store shared by every adapter
	records *users.Store

	// pages serves static content to every adapter
	pages content.ContentStore

	// adapters contains all registered protocol adapters
	adapters []adapter.Adapter

	// stopTimeout bounds each adapter's Stop call
	stopTimeout time.Duration

	// mu protects adapters and served
	mu     sync.Mutex
	served bool
}

// New creates a server with a fresh record store.
//
// Panics if pages is nil (indicates programmer error).
func New(pages content.ContentStore) *Server {
	if pages == nil {
		panic("content store cannot be nil")
	}

	return &Server{
		records:     users.NewStore(),
		pages:       pages,
		adapters:    make([]adapter.Adapter, 0, 1),
		stopTimeout: DefaultStopTimeout,
	}
}

// SetStopTimeout overrides DefaultStopTimeout.
func (s *Server) SetStopTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimeout = d
}

// Records returns the shared record store.
func (s *Server) Records() *users.Store {
	return s.records
}

// AddAdapter injects the shared stores into a and registers it.
//
// Returns an error if another adapter already serves the same protocol or
// port, or if Serve() has already been called.
//
// Panics if a is nil.
func (s *Server) AddAdapter(a adapter.Adapter) error {
	if a == nil {
		panic("adapter cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.served {
		return fmt.Errorf("cannot add %s adapter after Serve() has been called", a.Protocol())
	}

	protocol := a.Protocol()
	port := a.Port()

	for _, existing := range s.adapters {
		if existing.Protocol() == protocol {
			return fmt.Errorf("adapter for protocol %s already registered", protocol)
		}
		// Port 0 asks the OS for a free port and cannot conflict.
		if port != 0 && existing.Port() == port {
			return fmt.Errorf("port %d already in use by %s adapter", port, existing.Protocol())
		}
	}

	a.SetStores(s.records, s.pages)
	s.adapters = append(s.adapters, a)

	logger.Info("Registered %s adapter on port %d", protocol, port)
	return nil
}

// Serve starts all registered adapters and blocks until the context is
// cancelled or one of them fails.
//
// Returns:
//   - context.Canceled (or the ctx error) after a shutdown triggered by ctx
//   - the first adapter error, wrapped, if an adapter failed
//   - an error if no adapters are registered or Serve was already called
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.served {
		s.mu.Unlock()
		return errors.New("Serve() has already been called on this server instance")
	}
	s.served = true
	if len(s.adapters) == 0 {
		s.mu.Unlock()
		return errors.New("no adapters registered; call AddAdapter() before Serve()")
	}
	adapters := make([]adapter.Adapter, len(s.adapters))
	copy(adapters, s.adapters)
	stopTimeout := s.stopTimeout
	s.mu.Unlock()

	defer func() {
		_ = s.records.Close()
		logger.Debug("Record store closed")
	}()

	logger.Info("Starting minihttpd with %d adapter(s)", len(adapters))

	// Buffered so a failing adapter never blocks on send.
	errChan := make(chan adapterError, len(adapters))

	var wg sync.WaitGroup
	for _, adp := range adapters {
		wg.Add(1)
		go func(a adapter.Adapter) {
			defer wg.Done()

			protocol := a.Protocol()
			logger.Info("Starting %s adapter on port %d", protocol, a.Port())

			err := a.Serve(ctx)
			switch {
			case err == nil:
				logger.Info("%s adapter stopped", protocol)
				if ctx.Err() == nil {
					errChan <- adapterError{protocol: protocol, err: errors.New("stopped unexpectedly")}
				}
			case errors.Is(err, context.Canceled) || ctx.Err() != nil:
				logger.Debug("%s adapter stopped: %v", protocol, err)
			default:
				logger.Error("%s adapter failed: %v", protocol, err)
				errChan <- adapterError{protocol: protocol, err: err}
			}
		}(adp)
	}

	var shutdownErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received (reason: %v)", ctx.Err())
		stopAll(adapters, stopTimeout)
		shutdownErr = ctx.Err()

	case adapterErr := <-errChan:
		logger.Error("Adapter %s failed: %v - initiating shutdown of all adapters",
			adapterErr.protocol, adapterErr.err)
		stopAll(adapters, stopTimeout)
		shutdownErr = fmt.Errorf("%s adapter error: %w", adapterErr.protocol, adapterErr.err)
	}

	logger.Debug("Waiting for all adapters to complete shutdown")
	wg.Wait()

	logger.Info("minihttpd stopped")
	return shutdownErr
}

// adapterError pairs an adapter protocol name with its error.
type adapterError struct {
	protocol string
	err      error
}

// stopAll stops adapters in reverse registration order. Stop errors are
// logged; the remaining adapters are still stopped.
func stopAll(adapters []adapter.Adapter, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Initiating graceful shutdown of %d adapter(s)", len(adapters))

	for i := len(adapters) - 1; i >= 0; i-- {
		adp := adapters[i]
		if err := adp.Stop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Error stopping %s adapter: %v", adp.Protocol(), err)
		}
	}
}

// Adapters returns a snapshot of currently registered adapters.
func (s *Server) Adapters() []adapter.Adapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	adapters := make([]adapter.Adapter, len(s.adapters))
	copy(adapters, s.adapters)
	return adapters
}
