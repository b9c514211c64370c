package adapter

import (
	"context"

	"github.com/marmos91/minihttpd/pkg/content"
	"github.com/marmos91/minihttpd/pkg/store/users"
)

// Adapter represents a protocol-specific server adapter that can be managed
// by the server orchestrator.
//
// Lifecycle:
//  1. Creation: Adapter is created with protocol-specific configuration
//  2. Store injection: SetStores() provides the shared record store and pages
//  3. Startup: Serve() starts the protocol server and blocks until shutdown
//  4. Shutdown: Stop() initiates graceful shutdown with timeout
//
// Thread safety:
// Implementations must be safe for concurrent use. SetStores() is called
// once before Serve(), but Stop() may be called concurrently with Serve().
type Adapter interface {
	// Serve starts the protocol server and blocks until the context is cancelled
	// or an unrecoverable error occurs.
	//
	// When the context is cancelled, Serve must initiate graceful shutdown:
	//   - Stop accepting new connections
	//   - Drop work that has not started yet
	//   - Wait for in-flight work to complete (with timeout)
	//
	// If Serve returns before context cancellation, the orchestrator treats it
	// as a fatal error and stops all other adapters.
	Serve(ctx context.Context) error

	// SetStores injects the process-wide record store and the static page
	// store. Called exactly once, before Serve().
	SetStores(records users.Repository, pages content.ContentStore)

	// Stop initiates graceful shutdown of the protocol server.
	//
	// Implementations must:
	//   - Be safe to call multiple times (idempotent)
	//   - Be safe to call concurrently with Serve()
	//   - Respect the context timeout for shutdown operations
	Stop(ctx context.Context) error

	// Protocol returns the human-readable protocol name for logging and metrics.
	Protocol() string

	// Port returns the TCP port the adapter is listening on, or the configured
	// port before Serve() has bound it.
	Port() int
}
