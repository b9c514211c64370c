// Command minihttpd serves static pages, a user record API and an arithmetic
// endpoint over a minimal HTTP/1.1 listener backed by a fixed worker pool.
//
// Usage:
//
//	minihttpd init            # write a sample config to $XDG_CONFIG_HOME/minihttpd/config.yaml
//	minihttpd start           # serve using the default config location
//	minihttpd start -c ./config.yaml
//	minihttpd version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(submain(context.Background()))
}

func submain(ctx context.Context) int {
	cmd := newRootCommand()
	ctx = withSignalCancel(ctx)
	return exitCode(os.Stderr, cmd.ExecuteContext(ctx))
}

// exitCode reports err on w unless it is a (possibly wrapped) cancellation.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(w, "Error: %s\n", err)
	}
	return 1
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "minihttpd",
		Short:         "minihttpd is a minimal thread-pooled HTTP/1.1 server",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: `
  # Generate a config file, then serve pages from ./public on 127.0.0.1:7878
  minihttpd init
  minihttpd start

  # Override single keys from the environment
  MINIHTTPD_ADAPTERS_HTTP_WORKERS=16 MINIHTTPD_LOGGING_LEVEL=debug minihttpd start`,
	}

	cmd.AddCommand(newStartCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func withSignalCancel(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()
	return ctx
}
