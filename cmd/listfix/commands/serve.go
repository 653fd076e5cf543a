package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dpotapov/go-listfix"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the repair endpoints over HTTP",
		Long: `Serve listens on --addr and serves:

  POST /repair        repair the fragment in the request body
  GET  /live          repair every fragment sent over a websocket
  GET  /conformance   run the fixture suites (?format=json|junit|text, ?where=...)

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	flags := cmd.Flags()
	flags.String("addr", "localhost:8080", "listen address")
	flags.Int64("max-body-bytes", listfix.DefaultMaxBodyBytes, "request body limit in bytes")
	flags.Bool("strict", false, "verify the structure of every repaired fragment")
	flags.String("fixtures", "", "glob of YAML suite files served by /conformance (default: built-in corpus)")
	flags.Duration("shutdown-timeout", 10*time.Second, "time to wait for open requests on shutdown (0: no limit)")

	return cmd
}

func loggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info("HTTP request", "method", r.Method, "url", r.URL, "status", ww.Status(),
			"bytes", ww.BytesWritten(), "elapsed", time.Since(start))
	})
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	suites, err := loadSuites(a.cfg.Fixtures)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	h := &listfix.Handler{
		Strict:       a.cfg.Strict,
		MaxBodyBytes: a.cfg.MaxBodyBytes,
		Suites:       suites,
		Logger:       a.logger,
	}

	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}
	return a.serve(cmd.Context(), ln, loggerMiddleware(h, a.logger))
}

// serve serves h on ln until ctx is done, then shuts the server down, waiting at most
// ShutdownTimeout for open requests, or without limit when it is 0.
func (a *app) serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	a.logger.Info("Starting HTTP server", "address", "http://"+ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithCancel(context.Background())
	if a.cfg.ShutdownTimeout > 0 {
		shutdownCtx, cancel = context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	}
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
