package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/server"
	"github.com/matzehuels/flowmap/pkg/storage"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve command is interrupted.
const shutdownTimeout = 10 * time.Second

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the flowchart HTTP API under /api/v1 using the configured store.
The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, \":8080\")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	ws, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	if addr == "" {
		addr = ws.cfg.Server.Addr
	}
	api := server.New(ws.repo, server.Options{
		Sizes:       ws.sizes,
		Theme:       ws.cfg.Theme,
		Logger:      c.Logger,
		CORSOrigins: ws.cfg.Server.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Handler(),
		ReadTimeout:  ws.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: ws.cfg.Server.WriteTimeout.Duration,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen on %s", addr)
	}
	c.Logger.Info("serving API", "addr", ln.Addr().String(), "store", storage.Describe(ws.cfg.Storage))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Error("API shutdown failed", "error", err)
		return err
	}
	c.Logger.Debug("API shut down gracefully")
	return nil
}
