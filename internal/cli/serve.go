// Serve command for the mala CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/internal/httpapi"
	"github.com/mesh-intelligence/mala/internal/metrics"
	"github.com/mesh-intelligence/mala/internal/session"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter over HTTP",
		Long:  "Expose the counter as a JSON API with Prometheus metrics at /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if addr == "" {
				addr = a.serveAddr
			}

			m := metrics.New()
			sess, err := a.openSession(cmd.Context(), session.WithObserver(m))
			if err != nil {
				return err
			}
			defer a.release(sess, &err)
			m.Set(sess.Snapshot())

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return sysErr(fmt.Errorf("listen %s: %w", addr, err))
			}

			srv := &http.Server{
				Handler:           httpapi.NewHandler(sess, httpapi.WithLogger(a.log), httpapi.WithMetrics(m.Handler())),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverErrors := make(chan error, 1)
			go func() {
				serverErrors <- srv.Serve(ln)
			}()
			fmt.Fprintln(cmd.ErrOrStderr(), "listening on", ln.Addr().String())
			a.log.Info("serving", "addr", ln.Addr().String(), "backend", a.cfg.Backend)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return sysErr(fmt.Errorf("serve: %w", err))
			case <-ctx.Done():
				a.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.log.Warn("graceful shutdown did not complete", "error", err)
					srv.Close()
				}
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: serve.addr from config)")
	return cmd
}
