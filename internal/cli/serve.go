package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkeating27/Red-Crafter/internal/server"
)

// NewServeCommand runs the HTTP API.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Red Crafter HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(opts, "[server] ")
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = env.cfg.Listen
			}

			env.logger.Printf("loaded %d recipes (digest %s)", env.catalog.Len(), env.catalog.Digest)

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(env.catalog, env.provider, env.logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				env.logger.Printf("listening on %s", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			env.logger.Printf("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
