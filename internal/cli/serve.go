package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpclient/internal/testserver"
)

const (
	errServe    = "server failed"
	errShutdown = "server shutdown failed"
)

func newServeCmd(globals *globalOptions) *cobra.Command {
	var (
		addr  string
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local echo server used for integration testing",
		Long: `Run the local echo server. Every route requires
"Authorization: Bearer <token>".

  GET  /api/data
  GET  /api/search?name=&page=&limit=
  POST /api/post/data        (application/json)
  POST /api/post/data/form   (application/x-www-form-urlencoded)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(withContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           testserver.New(testserver.Config{Token: token, LogRequests: globals.verbose}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)

			select {
			case err := <-errCh:
				return errors.Wrap(err, errServe)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, errShutdown)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:4245", "Address to listen on")
	cmd.Flags().StringVar(&token, "token", testserver.DefaultToken, "Expected bearer token")
	return cmd
}
