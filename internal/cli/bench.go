package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	clienthttp "github.com/wesleyorama2/httpclient/http"
	"github.com/wesleyorama2/httpclient/internal/bench"
)

const errBench = "benchmark failed"

func newBenchCmd(globals *globalOptions) *cobra.Command {
	flags := &fetchFlags{}
	var (
		requests    int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send the same request repeatedly and report latency percentiles",
		Example: `  httpclient bench http://localhost:4245/api/data -n 200 -c 4 -H "Authorization: Bearer secret_token"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}

			clientOpts, err := globals.clientOptions(cmd)
			if err != nil {
				return err
			}
			logger, err := globals.newLogger()
			if err != nil {
				return err
			}
			client, err := clienthttp.NewClient(clienthttp.WithOptions(clientOpts), clienthttp.WithLogger(logger))
			if err != nil {
				return errors.Wrap(err, errCreateClient)
			}

			summary, err := bench.Run(withContext(cmd), client, args[0], bench.Config{
				Requests:    requests,
				Concurrency: concurrency,
				Options:     opts,
			})
			if err != nil {
				return errors.Wrap(err, errBench)
			}

			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVarP(&requests, "requests", "n", 100, "Number of requests to send")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "Number of concurrent workers")
	return cmd
}
