package cli

import (
	"strings"

	"github.com/spf13/cobra"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

// fetchFlags are the request flags shared by fetch and bench
type fetchFlags struct {
	method  string
	headers []string
	data    []string
	body    string
}

func (f *fetchFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, "method", "X", string(clienthttp.MethodGet), "HTTP method: GET, POST, PUT, DELETE or HEAD")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&f.data, "data", "d", nil, "Body field as key=value (can be used multiple times)")
	cmd.Flags().StringVar(&f.body, "body", "", "Raw request body")
}

// options converts the flags into Fetch options
func (f *fetchFlags) options(cmd *cobra.Command) ([]clienthttp.Option, error) {
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}
	fields, err := parseKeyValues(f.data)
	if err != nil {
		return nil, err
	}

	opts := []clienthttp.Option{
		clienthttp.WithMethod(clienthttp.Method(strings.ToUpper(f.method))),
	}
	if len(headers) > 0 {
		opts = append(opts, clienthttp.WithHeaders(headers))
	}
	switch {
	case cmd.Flags().Changed("body"):
		opts = append(opts, clienthttp.WithBody(f.body))
	case fields != nil:
		opts = append(opts, clienthttp.WithBody(fields))
	}
	return opts, nil
}

func newFetchCmd(globals *globalOptions) *cobra.Command {
	flags := &fetchFlags{}

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Make a request with any supported method",
		Long: `Make a request with any supported method. Fields given with --data are
encoded by Content-Type: JSON for application/json, form encoding otherwise.`,
		Example: `  httpclient fetch http://localhost:4245/api/post/data -X POST -H "Content-Type: application/json" -d title=foo
  httpclient fetch http://localhost:4245/api/data -X DELETE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}

			s, err := globals.newSession(cmd)
			if err != nil {
				return err
			}

			resp, err := s.client.Fetch(withContext(cmd), args[0], opts...)
			if err != nil {
				return err
			}
			return s.report(resp)
		},
	}

	flags.bind(cmd)
	return cmd
}
