package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd(globals *globalOptions) *cobra.Command {
	var (
		headers []string
		query   []string
	)

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Example: `  httpclient get http://localhost:4245/api/search -q name=foo -H "Authorization: Bearer secret_token"
  httpclient get /api/data --config profiles.yaml --profile local`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestHeaders, err := parseHeaders(headers)
			if err != nil {
				return err
			}
			params, err := parseKeyValues(query)
			if err != nil {
				return err
			}

			s, err := globals.newSession(cmd)
			if err != nil {
				return err
			}

			var queryParams interface{}
			if params != nil {
				queryParams = params
			}
			resp, err := s.client.Get(withContext(cmd), args[0], queryParams, requestHeaders)
			if err != nil {
				return err
			}
			return s.report(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter as key=value (can be used multiple times)")
	return cmd
}
