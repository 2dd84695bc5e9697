package cli

import (
	"github.com/spf13/cobra"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

func newPostCmd(globals *globalOptions) *cobra.Command {
	var (
		headers []string
		data    []string
		raw     string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Make a POST request to the specified URL",
		Long: `Make a POST request. Fields given with --data are form encoded, or JSON
encoded with --json. --raw sends the body exactly as given.`,
		Example: `  httpclient post http://localhost:4245/api/post/data --json -d title=foo -d body=bar
  httpclient post http://localhost:4245/api/post/data/form -d title=foo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestHeaders, err := parseHeaders(headers)
			if err != nil {
				return err
			}
			fields, err := parseKeyValues(data)
			if err != nil {
				return err
			}

			s, err := globals.newSession(cmd)
			if err != nil {
				return err
			}

			var resp *clienthttp.Response
			if cmd.Flags().Changed("raw") {
				if asJSON {
					requestHeaders = requestHeaders.Set("Content-Type", clienthttp.ContentTypeJSON)
				}
				resp, err = s.client.Fetch(withContext(cmd), args[0],
					clienthttp.WithMethod(clienthttp.MethodPost),
					clienthttp.WithHeaders(requestHeaders),
					clienthttp.WithBody(raw),
				)
			} else {
				if fields == nil {
					fields = map[string]string{}
				}
				resp, err = s.client.Post(withContext(cmd), args[0], fields, asJSON, requestHeaders)
			}
			if err != nil {
				return err
			}
			return s.report(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "Body field as key=value (can be used multiple times)")
	cmd.Flags().StringVar(&raw, "raw", "", "Raw request body")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Send the body as JSON")
	return cmd
}
