package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	globals := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "httpclient",
		Short:   "A minimal single-shot HTTP client",
		Version: version,
		Long: `httpclient sends one HTTP request per invocation and prints the
structured response: status code, headers and body, with optional
JSONPath extraction and JSON Schema validation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			_ = cmd.Help()
		},
	}

	globals.bindFlags(rootCmd)

	rootCmd.AddCommand(newGetCmd(globals))
	rootCmd.AddCommand(newPostCmd(globals))
	rootCmd.AddCommand(newFetchCmd(globals))
	rootCmd.AddCommand(newBenchCmd(globals))
	rootCmd.AddCommand(newServeCmd(globals))
	rootCmd.AddCommand(newConfigCmd(globals))

	return rootCmd
}

// Execute runs the command tree against os.Args.
// This is called by main.main().
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
