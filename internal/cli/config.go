package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpclient/internal/config"
	"github.com/wesleyorama2/httpclient/internal/output"
)

const (
	errNoConfig       = "no config file given, use --config"
	errInvalidProfile = "config file has invalid profiles"
)

func newConfigCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the profile file given with --config",
	}

	cmd.AddCommand(newConfigValidateCmd(globals))
	cmd.AddCommand(newConfigProfilesCmd(globals))
	return cmd
}

// loadConfig reads the file named by --config
func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configPath == "" {
		return nil, errors.New(errNoConfig)
	}
	return config.LoadConfig(g.configPath)
}

func newConfigValidateCmd(globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   "Check every profile and report all problems",
		Example: `  httpclient config validate --config profiles.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stdout, _ := out.(*os.File)
			noColor := output.NoColorFor(globals.noColor, stdout)

			errs := config.ValidateProfiles(cfg)
			if len(errs) == 0 {
				fmt.Fprintf(out, "%s %d profiles valid\n", output.SuccessIcon(noColor), len(cfg.Profiles))
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(out, "%s %s\n", output.ErrorIcon(noColor), e.Error())
			}
			return errors.Errorf("%s: %d problems", errInvalidProfile, len(errs))
		},
	}
}

func newConfigProfilesCmd(globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}
			for _, name := range cfg.ProfileNames() {
				if name == cfg.Default {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
