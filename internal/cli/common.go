package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clienthttp "github.com/wesleyorama2/httpclient/http"
	"github.com/wesleyorama2/httpclient/internal/config"
	"github.com/wesleyorama2/httpclient/internal/output"
	"github.com/wesleyorama2/httpclient/internal/schema"
)

const (
	errResolveOptions = "cannot resolve client options"
	errCreateClient   = "cannot create client"
	errCreateLogger   = "cannot create logger"
	errLoadSchema     = "cannot load schema"
	errSchemaMismatch = "response does not match schema"
	errExtract        = "cannot extract value"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	profile    string
	envFiles   []string
	timeout    int
	userAgent  string
	verbose    bool
	noColor    bool
	format     string
	extract    []string
	schemaPath string
}

func (g *globalOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Profile file (YAML or JSON)")
	flags.StringVar(&g.profile, "profile", "", "Profile to use from the config file")
	flags.StringArrayVar(&g.envFiles, "env-file", nil, "Env file to load (can be used multiple times)")
	flags.IntVarP(&g.timeout, "timeout", "t", int(clienthttp.DefaultTimeout.Seconds()), "Request timeout in seconds (0 disables)")
	flags.StringVar(&g.userAgent, "user-agent", "", "User-Agent header value")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&g.format, "output", "o", string(output.FormatText), "Output format: text, json or yaml")
	flags.StringArrayVar(&g.extract, "extract", nil, "Extract a value as name=$.json.path (can be used multiple times)")
	flags.StringVar(&g.schemaPath, "schema", "", "Validate the response body against a JSON Schema file")
}

// clientOptions resolves profile, environment and flag options, in that
// order of increasing precedence
func (g *globalOptions) clientOptions(cmd *cobra.Command) (clienthttp.Options, error) {
	opts, err := config.Resolve(config.Sources{
		ConfigPath: g.configPath,
		Profile:    g.profile,
		EnvFiles:   g.envFiles,
	})
	if err != nil {
		return clienthttp.Options{}, errors.Wrap(err, errResolveOptions)
	}

	raw := map[string]interface{}{}
	if cmd.Flags().Changed("timeout") {
		raw[string(clienthttp.KeyTimeout)] = g.timeout
	}
	if cmd.Flags().Changed("user-agent") {
		raw[string(clienthttp.KeyUserAgent)] = g.userAgent
	}
	flagOpts, err := clienthttp.DecodeOptions(raw, clienthttp.ClientScope)
	if err != nil {
		return clienthttp.Options{}, errors.Wrap(err, errResolveOptions)
	}

	return clienthttp.Merge(opts, flagOpts), nil
}

// newLogger returns a zap development logger when verbose, otherwise a
// logger that discards everything
func (g *globalOptions) newLogger() (logr.Logger, error) {
	if !g.verbose {
		return logr.Discard(), nil
	}
	zapLog, err := zap.NewDevelopment()
	if err != nil {
		return logr.Discard(), errors.Wrap(err, errCreateLogger)
	}
	return zapr.NewLogger(zapLog), nil
}

// session holds what a command needs to send requests and print results
type session struct {
	globals   *globalOptions
	client    *clienthttp.Client
	formatter output.FormatProvider
	validator *schema.Validator
	noColor   bool
	out       io.Writer

	exchange *clienthttp.Exchange
}

func (g *globalOptions) newSession(cmd *cobra.Command, extra ...clienthttp.Option) (*session, error) {
	format, err := output.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}

	opts, err := g.clientOptions(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := g.newLogger()
	if err != nil {
		return nil, err
	}

	s := &session{globals: g, out: cmd.OutOrStdout()}

	stdout, _ := s.out.(*os.File)
	s.noColor = output.NoColorFor(g.noColor, stdout)
	s.formatter = output.GetFormatter(format, g.verbose, s.noColor)

	if g.schemaPath != "" {
		if s.validator, err = schema.CompileFile(g.schemaPath); err != nil {
			return nil, errors.Wrap(err, errLoadSchema)
		}
	}

	clientOpts := append([]clienthttp.Option{
		clienthttp.WithOptions(opts),
		clienthttp.WithLogger(logger),
		clienthttp.WithObserver(func(e clienthttp.Exchange) { s.exchange = &e }),
	}, extra...)
	if s.client, err = clienthttp.NewClient(clientOpts...); err != nil {
		return nil, errors.Wrap(err, errCreateClient)
	}
	return s, nil
}

// report prints the last exchange, the extracted values and the schema
// validation result
func (s *session) report(resp *clienthttp.Response) error {
	if s.exchange != nil {
		fmt.Fprint(s.out, s.formatter.FormatRequest(s.exchange.Request))
		fmt.Fprint(s.out, s.formatter.FormatResponse(resp, s.exchange.Duration))
	} else {
		fmt.Fprint(s.out, s.formatter.FormatResponse(resp, 0))
	}

	if len(s.globals.extract) > 0 {
		paths, err := parseExtractions(s.globals.extract)
		if err != nil {
			return err
		}
		values, err := extractValues(resp, paths)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, s.formatter.FormatExtractions(values))
	}

	if s.validator != nil {
		if err := s.validator.ValidateResponse(resp); err != nil {
			fmt.Fprintf(s.out, "%s Schema validation failed\n", output.ErrorIcon(s.noColor))
			return errors.Wrap(err, errSchemaMismatch)
		}
		fmt.Fprintf(s.out, "%s Schema validation passed\n", output.SuccessIcon(s.noColor))
	}
	return nil
}

// parseHeaders parses "Name: value" flags in order
func parseHeaders(values []string) (clienthttp.Headers, error) {
	var headers clienthttp.Headers
	for _, value := range values {
		parts := strings.SplitN(value, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q, expected Name: value", value)
		}
		headers = headers.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
	return headers, nil
}

// parseKeyValues parses "key=value" flags. A key given twice keeps the
// last value.
func parseKeyValues(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(values))
	for _, value := range values {
		parts := strings.SplitN(value, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid value %q, expected key=value", value)
		}
		result[parts[0]] = parts[1]
	}
	return result, nil
}

// parseExtractions parses "name=$.path" flags
func parseExtractions(values []string) (map[string]string, error) {
	paths, err := parseKeyValues(values)
	if err != nil {
		return nil, err
	}
	for name, path := range paths {
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("empty JSONPath for %q", name)
		}
	}
	return paths, nil
}

// extractValues looks up every path in the response body
func extractValues(resp *clienthttp.Response, paths map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(paths))
	for name, path := range paths {
		value, err := resp.Lookup(path)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", errExtract, name)
		}
		values[name] = value
	}
	return values, nil
}

// withContext returns the command context, or a background context when
// the command runs without one
func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
