package config

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

const (
	errReadConfig   = "error reading config file"
	errParseConfig  = "error parsing config file"
	errLoadEnvFile  = "error loading env file"
	errUnknownProf  = "profile not found"
	errDecodeProf   = "invalid profile"
	errEnvOverrides = "invalid environment override"
	errInvalidConf  = "invalid config file"
)

// Environment variables that override profile values.
const (
	EnvBaseURL   = "HTTPCLIENT_BASE_URL"
	EnvTimeout   = "HTTPCLIENT_TIMEOUT"
	EnvUserAgent = "HTTPCLIENT_USER_AGENT"
	EnvProfile   = "HTTPCLIENT_PROFILE"
)

// DefaultEnvFile is loaded when present and no other env file is given
const DefaultEnvFile = ".env"

// Config is the top-level profile file. Each profile is an option bag
// decoded with the same allow-list as client construction.
type Config struct {
	Default  string                            `yaml:"default,omitempty" json:"default,omitempty"`
	Profiles map[string]map[string]interface{} `yaml:"profiles" json:"profiles"`
}

// LoadConfig loads a YAML or JSON profile file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errReadConfig)
	}
	return ParseConfig(data)
}

// ParseConfig decodes profile file contents. JSON is accepted as YAML.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errParseConfig)
	}
	if config.Profiles == nil {
		config.Profiles = map[string]map[string]interface{}{}
	}
	return &config, nil
}

// ProfileNames returns the profile names in sorted order
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile decodes the named profile into client options. An empty name
// selects the file's default profile, or no options when there is none.
func (c *Config) Profile(name string) (clienthttp.Options, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		return clienthttp.Options{}, nil
	}

	if err := ValidateProfile(c, name); err != nil {
		return clienthttp.Options{}, err
	}
	opts, err := clienthttp.DecodeOptions(c.Profiles[name], clienthttp.ClientScope)
	if err != nil {
		return clienthttp.Options{}, errors.Wrapf(err, "%s %s", errDecodeProf, name)
	}
	return opts, nil
}

// LoadEnvFiles loads variables from env files without overriding variables
// already set in the process. With no files, DefaultEnvFile is loaded when
// it exists.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		files = []string{DefaultEnvFile}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, errLoadEnvFile)
	}
	return nil
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// EnvOverrides reads HTTPCLIENT_* variables into client options. Only
// variables that are present are set.
func EnvOverrides(lookup LookupFunc) (clienthttp.Options, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	raw := map[string]interface{}{}
	if v, ok := lookup(EnvBaseURL); ok {
		raw[string(clienthttp.KeyBaseURL)] = v
	}
	if v, ok := lookup(EnvUserAgent); ok {
		raw[string(clienthttp.KeyUserAgent)] = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		seconds, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return clienthttp.Options{}, errors.Wrapf(err, "%s %s", errEnvOverrides, EnvTimeout)
		}
		raw[string(clienthttp.KeyTimeout)] = seconds
	}

	opts, err := clienthttp.DecodeOptions(raw, clienthttp.ClientScope)
	if err != nil {
		return clienthttp.Options{}, errors.Wrap(err, errEnvOverrides)
	}
	return opts, nil
}

// Sources describes where client options come from
type Sources struct {
	ConfigPath string
	Profile    string
	EnvFiles   []string
	Lookup     LookupFunc
}

// Resolve loads env files, the profile file and environment overrides and
// merges them in that order of increasing precedence. The whole profile file
// is validated first, so every problem in it is reported together.
func Resolve(src Sources) (clienthttp.Options, error) {
	if err := LoadEnvFiles(src.EnvFiles...); err != nil {
		return clienthttp.Options{}, err
	}

	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	profile := src.Profile
	if profile == "" {
		profile, _ = lookup(EnvProfile)
	}

	var layers []clienthttp.Options
	if src.ConfigPath != "" {
		config, err := LoadConfig(src.ConfigPath)
		if err != nil {
			return clienthttp.Options{}, err
		}
		if err := config.Validate(); err != nil {
			return clienthttp.Options{}, errors.Wrap(err, errInvalidConf)
		}
		opts, err := config.Profile(profile)
		if err != nil {
			return clienthttp.Options{}, err
		}
		layers = append(layers, opts)
	} else if profile != "" {
		return clienthttp.Options{}, errors.Errorf("%s: %s (no config file)", errUnknownProf, profile)
	}

	env, err := EnvOverrides(lookup)
	if err != nil {
		return clienthttp.Options{}, err
	}
	layers = append(layers, env)

	return clienthttp.Merge(layers...), nil
}
