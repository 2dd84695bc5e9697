package config

import (
	"errors"
	"fmt"
	"strings"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateProfiles checks every profile against the client option
// allow-list and reports all problems in profile order.
func ValidateProfiles(config *Config) []ValidationError {
	var errs []ValidationError

	if len(config.Profiles) == 0 {
		errs = append(errs, ValidationError{
			Path:    "profiles",
			Message: "at least one profile is required",
		})
	}

	if config.Default != "" {
		if _, ok := config.Profiles[config.Default]; !ok {
			errs = append(errs, ValidationError{
				Path:    "default",
				Message: fmt.Sprintf("profile not found: %s", config.Default),
			})
		}
	}

	for _, name := range config.ProfileNames() {
		_, err := clienthttp.DecodeOptions(config.Profiles[name], clienthttp.ClientScope)
		if err == nil {
			continue
		}

		path := fmt.Sprintf("profiles.%s", name)
		message := err.Error()
		var configErr *clienthttp.ConfigError
		if errors.As(err, &configErr) {
			if configErr.Key != "" {
				path += "." + configErr.Key
			}
			message = configErr.Message
		}
		errs = append(errs, ValidationError{Path: path, Message: message})
	}

	return errs
}

// ValidationErrors collects every problem found in a profile file
type ValidationErrors []ValidationError

// Error lists the problems, one per line
func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Validate checks every profile and returns ValidationErrors when any
// problem is found
func (c *Config) Validate() error {
	if errs := ValidateProfiles(c); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}

// ValidateProfile validates that a profile exists
func ValidateProfile(config *Config, name string) error {
	if _, ok := config.Profiles[name]; !ok {
		return fmt.Errorf("%s: %s", errUnknownProf, name)
	}
	return nil
}
