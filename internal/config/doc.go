// Package config loads client option profiles for the command line tool.
//
// A profile file is YAML or JSON and maps profile names to option bags:
//
//	default: local
//	profiles:
//	  local:
//	    base_url: http://localhost:4245
//	    timeout: 10
//	    headers:
//	      Authorization: Bearer secret_token
//
// Each profile is decoded with http.DecodeOptions against the client scope,
// so unknown keys and wrongly typed values are rejected exactly as they are
// by http.NewClient.
//
// Basic Usage:
//
//	opts, err := config.Resolve(config.Sources{
//	    ConfigPath: "profiles.yaml",
//	    Profile:    "local",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := http.NewClient(http.WithOptions(opts))
//
// Precedence, lowest first: env files (never overriding the process
// environment), the selected profile, then the HTTPCLIENT_BASE_URL,
// HTTPCLIENT_TIMEOUT and HTTPCLIENT_USER_AGENT variables. HTTPCLIENT_PROFILE
// selects a profile when none is given.
//
// Configuration Validation:
//
//	errs := config.ValidateProfiles(cfg)
//	for _, err := range errs {
//	    fmt.Printf("%s: %s\n", err.Path, err.Message)
//	}
package config
