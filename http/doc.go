// Package http provides a minimal, single-shot HTTP client.
//
// A Client owns a validated set of options (user agent, timeout, headers and
// base URL). Every call merges its own options over them, builds one
// request, sends it through a Transport and parses the raw status and header
// lines into a Response. There are no retries, no redirects and no
// connection reuse.
//
// Basic Usage:
//
//	client, err := http.NewClient(
//	    http.WithBaseURL("https://api.example.com"),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get(ctx, "/search", map[string]string{"name": "foo"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := resp.JSON()
//
// Option maps read from JSON or YAML go through DecodeOptions, which rejects
// unknown keys:
//
//	opts, err := http.DecodeOptions(raw, http.ClientScope)
//	client, err := http.NewClient(http.WithOptions(opts))
//
// Errors:
//
// Configuration problems are reported as *ConfigError before anything is
// sent, network failures as *TransportError and invalid JSON bodies as
// *DecodeError. Non-2xx status codes are not errors.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
