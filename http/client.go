package http

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// Exchange describes a completed request/response pair
type Exchange struct {
	Request  *Request
	Response *Response
	Duration time.Duration
}

// Observer is called after every completed exchange
type Observer func(Exchange)

// Client sends single-shot HTTP requests. Its options are fixed at
// construction and never modified by a call, so a Client is safe for
// concurrent use.
type Client struct {
	options   Options
	transport Transport
}

// NewClient creates a client from the built-in defaults overlaid with opts.
// Options outside ClientScope, or with invalid values, fail with a
// *ConfigError.
//
// Example:
//
//	client, err := http.NewClient(
//	    http.WithBaseURL("https://api.example.com"),
//	    http.WithTimeout(10*time.Second),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
func NewClient(opts ...Option) (*Client, error) {
	clientOpts := NewOptions(opts...)
	if err := clientOpts.Validate(ClientScope); err != nil {
		return nil, err
	}

	merged := Merge(DefaultOptions(), clientOpts)
	transport := merged.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	return &Client{options: merged, transport: transport}, nil
}

// Options returns the merged client options
func (c *Client) Options() Options {
	o := c.options
	o.Headers = o.Headers.Clone()
	return o
}

// Get sends a GET request. A non-empty query is encoded and appended to url.
// query may be url.Values, a string map, a map[string]interface{} or a struct
// with `url` tags.
func (c *Client) Get(ctx context.Context, rawURL string, queryParams interface{}, headers Headers) (*Response, error) {
	values, err := queryValues(queryParams)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, appendQuery(rawURL, values.Encode()), WithHeaders(headers))
}

// appendQuery adds an encoded query to rawURL, ahead of any fragment
func appendQuery(rawURL, encoded string) string {
	if encoded == "" {
		return rawURL
	}
	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	base += sep + encoded
	if hasFragment {
		base += "#" + fragment
	}
	return base
}

// Post sends data as the body of a POST request. With asJSON the request
// carries Content-Type: application/json and data is JSON encoded; otherwise
// it is form encoded.
func (c *Client) Post(ctx context.Context, rawURL string, data interface{}, asJSON bool, headers Headers) (*Response, error) {
	callHeaders := headers.Clone()
	if asJSON {
		callHeaders = callHeaders.Set("Content-Type", ContentTypeJSON)
	}
	return c.Fetch(ctx, rawURL,
		WithMethod(MethodPost),
		WithBody(data),
		WithHeaders(callHeaders),
	)
}

// Fetch validates the call options, merges them over the client options,
// builds the request and sends it. Any status code is returned as a
// Response; only configuration and transport failures are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts ...Option) (*Response, error) {
	callOpts := NewOptions(opts...)
	if err := callOpts.Validate(FetchScope); err != nil {
		return nil, err
	}

	merged := Merge(c.options, callOpts)
	req, err := BuildRequest(rawURL, merged)
	if err != nil {
		return nil, err
	}

	log := c.options.Logger.WithValues("method", req.Method, "url", req.URL)
	log.V(1).Info("Sending request", "headers", len(req.Headers), "bodyBytes", len(req.Body))

	start := time.Now()
	raw, err := c.transport.Send(ctx, req)
	if err != nil {
		if KindOf(err) != KindTransport {
			err = &TransportError{URL: req.URL, Err: err}
		}
		log.Error(err, "Request failed")
		return nil, err
	}
	elapsed := time.Since(start)

	resp := ParseResponse(raw)
	log.V(1).Info("Received response", "status", resp.StatusCode(), "bodyBytes", len(resp.Body()), "duration", elapsed)

	if c.options.Observer != nil {
		c.options.Observer(Exchange{Request: req, Response: resp, Duration: elapsed})
	}
	return resp, nil
}

func queryValues(v interface{}) (url.Values, error) {
	switch q := v.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return q, nil
	case map[string]string:
		values := make(url.Values, len(q))
		for key, value := range q {
			values.Set(key, value)
		}
		return values, nil
	case map[string]interface{}:
		values := make(url.Values, len(q))
		for key, value := range q {
			flattenFormValue(values, key, value)
		}
		return values, nil
	}
	values, err := query.Values(v)
	if err != nil {
		return nil, &ConfigError{Message: "cannot encode query", Err: err}
	}
	return values, nil
}
