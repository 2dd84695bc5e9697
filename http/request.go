package http

import (
	"strings"
	"time"
)

// Content types the builder knows how to encode
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Request is a fully resolved request, ready for a Transport. It is built
// once per call and not modified afterwards.
type Request struct {
	Method    Method
	URL       string
	Headers   Headers
	Body      []byte
	UserAgent string
	Timeout   time.Duration
}

// HeaderBlock returns the headers in wire form, one CRLF-terminated line each
func (r *Request) HeaderBlock() string {
	return r.Headers.WireFormat()
}

// BuildRequest resolves url against the merged options. It composes the
// base URL, defaults the method to GET and encodes structured bodies.
func BuildRequest(rawURL string, opts Options) (*Request, error) {
	method := opts.Method
	if method == "" {
		method = MethodGet
	}
	if !method.Valid() {
		return nil, configErrorf(string(KeyMethod), "method must be GET, POST, PUT, DELETE, or HEAD")
	}

	target := ComposeURL(opts.BaseURL, rawURL)
	if !isAbsoluteURL(target) {
		return nil, configErrorf("", "invalid URL: %s", target)
	}

	headers := opts.Headers.Clone()
	body, headers, err := encodeBody(method, opts.Body, headers)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:    method,
		URL:       target,
		Headers:   headers,
		Body:      body,
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
	}, nil
}

// ComposeURL joins baseURL and path with exactly one slash. One trailing
// slash is stripped from baseURL and one leading slash from path. Without a
// base URL, path is returned unchanged.
func ComposeURL(baseURL, path string) string {
	if baseURL == "" {
		return path
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// encodeBody encodes structured bodies of POST and PUT requests. A JSON
// Content-Type selects JSON; anything else is form encoded, and a missing
// Content-Type is filled in. A Content-Type supplied by the caller is never
// replaced.
func encodeBody(method Method, body *Body, headers Headers) ([]byte, Headers, error) {
	if body == nil {
		return nil, headers, nil
	}
	if body.IsRaw() {
		return body.Raw(), headers, nil
	}
	if !method.carriesBody() {
		return nil, nil, configErrorf(string(KeyBody), "a structured body cannot be sent with %s", method)
	}
	if err := body.validate(); err != nil {
		return nil, nil, err
	}

	contentType, ok := headers.Lookup("Content-Type")
	if ok && contentType == ContentTypeJSON {
		encoded, err := body.encodeJSON()
		return encoded, headers, err
	}

	encoded, err := body.encodeForm()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		headers = headers.Set("Content-Type", ContentTypeForm)
	}
	return encoded, headers, nil
}
