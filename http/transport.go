package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// RawResponse is what a Transport hands back: the status line and header
// lines as received, and the complete body.
type RawResponse struct {
	Header []string
	Body   []byte
}

// Transport exchanges a single request with a server. Implementations must
// not follow redirects, must return the body whatever the status code, and
// must report network failures as a *TransportError.
type Transport interface {
	Send(ctx context.Context, req *Request) (*RawResponse, error)
}

// Doer executes a net/http request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = &http.Client{}

// HTTPTransport is the default Transport, built on net/http.
type HTTPTransport struct {
	doer Doer
}

// NewHTTPTransport returns a transport that sends requests through doer.
// A nil doer selects a client that neither follows redirects nor keeps
// connections alive.
func NewHTTPTransport(doer Doer) *HTTPTransport {
	if doer == nil {
		doer = &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &HTTPTransport{doer: doer}
}

// Send executes req, bounded by req.Timeout when it is positive.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*RawResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	httpReq.Header = req.Headers.HTTPHeader()
	if _, ok := req.Headers.Lookup("User-Agent"); !ok && req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}

	httpResp, err := t.doer.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	defer httpResp.Body.Close()

	header := rawHeaderLines(httpResp)
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		detail := ""
		if len(header) > 0 {
			detail = header[0]
		}
		return nil, &TransportError{URL: req.URL, Detail: detail, Err: err}
	}

	return &RawResponse{Header: header, Body: data}, nil
}

// rawHeaderLines renders the status line and headers of resp the way they
// appear on the wire.
func rawHeaderLines(resp *http.Response) []string {
	proto := resp.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	status := resp.Status
	if status == "" {
		status = strings.TrimSpace(strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode))
	}

	lines := []string{proto + " " + status}

	var buf bytes.Buffer
	if err := resp.Header.Write(&buf); err == nil {
		for _, line := range strings.Split(buf.String(), "\r\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
