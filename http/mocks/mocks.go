package mocks

import (
	"context"
	"net/http"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

var (
	_ clienthttp.Doer      = &MockDoer{}
	_ clienthttp.Transport = &MockTransport{}
)

// MockDoer is a mock HTTP doer.
type MockDoer struct {
	DoFn func(req *http.Request) (*http.Response, error)
}

// Do calls the underlying DoFn.
func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	return m.DoFn(req)
}

// MockTransport is a mock transport that records the requests it was sent.
type MockTransport struct {
	SendFn   func(ctx context.Context, req *clienthttp.Request) (*clienthttp.RawResponse, error)
	Requests []*clienthttp.Request
}

// Send records req and calls the underlying SendFn.
func (m *MockTransport) Send(ctx context.Context, req *clienthttp.Request) (*clienthttp.RawResponse, error) {
	m.Requests = append(m.Requests, req)
	return m.SendFn(ctx, req)
}
