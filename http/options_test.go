package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_ValidateScope(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		scope   Scope
		wantKey string
	}{
		{
			name:  "client keys in client scope",
			opts:  NewOptions(WithUserAgent("ua"), WithTimeout(time.Second), WithHeader("A", "1"), WithBaseURL("http://x")),
			scope: ClientScope,
		},
		{
			name:  "fetch keys in fetch scope",
			opts:  NewOptions(WithUserAgent("ua"), WithTimeout(time.Second), WithHeader("A", "1"), WithMethod(MethodPut), WithBody("raw")),
			scope: FetchScope,
		},
		{
			name:    "method on client",
			opts:    NewOptions(WithMethod(MethodGet)),
			scope:   ClientScope,
			wantKey: "method",
		},
		{
			name:    "body on client",
			opts:    NewOptions(WithBody("x")),
			scope:   ClientScope,
			wantKey: "body",
		},
		{
			name:    "base url on fetch",
			opts:    NewOptions(WithBaseURL("http://x")),
			scope:   FetchScope,
			wantKey: "base_url",
		},
		{
			name:    "transport on fetch",
			opts:    NewOptions(WithTransport(NewHTTPTransport(nil))),
			scope:   FetchScope,
			wantKey: "transport",
		},
		{
			name:    "unsupported method",
			opts:    NewOptions(WithMethod("WRONG")),
			scope:   FetchScope,
			wantKey: "method",
		},
		{
			name:    "lower case method",
			opts:    NewOptions(WithMethod("get")),
			scope:   FetchScope,
			wantKey: "method",
		},
		{
			name:    "negative timeout",
			opts:    NewOptions(WithTimeout(-time.Second)),
			scope:   ClientScope,
			wantKey: "timeout",
		},
		{
			name:    "relative base url",
			opts:    NewOptions(WithBaseURL("/api")),
			scope:   ClientScope,
			wantKey: "base_url",
		},
		{
			name:  "empty base url",
			opts:  NewOptions(WithBaseURL("")),
			scope: ClientScope,
		},
		{
			name:    "header name with colon",
			opts:    NewOptions(WithHeader("X:Bad", "v")),
			scope:   ClientScope,
			wantKey: "headers",
		},
		{
			name:    "header value with newline",
			opts:    NewOptions(WithHeader("X-Bad", "v\r\nInjected: 1")),
			scope:   ClientScope,
			wantKey: "headers",
		},
		{
			name:    "unsupported body type",
			opts:    NewOptions(WithBody(42)),
			scope:   FetchScope,
			wantKey: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate(tt.scope)
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Equal(t, KindConfig, KindOf(err))
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	t.Run("all client keys", func(t *testing.T) {
		opts, err := DecodeOptions(map[string]interface{}{
			"user_agent": "test-agent",
			"timeout":    5,
			"headers":    map[string]interface{}{"Authorization": "Bearer secret_token"},
			"base_url":   "http://localhost:4245",
		}, ClientScope)
		require.NoError(t, err)

		assert.Equal(t, "test-agent", opts.UserAgent)
		assert.Equal(t, 5*time.Second, opts.Timeout)
		assert.Equal(t, "http://localhost:4245", opts.BaseURL)
		value, ok := opts.Headers.Get("Authorization")
		assert.True(t, ok)
		assert.Equal(t, "Bearer secret_token", value)
		assert.True(t, opts.IsSet(KeyHeaders))
		assert.False(t, opts.IsSet(KeyMethod))
	})

	t.Run("integral float timeout from JSON", func(t *testing.T) {
		opts, err := DecodeOptions(map[string]interface{}{"timeout": float64(2)}, ClientScope)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, opts.Timeout)
	})

	t.Run("null base url", func(t *testing.T) {
		opts, err := DecodeOptions(map[string]interface{}{"base_url": nil}, ClientScope)
		require.NoError(t, err)
		assert.Equal(t, "", opts.BaseURL)
	})

	t.Run("fetch keys", func(t *testing.T) {
		opts, err := DecodeOptions(map[string]interface{}{
			"method": "POST",
			"body":   map[string]interface{}{"title": "foo"},
		}, FetchScope)
		require.NoError(t, err)
		assert.Equal(t, MethodPost, opts.Method)
		assert.False(t, opts.Body.IsRaw())
	})

	failures := []struct {
		name    string
		raw     map[string]interface{}
		scope   Scope
		wantKey string
	}{
		{"unknown key", map[string]interface{}{"options_not_supported": "value"}, ClientScope, "options_not_supported"},
		{"plumbing key from map", map[string]interface{}{"logger": "stdout"}, ClientScope, "logger"},
		{"headers as string", map[string]interface{}{"headers": "string"}, ClientScope, "headers"},
		{"header value not a string", map[string]interface{}{"headers": map[string]interface{}{"X": 1}}, ClientScope, "headers"},
		{"timeout as string", map[string]interface{}{"timeout": "string"}, ClientScope, "timeout"},
		{"fractional timeout", map[string]interface{}{"timeout": 1.5}, ClientScope, "timeout"},
		{"negative timeout", map[string]interface{}{"timeout": -1}, ClientScope, "timeout"},
		{"timeout overflowing a duration", map[string]interface{}{"timeout": 1 << 40}, ClientScope, "timeout"},
		{"float timeout beyond int64", map[string]interface{}{"timeout": 1e300}, ClientScope, "timeout"},
		{"negative float timeout beyond int64", map[string]interface{}{"timeout": -1e300}, ClientScope, "timeout"},
		{"user agent not a string", map[string]interface{}{"user_agent": 12}, ClientScope, "user_agent"},
		{"invalid base url", map[string]interface{}{"base_url": "not a url"}, ClientScope, "base_url"},
		{"method on client", map[string]interface{}{"method": "GET"}, ClientScope, "method"},
		{"wrong method", map[string]interface{}{"method": "WRONG"}, FetchScope, "method"},
		{"method not a string", map[string]interface{}{"method": 1}, FetchScope, "method"},
		{"body of wrong type", map[string]interface{}{"body": 3.14}, FetchScope, "body"},
		{"base url on fetch", map[string]interface{}{"base_url": "http://x"}, FetchScope, "base_url"},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOptions(tt.raw, tt.scope)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestMerge_Precedence(t *testing.T) {
	defaults := NewOptions(
		WithUserAgent("default-agent"),
		WithTimeout(30*time.Second),
		WithHeader("Accept", "*/*"),
		WithHeader("X-Layer", "default"),
	)
	client := NewOptions(
		WithTimeout(10*time.Second),
		WithHeader("X-Layer", "client"),
		WithHeader("Authorization", "Bearer a"),
	)
	call := NewOptions(
		WithHeader("X-Layer", "call"),
		WithHeader("X-Call", "1"),
	)

	merged := Merge(defaults, client, call)

	assert.Equal(t, "default-agent", merged.UserAgent)
	assert.Equal(t, 10*time.Second, merged.Timeout)
	assert.Equal(t, Headers{
		{Name: "Accept", Value: "*/*"},
		{Name: "X-Layer", Value: "call"},
		{Name: "Authorization", Value: "Bearer a"},
		{Name: "X-Call", Value: "1"},
	}, merged.Headers)

	// layers are not modified
	value, _ := client.Headers.Get("X-Layer")
	assert.Equal(t, "client", value)
}

func TestMerge_UnsetFieldsDoNotOverride(t *testing.T) {
	base := NewOptions(WithBaseURL("http://x"), WithUserAgent("ua"))
	override := NewOptions(WithTimeout(0))

	merged := Merge(base, override)

	assert.Equal(t, "http://x", merged.BaseURL)
	assert.Equal(t, "ua", merged.UserAgent)
	assert.Equal(t, time.Duration(0), merged.Timeout)
	assert.True(t, merged.IsSet(KeyTimeout))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultUserAgent, opts.UserAgent)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Empty(t, opts.Headers)
	assert.Empty(t, opts.BaseURL)
}

func TestWithOptions(t *testing.T) {
	decoded, err := DecodeOptions(map[string]interface{}{
		"headers": map[string]interface{}{"X-From-Map": "1"},
	}, ClientScope)
	require.NoError(t, err)

	opts := NewOptions(WithHeader("X-Before", "0"), WithOptions(decoded), WithUserAgent("after"))

	assert.Equal(t, Headers{{Name: "X-Before", Value: "0"}, {Name: "X-From-Map", Value: "1"}}, opts.Headers)
	assert.Equal(t, "after", opts.UserAgent)
}

func TestDecodeOptions_TimeoutBounds(t *testing.T) {
	_, err := DecodeOptions(map[string]interface{}{"timeout": 1 << 40}, ClientScope)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout is too large")

	_, err = DecodeOptions(map[string]interface{}{"timeout": -(1 << 40)}, ClientScope)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must not be negative")

	_, err = DecodeOptions(map[string]interface{}{"timeout": 1e300}, ClientScope)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be an integer")

	opts, err := DecodeOptions(map[string]interface{}{"timeout": 86400}, ClientScope)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, opts.Timeout)
}
