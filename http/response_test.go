package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_JSON(t *testing.T) {
	resp := NewResponse([]byte(`{"title":"foo","userId":1,"tags":["a"]}`), 200, nil)

	data, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"title":  "foo",
		"userId": float64(1),
		"tags":   []interface{}{"a"},
	}, data)

	// decoding is repeatable
	again, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestResponse_DecodeJSON(t *testing.T) {
	resp := NewResponse([]byte(`{"name":"foo","page":1,"limit":10}`), 200, nil)

	var result struct {
		Name  string `json:"name"`
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
	}
	require.NoError(t, resp.DecodeJSON(&result))
	assert.Equal(t, "foo", result.Name)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
}

func TestResponse_InvalidJSON(t *testing.T) {
	for _, body := range []string{"", "not json", `{"unterminated":`} {
		t.Run(body, func(t *testing.T) {
			resp := NewResponse([]byte(body), 200, nil)

			data, err := resp.JSON()
			require.Error(t, err)
			assert.Nil(t, data)
			assert.True(t, IsDecodeError(err))
			assert.Contains(t, err.Error(), "invalid JSON format in response body")
		})
	}
}

func TestResponse_Immutable(t *testing.T) {
	headers := map[string]string{"Content-Type": "application/json"}
	resp := NewResponse([]byte("abc"), 200, headers)

	headers["Content-Type"] = "changed"
	resp.Headers()["Content-Type"] = "changed"
	resp.Body()[0] = 'x'

	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Equal(t, "abc", resp.String())
}

func TestResponse_Header(t *testing.T) {
	resp := NewResponse(nil, 200, map[string]string{"Content-Type": "text/plain"})

	assert.Equal(t, "text/plain", resp.Header("Content-Type"))
	assert.Equal(t, "text/plain", resp.Header("content-type"))
	assert.Equal(t, "", resp.Header("X-Missing"))
}

func TestResponse_StatusClasses(t *testing.T) {
	tests := []struct {
		status                                  int
		success, redirect, clientErr, serverErr bool
	}{
		{200, true, false, false, false},
		{301, false, true, false, false},
		{404, false, false, true, false},
		{505, false, false, false, true},
	}

	for _, tt := range tests {
		resp := NewResponse(nil, tt.status, nil)
		assert.Equal(t, tt.success, resp.IsSuccess(), "status %d", tt.status)
		assert.Equal(t, tt.redirect, resp.IsRedirect(), "status %d", tt.status)
		assert.Equal(t, tt.clientErr, resp.IsClientError(), "status %d", tt.status)
		assert.Equal(t, tt.serverErr, resp.IsServerError(), "status %d", tt.status)
	}
}

func TestResponse_Lookup(t *testing.T) {
	resp := NewResponse([]byte(`{
		"name": "John Doe",
		"age": 30,
		"address": {"city": "Anytown"},
		"phones": [{"type": "home", "number": "555-1234"}],
		"scores": [10, 20],
		"active": true
	}`), 200, nil)

	tests := []struct {
		path     string
		expected string
	}{
		{"$.name", "John Doe"},
		{"$.age", "30"},
		{"$.address.city", "Anytown"},
		{"$.phones[0].number", "555-1234"},
		{"$['address']['city']", "Anytown"},
		{"$.scores[1]", "20"},
		{"$.active", "true"},
		{"name", "John Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			value, err := resp.Lookup(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}

	_, err := resp.Lookup("$.missing")
	assert.Error(t, err)
	assert.False(t, IsDecodeError(err))

	_, err = NewResponse([]byte("nope"), 200, nil).Lookup("$.name")
	assert.True(t, IsDecodeError(err))
}
