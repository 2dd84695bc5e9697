package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected clienthttp.Headers
		wantErr  bool
	}{
		{
			name:     "trimmed name and value",
			values:   []string{"Accept:  application/json ", "X-Id:1"},
			expected: clienthttp.Headers{{Name: "Accept", Value: "application/json"}, {Name: "X-Id", Value: "1"}},
		},
		{
			name:     "value with colon",
			values:   []string{"Referer: http://example.com:8080"},
			expected: clienthttp.Headers{{Name: "Referer", Value: "http://example.com:8080"}},
		},
		{
			name:     "later value replaces earlier",
			values:   []string{"X-A: 1", "X-B: 2", "X-A: 3"},
			expected: clienthttp.Headers{{Name: "X-A", Value: "3"}, {Name: "X-B", Value: "2"}},
		},
		{
			name:    "missing colon",
			values:  []string{"Accept"},
			wantErr: true,
		},
		{
			name:    "empty name",
			values:  []string{": value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := parseHeaders(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, headers)
		})
	}
}

func TestParseKeyValues(t *testing.T) {
	values, err := parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, values)

	values, err = parseKeyValues([]string{"a=1", "b=x=y", "c=", "a=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2", "b": "x=y", "c": ""}, values)

	_, err = parseKeyValues([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseKeyValues([]string{"=value"})
	assert.Error(t, err)
}

func TestParseExtractions(t *testing.T) {
	paths, err := parseExtractions([]string{"id=$.id", "city=$.address.city"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "$.id", "city": "$.address.city"}, paths)

	_, err = parseExtractions([]string{"id= "})
	assert.Error(t, err)
}

func TestExtractValues(t *testing.T) {
	resp := clienthttp.NewResponse([]byte(`{"id":7,"user":{"name":"foo"}}`), 200, nil)

	values, err := extractValues(resp, map[string]string{"id": "$.id", "name": "$.user.name"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "7", "name": "foo"}, values)

	_, err = extractValues(resp, map[string]string{"missing": "$.nope"})
	assert.Error(t, err)
}
