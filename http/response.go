package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Response is the result of a completed exchange. It is immutable: the
// accessors return copies where the underlying value could be modified.
type Response struct {
	body       []byte
	statusCode int
	headers    map[string]string
}

// NewResponse creates a Response. The header map is copied.
func NewResponse(body []byte, statusCode int, headers map[string]string) *Response {
	copied := make(map[string]string, len(headers))
	for key, value := range headers {
		copied[key] = value
	}
	return &Response{body: body, statusCode: statusCode, headers: copied}
}

// Body returns the raw response body
func (r *Response) Body() []byte {
	return append([]byte(nil), r.body...)
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.body)
}

// StatusCode returns the HTTP status code
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Headers returns a copy of the response headers, keyed by the names as
// received. The status code is not part of the map.
func (r *Response) Headers() map[string]string {
	copied := make(map[string]string, len(r.headers))
	for key, value := range r.headers {
		copied[key] = value
	}
	return copied
}

// Header returns the value of the named header, matched case-insensitively
func (r *Response) Header(name string) string {
	if value, ok := r.headers[name]; ok {
		return value
	}
	for key, value := range r.headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// JSON decodes the body into a generic value: objects become
// map[string]interface{}, arrays []interface{} and numbers float64.
func (r *Response) JSON() (interface{}, error) {
	var v interface{}
	if err := r.DecodeJSON(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeJSON unmarshals the body into v
func (r *Response) DecodeJSON(v interface{}) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Lookup extracts a value from a JSON body using a JSONPath expression such
// as $.users[0].name. Strings are returned unquoted, other values in their
// JSON form.
func (r *Response) Lookup(path string) (string, error) {
	if !gjson.ValidBytes(r.body) {
		return "", &DecodeError{Err: fmt.Errorf("body is not valid JSON")}
	}
	result := gjson.GetBytes(r.body, jsonPathToGJSON(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.String {
		return result.Str, nil
	}
	return result.Raw, nil
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range
func (r *Response) IsRedirect() bool {
	return r.statusCode >= 300 && r.statusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.statusCode >= 400 && r.statusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range
func (r *Response) IsServerError() bool {
	return r.statusCode >= 500 && r.statusCode < 600
}

// jsonPathToGJSON converts $.a.b[0]['c'] into a.b.0.c
func jsonPathToGJSON(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var buf strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end == -1 {
				buf.WriteString(path[i:])
				return buf.String()
			}
			segment := strings.Trim(path[i+1:i+end], `'"`)
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(segment)
			i += end
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}
