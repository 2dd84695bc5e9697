package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"

	"github.com/google/go-querystring/query"
)

// Body is a request body. It holds either raw bytes, sent as-is, or
// structured data that is encoded as JSON or as a form depending on the
// Content-Type of the request.
type Body struct {
	raw  []byte
	data interface{}
}

// RawBody returns a body that is sent unencoded
func RawBody(b []byte) *Body {
	return &Body{raw: b}
}

// DataBody returns a structured body. v may be any map with string keys,
// url.Values or a struct (or pointer to one).
func DataBody(v interface{}) *Body {
	return &Body{data: v}
}

// NewBody picks RawBody for []byte and string values and DataBody otherwise
func NewBody(v interface{}) *Body {
	switch body := v.(type) {
	case nil:
		return nil
	case *Body:
		return body
	case []byte:
		return RawBody(body)
	case string:
		return RawBody([]byte(body))
	default:
		return DataBody(body)
	}
}

// IsRaw returns true if the body is sent without encoding
func (b *Body) IsRaw() bool {
	return b != nil && b.data == nil
}

// Data returns the structured value of the body, or nil for raw bodies
func (b *Body) Data() interface{} {
	if b == nil {
		return nil
	}
	return b.data
}

// Raw returns the bytes of a raw body
func (b *Body) Raw() []byte {
	if b == nil {
		return nil
	}
	return b.raw
}

func (b *Body) validate() error {
	if b == nil || b.data == nil {
		return nil
	}
	switch b.data.(type) {
	case map[string]interface{}, map[string]string, url.Values:
		return nil
	}
	v := reflect.ValueOf(b.data)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			return nil
		}
	}
	return configErrorf(string(KeyBody), "body must be bytes, a string, a key-value map or a struct, got %T", b.data)
}

func (b *Body) encodeJSON() ([]byte, error) {
	data, err := json.Marshal(b.data)
	if err != nil {
		return nil, &ConfigError{Key: string(KeyBody), Message: "cannot encode body as JSON", Err: err}
	}
	return data, nil
}

func (b *Body) encodeForm() ([]byte, error) {
	values, err := formValues(b.data)
	if err != nil {
		return nil, &ConfigError{Key: string(KeyBody), Message: "cannot encode body as form", Err: err}
	}
	return []byte(values.Encode()), nil
}

// formValues flattens v into url.Values. Nested maps and slices use bracket
// notation: {"a": {"b": 1}, "l": [x, y]} becomes a[b]=1&l[0]=x&l[1]=y.
func formValues(v interface{}) (url.Values, error) {
	switch data := v.(type) {
	case url.Values:
		return data, nil
	case map[string]string:
		values := make(url.Values, len(data))
		for key, value := range data {
			values.Set(key, value)
		}
		return values, nil
	case map[string]interface{}:
		values := make(url.Values, len(data))
		for key, value := range data {
			flattenFormValue(values, key, value)
		}
		return values, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Map {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map {
		values := make(url.Values, rv.Len())
		for _, key := range sortedMapKeys(rv) {
			flattenFormValue(values, key.String(), rv.MapIndex(key).Interface())
		}
		return values, nil
	}
	return query.Values(v)
}

func flattenFormValue(values url.Values, key string, value interface{}) {
	switch v := value.(type) {
	case nil:
		values.Add(key, "")
	case string:
		values.Add(key, v)
	case bool:
		if v {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenFormValue(values, key+"["+k+"]", v[k])
		}
	case map[string]string:
		for k, item := range v {
			values.Add(key+"["+k+"]", item)
		}
	case []interface{}:
		for i, item := range v {
			flattenFormValue(values, key+"["+strconv.Itoa(i)+"]", item)
		}
	case []string:
		for i, item := range v {
			values.Add(key+"["+strconv.Itoa(i)+"]", item)
		}
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if b, ok := v.([]byte); ok {
				values.Add(key, string(b))
				return
			}
			for i := 0; i < rv.Len(); i++ {
				flattenFormValue(values, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
			}
		case reflect.Map:
			for _, k := range sortedMapKeys(rv) {
				flattenFormValue(values, key+"["+fmt.Sprint(k.Interface())+"]", rv.MapIndex(k).Interface())
			}
		case reflect.Ptr, reflect.Interface:
			if rv.IsNil() {
				values.Add(key, "")
				return
			}
			flattenFormValue(values, key, rv.Elem().Interface())
		default:
			values.Add(key, fmt.Sprint(v))
		}
	}
}

// sortedMapKeys returns the keys of a map value in a stable order
func sortedMapKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}
