package http

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.90 Safari/537.36"

// DefaultTimeout bounds a request when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Method is an HTTP request method accepted by the client
type Method string

// Supported methods
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
	MethodHead   Method = "HEAD"
)

// Valid returns true for the five supported methods. Matching is exact.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead:
		return true
	}
	return false
}

func (m Method) carriesBody() bool {
	return m == MethodPost || m == MethodPut
}

// Key names an option, as it appears in option maps and error messages
type Key string

// Option keys
const (
	KeyUserAgent Key = "user_agent"
	KeyTimeout   Key = "timeout"
	KeyHeaders   Key = "headers"
	KeyBaseURL   Key = "base_url"
	KeyMethod    Key = "method"
	KeyBody      Key = "body"

	KeyTransport Key = "transport"
	KeyLogger    Key = "logger"
	KeyObserver  Key = "observer"
)

var allKeys = []Key{
	KeyUserAgent, KeyTimeout, KeyHeaders, KeyBaseURL, KeyMethod, KeyBody,
	KeyTransport, KeyLogger, KeyObserver,
}

// mapKeys are the keys that may appear in a decoded option map
var mapKeys = map[Key]bool{
	KeyUserAgent: true, KeyTimeout: true, KeyHeaders: true,
	KeyBaseURL: true, KeyMethod: true, KeyBody: true,
}

type keySet uint16

func (s keySet) has(k Key) bool { return s&keyBit(k) != 0 }

func keyBit(k Key) keySet {
	for i, key := range allKeys {
		if key == k {
			return 1 << uint(i)
		}
	}
	return 0
}

// Scope is the set of keys accepted in one context
type Scope struct {
	name    string
	allowed []Key
}

var (
	// ClientScope applies when constructing a Client
	ClientScope = Scope{
		name:    "client",
		allowed: []Key{KeyUserAgent, KeyTimeout, KeyHeaders, KeyBaseURL, KeyTransport, KeyLogger, KeyObserver},
	}

	// FetchScope applies to the options of a single Fetch call
	FetchScope = Scope{
		name:    "fetch",
		allowed: []Key{KeyUserAgent, KeyTimeout, KeyHeaders, KeyBody, KeyMethod},
	}
)

// Allows returns true if k is accepted in the scope
func (s Scope) Allows(k Key) bool {
	for _, allowed := range s.allowed {
		if allowed == k {
			return true
		}
	}
	return false
}

// String returns the scope name
func (s Scope) String() string { return s.name }

// Options is the configuration of a client or of a single call. Only the
// fields set through an Option (or DecodeOptions) take part in validation
// and merging.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   Headers
	BaseURL   string
	Method    Method
	Body      *Body

	Transport Transport
	Logger    logr.Logger
	Observer  Observer

	set keySet
}

// Option is a function that configures Options
type Option func(*Options)

// IsSet returns true if k was explicitly configured
func (o Options) IsSet(k Key) bool { return o.set.has(k) }

func (o *Options) mark(k Key) { o.set |= keyBit(k) }

// WithUserAgent sets the User-Agent sent with requests
func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		o.UserAgent = userAgent
		o.mark(KeyUserAgent)
	}
}

// WithTimeout sets the transport timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
		o.mark(KeyTimeout)
	}
}

// WithHeader adds a header, replacing an earlier value for the same name
func WithHeader(name, value string) Option {
	return func(o *Options) {
		o.Headers = o.Headers.Set(name, value)
		o.mark(KeyHeaders)
	}
}

// WithHeaders merges headers into the configured ones
func WithHeaders(headers Headers) Option {
	return func(o *Options) {
		o.Headers = o.Headers.Merge(headers)
		o.mark(KeyHeaders)
	}
}

// WithBaseURL sets the prefix for request URLs
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
		o.mark(KeyBaseURL)
	}
}

// WithMethod sets the request method of a Fetch call
func WithMethod(method Method) Option {
	return func(o *Options) {
		o.Method = method
		o.mark(KeyMethod)
	}
}

// WithBody sets the request body of a Fetch call, see NewBody
func WithBody(body interface{}) Option {
	return func(o *Options) {
		o.Body = NewBody(body)
		o.mark(KeyBody)
	}
}

// WithTransport replaces the transport used by a Client
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
		o.mark(KeyTransport)
	}
}

// WithLogger sets the logger of a Client
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
		o.mark(KeyLogger)
	}
}

// WithObserver registers a function called after every completed exchange
func WithObserver(observer Observer) Option {
	return func(o *Options) {
		o.Observer = observer
		o.mark(KeyObserver)
	}
}

// WithOptions applies every set field of src, typically the result of
// DecodeOptions.
func WithOptions(src Options) Option {
	return func(o *Options) {
		*o = Merge(*o, src)
	}
}

// NewOptions applies opts to empty Options
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DefaultOptions returns the built-in defaults every client starts from
func DefaultOptions() Options {
	return NewOptions(
		WithUserAgent(DefaultUserAgent),
		WithTimeout(DefaultTimeout),
	)
}

// Validate checks every set key against the scope and its own constraints.
// The first violation is returned.
func (o Options) Validate(scope Scope) error {
	for _, k := range allKeys {
		if !o.set.has(k) {
			continue
		}
		if !scope.Allows(k) {
			return configErrorf(string(k), "invalid option for %s", scope)
		}
		if err := o.validateKey(k); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) validateKey(k Key) error {
	switch k {
	case KeyTimeout:
		if o.Timeout < 0 {
			return configErrorf(string(k), "timeout must not be negative")
		}
	case KeyHeaders:
		for _, header := range o.Headers {
			if header.Name == "" || strings.ContainsAny(header.Name, ":\r\n") {
				return configErrorf(string(k), "invalid header name %q", header.Name)
			}
			if strings.ContainsAny(header.Value, "\r\n") {
				return configErrorf(string(k), "header %q has an invalid value", header.Name)
			}
		}
	case KeyMethod:
		if !o.Method.Valid() {
			return configErrorf(string(k), "method must be GET, POST, PUT, DELETE, or HEAD")
		}
	case KeyBaseURL:
		if o.BaseURL != "" && !isAbsoluteURL(o.BaseURL) {
			return configErrorf(string(k), "base URL must be a valid URL")
		}
	case KeyBody:
		return o.Body.validate()
	}
	return nil
}

// Merge layers options from lowest to highest precedence. Scalars are taken
// from the last layer that sets them; headers are merged by name.
func Merge(layers ...Options) Options {
	var merged Options
	for _, layer := range layers {
		for _, k := range allKeys {
			if !layer.set.has(k) {
				continue
			}
			switch k {
			case KeyUserAgent:
				merged.UserAgent = layer.UserAgent
			case KeyTimeout:
				merged.Timeout = layer.Timeout
			case KeyHeaders:
				merged.Headers = merged.Headers.Merge(layer.Headers)
			case KeyBaseURL:
				merged.BaseURL = layer.BaseURL
			case KeyMethod:
				merged.Method = layer.Method
			case KeyBody:
				merged.Body = layer.Body
			case KeyTransport:
				merged.Transport = layer.Transport
			case KeyLogger:
				merged.Logger = layer.Logger
			case KeyObserver:
				merged.Observer = layer.Observer
			}
			merged.mark(k)
		}
	}
	return merged
}

// DecodeOptions strictly decodes a loosely typed option map, as read from
// JSON or YAML. Unknown keys, keys outside scope and wrongly typed values
// are rejected with a *ConfigError.
func DecodeOptions(raw map[string]interface{}, scope Scope) (Options, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var o Options
	for _, key := range keys {
		k := Key(key)
		if !mapKeys[k] || !scope.Allows(k) {
			return Options{}, configErrorf(key, "invalid option for %s", scope)
		}
		if err := o.decodeKey(k, raw[key]); err != nil {
			return Options{}, err
		}
	}
	if err := o.Validate(scope); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o *Options) decodeKey(k Key, value interface{}) error {
	switch k {
	case KeyUserAgent:
		s, ok := value.(string)
		if !ok {
			return configErrorf(string(k), "user agent must be a string")
		}
		WithUserAgent(s)(o)
	case KeyTimeout:
		seconds, ok := integerValue(value)
		if !ok {
			return configErrorf(string(k), "timeout must be an integer")
		}
		if seconds < 0 {
			return configErrorf(string(k), "timeout must not be negative")
		}
		if seconds > math.MaxInt64/int64(time.Second) {
			return configErrorf(string(k), "timeout is too large")
		}
		WithTimeout(time.Duration(seconds) * time.Second)(o)
	case KeyHeaders:
		headers, err := decodeHeaders(value)
		if err != nil {
			return err
		}
		WithHeaders(headers)(o)
	case KeyBaseURL:
		if value == nil {
			WithBaseURL("")(o)
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return configErrorf(string(k), "base URL must be a string")
		}
		WithBaseURL(s)(o)
	case KeyMethod:
		s, ok := value.(string)
		if !ok {
			return configErrorf(string(k), "method must be GET, POST, PUT, DELETE, or HEAD")
		}
		WithMethod(Method(s))(o)
	case KeyBody:
		switch value.(type) {
		case string, []byte, map[string]interface{}, map[string]string:
			WithBody(value)(o)
		default:
			return configErrorf(string(k), "body must be a string or a key-value map, got %T", value)
		}
	}
	return nil
}

func decodeHeaders(value interface{}) (Headers, error) {
	switch m := value.(type) {
	case map[string]string:
		return HeadersFromMap(m), nil
	case map[string]interface{}:
		converted := make(map[string]string, len(m))
		for name, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, configErrorf(string(KeyHeaders), "headers must be a map of string to string, %q is %T", name, v)
			}
			converted[name] = s
		}
		return HeadersFromMap(converted), nil
	case Headers:
		return m, nil
	}
	return nil, configErrorf(string(KeyHeaders), "headers must be a map of string to string")
}

func integerValue(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

// isAbsoluteURL reports whether s parses as a URL with a scheme and a host
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != "" && !strings.ContainsAny(s, " \t\r\n")
}

func (o Options) String() string {
	return fmt.Sprintf("Options{user_agent=%q timeout=%s base_url=%q method=%q headers=%d}",
		o.UserAgent, o.Timeout, o.BaseURL, o.Method, len(o.Headers))
}
