package output

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(name string) (OutputFormat, error) {
	switch format := OutputFormat(name); format {
	case FormatText, FormatJSON, FormatYAML:
		return format, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected text, json or yaml)", name)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *clienthttp.Request) string
	FormatResponse(resp *clienthttp.Response, elapsed time.Duration) string
	FormatExtractions(values map[string]string) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode    int               `json:"statusCode" yaml:"statusCode"`
	Status        string            `json:"status" yaml:"status"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body          interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	ResponseTime  int64             `json:"responseTimeMs" yaml:"responseTimeMs"`
	ContentLength int64             `json:"contentLength,omitempty" yaml:"contentLength,omitempty"`
	Timestamp     string            `json:"timestamp" yaml:"timestamp"`
}

// ExtractionData holds values extracted from a response body
type ExtractionData struct {
	Extracted map[string]string `json:"extracted" yaml:"extracted"`
}

// NewRequestData converts a request into its structured form
func NewRequestData(req *clienthttp.Request) RequestData {
	return RequestData{
		Method:    string(req.Method),
		URL:       req.URL,
		Headers:   req.Headers.Map(),
		UserAgent: req.UserAgent,
		Body:      decodeBody(req.Body),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewResponseData converts a response into its structured form
func NewResponseData(resp *clienthttp.Response, elapsed time.Duration) ResponseData {
	data := ResponseData{
		StatusCode:   resp.StatusCode(),
		Status:       http.StatusText(resp.StatusCode()),
		Headers:      resp.Headers(),
		Body:         decodeBody(resp.Body()),
		ResponseTime: elapsed.Milliseconds(),
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	if length, err := strconv.ParseInt(resp.Header("Content-Length"), 10, 64); err == nil {
		data.ContentLength = length
	}
	return data
}

// decodeBody returns the body as JSON data when it parses, otherwise as text
func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(kind string, v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("{\"error\":\"Failed to marshal %s: %s\"}\n", kind, err)
	}
	return string(output) + "\n"
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *clienthttp.Request) string {
	return f.marshal("request", NewRequestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *clienthttp.Response, elapsed time.Duration) string {
	return f.marshal("response", NewResponseData(resp, elapsed))
}

// FormatExtractions formats extracted values as JSON
func (f *JSONFormatter) FormatExtractions(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal("extractions", ExtractionData{Extracted: values})
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(kind string, v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s", kind, err)
	}
	return string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *clienthttp.Request) string {
	return f.marshal("request", NewRequestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *clienthttp.Response, elapsed time.Duration) string {
	return f.marshal("response", NewResponseData(resp, elapsed))
}

// FormatExtractions formats extracted values as YAML
func (f *YAMLFormatter) FormatExtractions(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal("extractions", ExtractionData{Extracted: values})
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
