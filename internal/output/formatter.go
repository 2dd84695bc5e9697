package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  Scheme(noColor),
	}
}

func (f *Formatter) colors() *ColorScheme {
	if f.scheme == nil {
		f.scheme = Scheme(f.NoColor)
	}
	return f.scheme
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *clienthttp.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors().Method.Sprint(req.Method),
		f.colors().URL.Sprint(req.URL)))

	if f.Verbose || len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, header := range req.Headers {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors().HeaderKey.Sprint(header.Name), header.Value))
		}
		if f.Verbose {
			if _, ok := req.Headers.Lookup("User-Agent"); !ok && req.UserAgent != "" {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors().HeaderKey.Sprint("User-Agent"), req.UserAgent))
			}
		}
	}

	if len(req.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *clienthttp.Response, elapsed time.Duration) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.colors().StatusColor(resp.StatusCode()).Sprint(statusText(resp.StatusCode())),
		elapsed.Milliseconds()))

	if f.Verbose {
		headers := resp.Headers()
		buf.WriteString("  Headers:\n")
		for _, name := range sortedKeys(headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors().HeaderKey.Sprint(name), headers[name]))
		}
	}

	if body := resp.String(); body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatExtractions formats values extracted from a response body
func (f *Formatter) FormatExtractions(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("  Extracted:\n")
	for _, name := range sortedKeys(values) {
		buf.WriteString(fmt.Sprintf("    %s = %s\n", f.colors().Highlight.Sprint(name), values[name]))
	}
	return buf.String()
}

// statusText renders a code with its reason phrase, like "200 OK"
func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
