package http

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// StatusFallback is reported when the transport delivered no parsable
// status line.
const StatusFallback = http.StatusHTTPVersionNotSupported

var statusLine = regexp.MustCompile(`^HTTP/\S*\s(\d{3})`)

// ParseResponse turns raw header lines and a body into a Response. Status
// lines set the status code, "Name: Value" lines become headers (a later
// duplicate replaces an earlier one), anything else is skipped.
func ParseResponse(raw *RawResponse) *Response {
	if raw == nil {
		raw = &RawResponse{}
	}

	statusCode := 0
	headers := make(map[string]string, len(raw.Header))
	for _, line := range raw.Header {
		if m := statusLine.FindStringSubmatch(line); m != nil {
			statusCode, _ = strconv.Atoi(m[1])
			continue
		}

		colonIdx := strings.IndexByte(line, ':')
		if colonIdx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:colonIdx])
		value := strings.TrimSpace(line[colonIdx+1:])
		headers[key] = value
	}

	if statusCode == 0 {
		statusCode = StatusFallback
	}

	return NewResponse(raw.Body, statusCode, headers)
}
