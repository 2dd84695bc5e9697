package http

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a single request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered set of request headers. Names are case-sensitive:
// "X-Token" and "x-token" are distinct entries.
type Headers []Header

// HeadersFromMap converts a map into Headers, sorted by name so the result
// does not depend on map iteration order.
func HeadersFromMap(m map[string]string) Headers {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make(Headers, 0, len(names))
	for _, name := range names {
		headers = append(headers, Header{Name: name, Value: m[name]})
	}
	return headers
}

// Get returns the value stored under exactly name
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}
	return "", false
}

// Lookup returns the value of the first header whose name matches name
// case-insensitively.
func (h Headers) Lookup(name string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

// Set replaces the value of name in place, or appends it.
func (h Headers) Set(name, value string) Headers {
	for i := range h {
		if h[i].Name == name {
			h[i].Value = value
			return h
		}
	}
	return append(h, Header{Name: name, Value: value})
}

// Merge returns a new Headers holding h overlaid with other. Names keep the
// position of their first appearance.
func (h Headers) Merge(other Headers) Headers {
	merged := h.Clone()
	for _, header := range other {
		merged = merged.Set(header.Name, header.Value)
	}
	return merged
}

// Clone returns a copy of h
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	return append(make(Headers, 0, len(h)), h...)
}

// Map returns the headers as a map
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, header := range h {
		m[header.Name] = header.Value
	}
	return m
}

// WireFormat renders the headers one "Name: Value" pair per line, each
// terminated by CRLF, in order.
func (h Headers) WireFormat() string {
	var buf strings.Builder
	for _, header := range h {
		buf.WriteString(header.Name)
		buf.WriteString(": ")
		buf.WriteString(header.Value)
		buf.WriteString("\r\n")
	}
	return buf.String()
}

// HTTPHeader converts h for use with net/http. Names are sent as given.
func (h Headers) HTTPHeader() http.Header {
	header := make(http.Header, len(h))
	for _, entry := range h {
		header[entry.Name] = append(header[entry.Name], entry.Value)
	}
	return header
}
