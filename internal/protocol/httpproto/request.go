// Package httpproto is the minimal HTTP/1.1 subset the server speaks over a
// raw connection: one request line, an opaque header block, an optional body,
// and a response framed with a status line, headers and an exact
// Content-Length.
//
// Percent-decoding, chunked bodies, keep-alive and pipelining are not
// supported.
package httpproto

import (
	"errors"
	"strings"
)

const (
	DefaultMethod = "GET"
	DefaultPath   = "/"
)

// ErrEmptyRequest is returned when the peer closed without sending anything.
var ErrEmptyRequest = errors.New("empty request")

// Request is the parsed view of one buffered read.
type Request struct {
	// Method is the first request-line token, uppercase or not, as sent.
	Method string

	// Path is the request target up to the first '?'. Not percent-decoded.
	Path string

	// Query is the raw text after the first '?', without the '?'.
	Query string

	// Body is everything after the first blank line (CRLF CRLF).
	Body string
}

// ParseRequest extracts method, path, query and body from raw bytes.
//
// Invalid UTF-8 is replaced rather than rejected. A missing method defaults to
// GET and a missing path to "/".
func ParseRequest(data []byte) (*Request, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRequest
	}

	text := strings.ToValidUTF8(string(data), "�")

	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSuffix(line, "\r")

	req := &Request{Method: DefaultMethod, Path: DefaultPath}

	fields := strings.Fields(line)
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) > 1 {
		req.Path = fields[1]
	}
	req.Path, req.Query, _ = strings.Cut(req.Path, "?")

	if _, body, ok := strings.Cut(text, "\r\n\r\n"); ok {
		req.Body = body
	}

	return req, nil
}

// Values holds query pairs in arrival order.
type Values []Pair

// Pair is one key=value query entry, undecoded.
type Pair struct {
	Key   string
	Value string
}

// ParseQuery splits a raw query on '&' and each entry on its first '='.
// Entries without '=' are skipped.
func ParseQuery(raw string) Values {
	if raw == "" {
		return nil
	}

	var values Values
	for _, entry := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values = append(values, Pair{Key: key, Value: value})
	}
	return values
}

// Get returns the value of the last entry with the given key.
func (v Values) Get(key string) (string, bool) {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i].Key == key {
			return v[i].Value, true
		}
	}
	return "", false
}
