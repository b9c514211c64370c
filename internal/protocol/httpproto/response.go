package httpproto

import (
	"io"
	"strconv"
	"strings"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusInternalServerError = 500
)

const (
	ContentTypeHTML = "text/html;"
	ContentTypeJSON = "application/json"
)

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusCreated:             "CREATED",
	StatusBadRequest:          "BAD REQUEST",
	StatusNotFound:            "NOT FOUND",
	StatusMethodNotAllowed:    "METHOD NOT ALLOWED",
	StatusInternalServerError: "INTERNAL SERVER ERROR",
}

// StatusText returns the reason phrase for a supported status, or "".
func StatusText(code int) string {
	return statusText[code]
}

// Header is a single response header line.
type Header struct {
	Name  string
	Value string
}

// Response is a complete reply. Content-Length is always derived from Body
// when the response is serialized; callers never set it.
type Response struct {
	Status  int
	Headers []Header
	Body    []byte
}

// Empty returns a response with no body.
func Empty(status int) *Response {
	return &Response{Status: status}
}

// HTML returns a response carrying a static page.
func HTML(status int, body []byte) *Response {
	return &Response{
		Status:  status,
		Headers: []Header{{Name: "Content-Type", Value: ContentTypeHTML}},
		Body:    body,
	}
}

// JSON returns a response carrying an already encoded JSON document.
func JSON(status int, body string) *Response {
	return &Response{
		Status:  status,
		Headers: []Header{{Name: "Content-Type", Value: ContentTypeJSON}},
		Body:    []byte(body),
	}
}

// WithHeader appends a header and returns the response for chaining.
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// Bytes serializes the response:
//
//	HTTP/1.1 <code> <reason>\r\n
//	<Name>: <value>\r\n ...
//	Content-Length: <len(body)>\r\n
//	\r\n
//	<body>
func (r *Response) Bytes() []byte {
	var b strings.Builder
	b.Grow(64 + len(r.Body))

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	b.WriteByte(' ')
	b.WriteString(StatusText(r.Status))
	b.WriteString("\r\n")

	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, "Content-Length") {
			continue
		}
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}

	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\r\n\r\n")
	b.Write(r.Body)

	return []byte(b.String())
}

// WriteTo writes the serialized response to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
