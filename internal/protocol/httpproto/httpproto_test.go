package httpproto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Request
	}{
		{
			name: "get with query",
			raw:  "GET /users?name=al&age=3 HTTP/1.1\r\nHost: x\r\n\r\n",
			want: Request{Method: "GET", Path: "/users", Query: "name=al&age=3"},
		},
		{
			name: "post with body",
			raw:  "POST /math HTTP/1.1\r\nContent-Length: 13\r\n\r\n{\"arg1\":1}",
			want: Request{Method: "POST", Path: "/math", Body: `{"arg1":1}`},
		},
		{
			name: "bare LF request line",
			raw:  "DELETE /x\nHost: y\n\n",
			want: Request{Method: "DELETE", Path: "/x"},
		},
		{
			name: "method only",
			raw:  "POST\r\n\r\n",
			want: Request{Method: "POST", Path: "/"},
		},
		{
			name: "blank first line",
			raw:  "\r\n\r\nbody",
			want: Request{Method: "GET", Path: "/", Body: "body"},
		},
		{
			name: "only first question mark splits",
			raw:  "GET /a?b?c HTTP/1.1\r\n\r\n",
			want: Request{Method: "GET", Path: "/a", Query: "b?c"},
		},
		{
			name: "percent encoding kept",
			raw:  "GET /users?name=a%20b HTTP/1.1\r\n\r\n",
			want: Request{Method: "GET", Path: "/users", Query: "name=a%20b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *req)
		})
	}
}

func TestParseRequest_Empty(t *testing.T) {
	_, err := ParseRequest(nil)
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestParseRequest_InvalidUTF8(t *testing.T) {
	req, err := ParseRequest([]byte("GET /\xff HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "/�", req.Path)
}

func TestParseQuery(t *testing.T) {
	v := ParseQuery("name=bob&flag&age=3&name=al&x=a=b")
	name, ok := v.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "al", name)

	_, ok = v.Get("flag")
	assert.False(t, ok)

	x, _ := v.Get("x")
	assert.Equal(t, "a=b", x)

	assert.Nil(t, ParseQuery(""))
}

func TestResponseBytes(t *testing.T) {
	body := `{"message": "Hello, world!"}`
	got := string(JSON(StatusOK, body).Bytes())

	want := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: application/json\r\n" +
		"Content-Length: 28\r\n" +
		"\r\n" + body
	assert.Equal(t, want, got)
	assert.Equal(t, 28, len(body))
}

func TestResponseBytes_Empty(t *testing.T) {
	assert.Equal(t, "HTTP/1.1 201 CREATED\r\nContent-Length: 0\r\n\r\n", string(Empty(StatusCreated).Bytes()))
	assert.Equal(t, "HTTP/1.1 400 BAD REQUEST\r\nContent-Length: 0\r\n\r\n", string(Empty(StatusBadRequest).Bytes()))
}

func TestResponseBytes_ContentLengthIsDerived(t *testing.T) {
	page := []byte("<h1>héllo</h1>")
	resp := HTML(StatusNotFound, page).WithHeader("Content-Length", "1")
	out := string(resp.Bytes())

	assert.Equal(t, 1, strings.Count(out, "Content-Length:"))
	assert.Contains(t, out, "Content-Length: 15\r\n")
	assert.True(t, strings.HasPrefix(out, "HTTP/1.1 404 NOT FOUND\r\nContent-Type: text/html;\r\n"))
}

func TestResponseWriteTo(t *testing.T) {
	var buf bytes.Buffer
	resp := Empty(StatusMethodNotAllowed).WithHeader("Allow", "GET, POST")
	n, err := resp.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "HTTP/1.1 405 METHOD NOT ALLOWED\r\nAllow: GET, POST\r\nContent-Length: 0\r\n\r\n", buf.String())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "INTERNAL SERVER ERROR", StatusText(StatusInternalServerError))
	assert.Equal(t, "", StatusText(418))
}
