package http

import (
	"context"
	"sort"
	"strings"

	"github.com/marmos91/minihttpd/internal/protocol/httpproto"
)

// HandlerFunc produces the complete response for one request.
type HandlerFunc func(ctx context.Context, req *httpproto.Request) *httpproto.Response

// Route names used as metric labels for requests that match no handler.
const (
	RouteNotFound         = "not_found"
	RouteMethodNotAllowed = "method_not_allowed"
)

// supportedMethods are the only methods the server speaks at all. A request
// with any other method gets 405 even on an unknown path.
var supportedMethods = []string{"GET", "POST"}

// Router dispatches on the exact (method, path) pair. Paths are compared
// byte for byte: no trailing-slash folding and no percent-decoding.
type Router struct {
	routes   map[string]map[string]HandlerFunc
	notFound HandlerFunc
}

// NewRouter returns the fixed route table backed by h.
func NewRouter(h *Handler) *Router {
	r := &Router{
		routes:   make(map[string]map[string]HandlerFunc),
		notFound: h.NotFound,
	}

	r.Handle("GET", "/", h.ServeRoot)
	r.Handle("GET", "/sleep", h.ServeSleep)
	r.Handle("GET", "/api/hello", h.ServeHello)
	r.Handle("GET", "/users", h.ListUsers)
	r.Handle("GET", "/error", h.ServeError)
	r.Handle("POST", "/users", h.CreateUser)
	r.Handle("POST", "/math", h.EvaluateMath)

	return r
}

// Handle registers fn for method and path, replacing any previous handler.
func (r *Router) Handle(method, path string, fn HandlerFunc) {
	methods, ok := r.routes[path]
	if !ok {
		methods = make(map[string]HandlerFunc)
		r.routes[path] = methods
	}
	methods[method] = fn
}

// Dispatch returns the response for req and the route name it matched.
func (r *Router) Dispatch(ctx context.Context, req *httpproto.Request) (*httpproto.Response, string) {
	methods, known := r.routes[req.Path]
	if known {
		if fn, ok := methods[req.Method]; ok {
			return fn(ctx, req), req.Method + " " + req.Path
		}
		return methodNotAllowed(allowed(methods)), RouteMethodNotAllowed
	}

	if !isSupported(req.Method) {
		return methodNotAllowed(supportedMethods), RouteMethodNotAllowed
	}
	return r.notFound(ctx, req), RouteNotFound
}

func allowed(methods map[string]HandlerFunc) []string {
	out := make([]string, 0, len(methods))
	for m := range methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func isSupported(method string) bool {
	for _, m := range supportedMethods {
		if m == method {
			return true
		}
	}
	return false
}

func methodNotAllowed(allow []string) *httpproto.Response {
	return httpproto.Empty(httpproto.StatusMethodNotAllowed).
		WithHeader("Allow", strings.Join(allow, ", "))
}
