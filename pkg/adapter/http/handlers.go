package http

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/minihttpd/internal/logger"
	"github.com/marmos91/minihttpd/internal/protocol/flatjson"
	"github.com/marmos91/minihttpd/internal/protocol/httpproto"
	"github.com/marmos91/minihttpd/pkg/arith"
	"github.com/marmos91/minihttpd/pkg/content"
	"github.com/marmos91/minihttpd/pkg/store/users"
)

// helloBody is served verbatim by GET /api/hello. Note the space after the
// colon; clients compare it byte for byte.
const helloBody = `{"message": "Hello, world!"}`

// Handler holds what the route handlers share. Every worker calls into the
// same Handler concurrently; the record store does its own locking.
type Handler struct {
	users  users.Repository
	pages  content.ContentStore
	bridge *arith.Bridge

	sleepDelay time.Duration
	names      PagesConfig
}

// NewHandler returns a handler without stores; the adapter injects them
// through SetStores.
func NewHandler(config HTTPConfig, bridge *arith.Bridge) *Handler {
	return &Handler{
		bridge:     bridge,
		sleepDelay: config.SleepDelay,
		names:      config.Pages,
	}
}

// ServeRoot serves the index page.
func (h *Handler) ServeRoot(ctx context.Context, _ *httpproto.Request) *httpproto.Response {
	return h.page(ctx, httpproto.StatusOK, h.names.Index)
}

// ServeSleep blocks the worker for the configured delay, then serves the
// index page. The delay is not interrupted by shutdown.
func (h *Handler) ServeSleep(ctx context.Context, req *httpproto.Request) *httpproto.Response {
	time.Sleep(h.sleepDelay)
	return h.ServeRoot(ctx, req)
}

// ServeHello returns the fixed greeting.
func (h *Handler) ServeHello(context.Context, *httpproto.Request) *httpproto.Response {
	return httpproto.JSON(httpproto.StatusOK, helloBody)
}

// ServeError asks for a page that is expected not to exist, so the client
// gets the server error page.
func (h *Handler) ServeError(ctx context.Context, _ *httpproto.Request) *httpproto.Response {
	return h.page(ctx, httpproto.StatusOK, h.names.Missing)
}

// NotFound serves the 404 page.
func (h *Handler) NotFound(ctx context.Context, _ *httpproto.Request) *httpproto.Response {
	return h.page(ctx, httpproto.StatusNotFound, h.names.NotFound)
}

// ListUsers returns the records matching the optional name and age query
// filters, as a JSON array in insertion order.
func (h *Handler) ListUsers(_ context.Context, req *httpproto.Request) *httpproto.Response {
	filter := parseFilter(httpproto.ParseQuery(req.Query))

	matched, err := h.users.List(filter)
	if err != nil {
		logger.Error("List users: %v", err)
		return httpproto.Empty(httpproto.StatusInternalServerError)
	}

	// Encoding happens on the copy List returned, outside the store lock.
	out := make([]flatjson.UserMessage, len(matched))
	for i, u := range matched {
		out[i] = flatjson.UserMessage{Name: u.Name, Age: u.Age}
	}
	return httpproto.JSON(httpproto.StatusOK, flatjson.EncodeUsers(out))
}

// parseFilter reads name and age. An age that is not a number in 0..255 is
// ignored rather than rejected.
func parseFilter(q httpproto.Values) users.Filter {
	var f users.Filter

	if name, ok := q.Get("name"); ok {
		f.NameContains = &name
	}
	if raw, ok := q.Get("age"); ok {
		if age, err := flatjson.ParseAge(raw); err == nil {
			f.Age = &age
		}
	}
	return f
}

// CreateUser appends the record in the body.
func (h *Handler) CreateUser(_ context.Context, req *httpproto.Request) *httpproto.Response {
	msg, err := flatjson.DecodeUser(req.Body)
	if err != nil {
		logger.Debug("Create user: %v", err)
		return httpproto.Empty(httpproto.StatusBadRequest)
	}

	if err := h.users.Append(users.User{Name: msg.Name, Age: msg.Age}); err != nil {
		if errors.Is(err, users.ErrInvalidRecord) {
			return httpproto.Empty(httpproto.StatusBadRequest)
		}
		logger.Error("Create user: %v", err)
		return httpproto.Empty(httpproto.StatusInternalServerError)
	}
	return httpproto.Empty(httpproto.StatusCreated)
}

// EvaluateMath decodes an expression and evaluates it through the bridge.
func (h *Handler) EvaluateMath(_ context.Context, req *httpproto.Request) *httpproto.Response {
	msg, err := flatjson.DecodeMath(req.Body)
	if err != nil {
		logger.Debug("Math: %v", err)
		return httpproto.Empty(httpproto.StatusBadRequest)
	}

	result, err := h.bridge.Evaluate(msg.Operator, msg.Arg1, msg.Arg2)
	if err != nil {
		if arith.IsInputError(err) {
			logger.Debug("Math: %v", err)
			return httpproto.Empty(httpproto.StatusBadRequest)
		}
		logger.Error("Math: %v", err)
		return httpproto.Empty(httpproto.StatusInternalServerError)
	}

	return httpproto.JSON(httpproto.StatusOK, flatjson.EncodeMathResult(result.Value, result.Expression))
}

// page serves name with status, or the server error page if name cannot be
// read.
func (h *Handler) page(ctx context.Context, status int, name string) *httpproto.Response {
	body, err := h.pages.ReadContent(ctx, name)
	if err != nil {
		logger.Warn("Failed to read page %q: %v", name, err)
		return h.serverError(ctx)
	}
	return httpproto.HTML(status, body)
}

// serverError serves the 500 page. If that page is unreadable too, the
// response is an empty 500.
func (h *Handler) serverError(ctx context.Context) *httpproto.Response {
	body, err := h.pages.ReadContent(ctx, h.names.ServerError)
	if err != nil {
		logger.Error("Failed to read server error page %q: %v", h.names.ServerError, err)
		return httpproto.Empty(httpproto.StatusInternalServerError)
	}
	return httpproto.HTML(httpproto.StatusInternalServerError, body)
}
