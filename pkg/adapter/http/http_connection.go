package http

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/marmos91/minihttpd/internal/logger"
	"github.com/marmos91/minihttpd/internal/protocol/httpproto"
)

// HTTPConnection is the pool job for one accepted connection: one read, one
// response, then close. No keep-alive.
type HTTPConnection struct {
	server *HTTPAdapter
	conn   net.Conn
	id     string

	closeOnce sync.Once
}

func NewHTTPConnection(server *HTTPAdapter, conn net.Conn, id string) *HTTPConnection {
	return &HTTPConnection{
		server: server,
		conn:   conn,
		id:     id,
	}
}

// Run serves the connection. A panic in a handler is contained here so the
// connection is still closed and the worker goes on to the next job.
func (c *HTTPConnection) Run() {
	start := time.Now()
	route := "unknown"
	status := 0

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in connection handler %s from %s: %v",
				c.id, c.conn.RemoteAddr(), r)
			c.server.metrics.RecordJobPanic()
		}
		if status != 0 {
			c.server.metrics.RecordRequest(route, status, time.Since(start))
		}
		c.close(false)
		c.server.metrics.SetPoolState(c.server.queueDepth())
	}()

	clientAddr := c.conn.RemoteAddr().String()
	cfg := c.server.config

	if cfg.ReadTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout)); err != nil {
			logger.Warn("Failed to set read deadline for %s: %v", clientAddr, err)
		}
	}

	buf := make([]byte, cfg.ReadBufferSize)
	n, err := c.conn.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
		if errors.Is(err, io.EOF) {
			logger.Debug("Connection %s from %s closed by client before sending a request", c.id, clientAddr)
		} else if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			logger.Debug("Connection %s from %s timed out: %v", c.id, clientAddr, err)
		} else {
			logger.Debug("Error reading request from %s: %v", clientAddr, err)
		}
		return
	}

	req, err := httpproto.ParseRequest(buf[:n])
	if err != nil {
		logger.Debug("Connection %s from %s: %v", c.id, clientAddr, err)
		return
	}
	logger.Debug("Connection %s: %s %s", c.id, req.Method, req.Path)

	resp, route := c.server.router.Dispatch(c.server.requestCtx, req)
	status = resp.Status

	if cfg.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
			logger.Warn("Failed to set write deadline for %s: %v", clientAddr, err)
		}
	}

	written, err := resp.WriteTo(c.conn)
	c.server.metrics.RecordBytesWritten(int(written))
	if err != nil {
		logger.Debug("Error writing response to %s: %v", clientAddr, err)
		return
	}

	logger.Debug("Connection %s: %d %s (%d bytes, %v)",
		c.id, resp.Status, httpproto.StatusText(resp.Status), written, time.Since(start))
}

// Abandon closes a connection the pool dropped before serving it. The
// client sees the connection close without a response.
func (c *HTTPConnection) Abandon() {
	logger.Debug("Connection %s from %s abandoned at shutdown", c.id, c.conn.RemoteAddr())
	c.close(true)
}

func (c *HTTPConnection) close(forced bool) {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		if forced {
			c.server.metrics.RecordConnectionForceClosed()
		} else {
			c.server.metrics.RecordConnectionClosed()
		}
		c.server.release(c.id)
	})
}
