// Package server exposes the engine over the Redis protocol (RESP) so any
// Redis client can query the catalog.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/tidwall/redcon"

	"github.com/crimson-sun/industry-codes/internal/engine"
)

// Server is a RESP front end for one Engine.
type Server struct {
	eng   *engine.Engine
	addr  string
	conns atomic.Int64
}

// New creates a Server for eng listening on addr.
func New(eng *engine.Engine, addr string) *Server {
	return &Server{eng: eng, addr: addr}
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
// Cancellation closes the listener and all client connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := redcon.NewServer(s.addr, s.handle, s.accept, s.closed)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	slog.Info("resp server listening", "addr", s.addr, "industries", s.eng.Catalog().Len())

	select {
	case <-ctx.Done():
		if err := srv.Close(); err != nil {
			slog.Warn("resp server close", "error", err)
		}
		<-errc
		slog.Info("resp server stopped")
		return nil
	case err := <-errc:
		return err
	}
}

func (s *Server) accept(conn redcon.Conn) bool {
	n := s.conns.Add(1)
	slog.Debug("resp client connected", "remote", conn.RemoteAddr(), "clients", n)
	return true
}

func (s *Server) closed(conn redcon.Conn, err error) {
	n := s.conns.Add(-1)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Debug("resp client disconnected", "remote", conn.RemoteAddr(), "clients", n, "error", err)
	}
}

// handle dispatches one command. PING and QUIT are answered inline; every
// other command goes through the handler table.
func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) == 0 {
		conn.WriteError("ERR empty command")
		return
	}
	name := strings.ToLower(string(cmd.Args[0]))

	switch name {
	case "quit":
		conn.WriteString("OK")
		_ = conn.Close()
	case "ping":
		if len(cmd.Args) > 1 {
			conn.WriteBulk(cmd.Args[1])
			return
		}
		conn.WriteString("PONG")
	default:
		h, ok := supportedCommands[name]
		if !ok {
			conn.WriteError("ERR unsupported command '" + name + "'")
			return
		}
		res, err := h(s.eng, cmd.Args[1:])
		if err != nil {
			conn.WriteError(errorReply(err))
			return
		}
		conn.WriteAny(res)
	}
}

// errorReply prefixes err with the RESP "ERR" code unless it carries one.
func errorReply(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "ERR ") {
		return msg
	}
	return "ERR " + msg
}
