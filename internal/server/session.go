package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/dispatch"
	"github.com/usestring/carsearch-mcp/internal/protocol"
	"github.com/usestring/carsearch-mcp/internal/session"
)

// ProtocolVersion is advertised in the welcome frame.
const ProtocolVersion = "MCP-V1"

// ConnSession drives one live connection: it receives raw messages, runs
// them through the codec and dispatcher, updates session state, and writes
// replies. Messages are processed strictly sequentially; a slow request
// delays the next one on the same connection but never other connections.
type ConnSession struct {
	conn     Conn
	state    *session.State
	registry *dispatch.Registry
	catalog  catalog.Catalog

	closed atomic.Bool
}

// NewConnSession creates the session for an accepted connection. When the
// identity is empty (no collaborator-supplied user or anonymous id), a fresh
// anonymous id is minted.
func NewConnSession(conn Conn, identity session.Identity, registry *dispatch.Registry, cat catalog.Catalog, cfg *config.Config) *ConnSession {
	if identity.UserID == "" && identity.AnonymousID == "" {
		identity.AnonymousID = uuid.NewString()
	}
	return &ConnSession{
		conn:     conn,
		state:    session.NewState(identity, cfg.HistoryCapacity, cfg.LatencyWindow),
		registry: registry,
		catalog:  cat,
	}
}

// Run sends the welcome frame and processes inbound messages until the
// transport fails or the session is closed. Per-request failures never
// terminate the loop; only transport-level errors do.
func (s *ConnSession) Run(ctx context.Context) error {
	defer s.Close()

	user := s.state.Identity().Label()
	if err := s.sendWelcome(); err != nil {
		slog.Debug("welcome frame not delivered", "user", user, "error", err)
		return nil
	}
	slog.Debug("session open", "user", user)

	for {
		raw, err := s.conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("connection read failed", "user", user, "error", err)
			}
			slog.Debug("session closed", "user", user, "requests", s.state.SnapshotMetrics().TotalRequests)
			return nil
		}
		s.handleMessage(ctx, raw)
	}
}

// State exposes the session state for inspection; callers outside the
// processing loop must only use it after Run has returned.
func (s *ConnSession) State() *session.State {
	return s.state
}

// Close marks the session closed and tears down the connection. After Close
// no further frame is written, including replies for in-flight requests.
func (s *ConnSession) Close() {
	if !s.closed.Swap(true) {
		s.conn.Close()
	}
}

func (s *ConnSession) sendWelcome() error {
	raw, err := protocol.EncodeWelcome(protocol.Welcome{
		Message:          "connected to the MCP car search protocol",
		Protocol:         ProtocolVersion,
		AvailableActions: s.registry.Actions(),
		Schemas:          protocol.ActionSchemas(),
		User:             s.state.Identity().Label(),
	})
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(raw)
}

func (s *ConnSession) handleMessage(ctx context.Context, raw []byte) {
	env, derr := protocol.Decode(raw)
	if derr != nil {
		s.writeError(derr.RequestID, derr.Code, derr.Message)
		return
	}

	action := env.Action()
	start := time.Now()
	result := s.registry.Dispatch(ctx, action, env.Data, s.state, s.catalog)
	s.state.RecordOutcome(action, result.OK(), time.Since(start))

	if result.OK() {
		s.writeResponse(env.RequestID, result.Data)
	} else {
		s.writeError(env.RequestID, result.Code, result.Message)
	}
}

func (s *ConnSession) writeResponse(requestID string, data any) {
	raw, err := protocol.EncodeResponse(requestID, data)
	if err != nil {
		slog.Error("encoding response failed", "error", err)
		s.writeError(requestID, protocol.CodeInternalError, "failed to encode response")
		return
	}
	s.write(raw)
}

func (s *ConnSession) writeError(requestID, code, message string) {
	raw, err := protocol.EncodeError(requestID, code, message)
	if err != nil {
		slog.Error("encoding error frame failed", "error", err)
		return
	}
	s.write(raw)
}

// write delivers a frame unless the session has closed; a result computed
// for a closed connection is dropped, never written. A failed write means the
// transport is gone, so the session is torn down and the read loop unblocks.
func (s *ConnSession) write(raw []byte) {
	if s.closed.Load() {
		return
	}
	if err := s.conn.WriteMessage(raw); err != nil {
		slog.Debug("connection write failed", "error", err)
		s.Close()
	}
}
