package server

import (
	"context"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/dispatch"
	"github.com/usestring/carsearch-mcp/internal/session"
)

// IdentityFunc resolves the session identity for an accepted connection.
// Returning a zero Identity makes the session mint a fresh anonymous id.
type IdentityFunc func(net.Conn) session.Identity

// Option configures a Server.
type Option func(*Server)

// WithIdentityFunc installs a collaborator-supplied identity resolver.
func WithIdentityFunc(fn IdentityFunc) Option {
	return func(s *Server) {
		s.identify = fn
	}
}

// Server accepts connections and runs one independent ConnSession per
// connection. Sessions share only the read-mostly catalog; all mutable state
// is per-session.
type Server struct {
	cfg      *config.Config
	registry *dispatch.Registry
	catalog  catalog.Catalog
	identify IdentityFunc
}

// New creates a server over the given catalog.
func New(cfg *config.Config, cat catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		registry: dispatch.NewRegistry(cfg),
		catalog:  cat,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe listens on the configured address and serves until the
// context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	slog.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from the listener until the context is
// cancelled, then closes every live session and waits for their loops to
// finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	// Unblock Accept when the context ends.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			ln.Close()
			g.Wait()
			return err
		}

		var identity session.Identity
		if s.identify != nil {
			identity = s.identify(c)
		}

		sess := NewConnSession(NewNDJSONConn(c), identity, s.registry, s.catalog, s.cfg)
		g.Go(func() error {
			unblock := context.AfterFunc(ctx, sess.Close)
			defer unblock()
			return sess.Run(ctx)
		})
	}

	return g.Wait()
}
