// Package server runs the TCP accept loop: one goroutine per connection,
// each draining its own socket against its own session state (spec §5).
package server

import (
	"context"
	"fmt"
	"math/rand"
	"net"

	"go.uber.org/zap"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/handlers"
	"github.com/kevinkouketsu/odin-emulator/internal/metrics"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// Server owns the listening socket, the shared keytable, and the client-id
// allocator — the only state shared across connection goroutines.
type Server struct {
	config     config.Configuration
	keytable   *wire.Keytable
	allocator  *session.IDAllocator
	dispatcher *handlers.Dispatcher
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// New builds a Server ready to Serve.
func New(cfg config.Configuration, keytable *wire.Keytable, dispatcher *handlers.Dispatcher, log *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		config:     cfg,
		keytable:   keytable,
		allocator:  session.NewIDAllocator(cfg.MaxSessions()),
		dispatcher: dispatcher,
		log:        log,
		metrics:    m,
	}
}

// Serve accepts connections on addr until ctx is cancelled or Accept fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("listening", zap.String("addr", addr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	id, err := s.allocator.Allocate()
	if err != nil {
		s.log.Warn("client id pool exhausted, dropping connection", zap.Error(err))
		return
	}
	defer func() {
		if err := s.allocator.Release(id); err != nil {
			s.log.Error("release client id", zap.Error(err))
		}
	}()

	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
		s.metrics.ClientIDsInUse.Set(float64(s.allocator.InUse()))
		defer func() {
			s.metrics.ActiveSessions.Dec()
			s.metrics.ClientIDsInUse.Set(float64(s.allocator.InUse()))
		}()
	}

	codec := wire.NewCodec(s.keytable, id, rand.New(rand.NewSource(int64(id))))
	sess := session.New(conn, id, codec, s.config.MaxPacketSize(), s.log)

	log := s.log.With(zap.Uint16("client_id", id), zap.String("remote", conn.RemoteAddr().String()))
	log.Info("session accepted")

	err = sess.ReadLoop(ctx, func(opcode uint16, clientID uint16, payload []byte) error {
		return s.dispatcher.Dispatch(ctx, sess, opcode, payload)
	})
	if err != nil {
		log.Info("session closed", zap.Error(err))
	}
}
