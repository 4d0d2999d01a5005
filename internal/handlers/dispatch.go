package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/metrics"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// Handler is the uniform shape every opcode handler implements.
type Handler interface {
	Handle(ctx context.Context, s *session.Session, payload []byte) error
}

// ErrUnknownOpcode is a protocol error: an opcode the registry has never
// heard of. It wraps session.ErrProtocol so ReadLoop closes the session
// on it (spec §7 "Protocol errors: log and close").
var ErrUnknownOpcode = fmt.Errorf("handlers: unknown opcode: %w", session.ErrProtocol)

// Dispatcher maps wire opcodes to handlers and is the glue between C5, C6
// and C7 (spec §2 data flow).
type Dispatcher struct {
	routes  map[uint16]Handler
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewDispatcher wires every known opcode to its handler against the given
// repository and configuration.
func NewDispatcher(repo repository.AccountRepository, cfg config.Configuration, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{
		routes:  make(map[uint16]Handler),
		log:     log,
		metrics: m,
	}
	d.routes[wire.OpLogin] = Authentication{Repo: repo, Config: cfg, Now: time.Now}
	d.routes[wire.OpToken] = NumericToken{Repo: repo}
	d.routes[wire.OpCreateCharacter] = CreateCharacter{Repo: repo}
	d.routes[wire.OpDeleteCharacter] = DeleteCharacter{Repo: repo}
	d.routes[wire.OpEnterWorld] = EnterWorld{Repo: repo}
	return d
}

// Dispatch routes a decoded (opcode, payload) pair to its handler. Unknown
// opcodes and wrong-phase invocations are protocol errors (wrap
// session.ErrProtocol) and are fatal to the caller's ReadLoop; every other
// handler error (repository or decode failure) is reported but not fatal.
// Domain rejections are answered by the handler and return nil
// (spec §7 "Protocol errors"/"Domain errors").
func (d *Dispatcher) Dispatch(ctx context.Context, s *session.Session, opcode uint16, payload []byte) error {
	h, known := d.routes[opcode]
	if !known {
		d.log.Warn("unknown opcode", zap.Uint16("opcode", opcode), zap.Uint16("client_id", s.ID()))
		if d.metrics != nil {
			d.metrics.HandlerErrors.WithLabelValues("unknown").Inc()
		}
		return fmt.Errorf("%w: 0x%x", ErrUnknownOpcode, opcode)
	}

	if err := h.Handle(ctx, s, payload); err != nil {
		if d.metrics != nil {
			d.metrics.HandlerErrors.WithLabelValues(fmt.Sprintf("0x%x", opcode)).Inc()
		}
		return err
	}
	return nil
}
