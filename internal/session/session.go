package session

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// Sender is the outbound half of a session, the surface handlers use to
// push packets back to the client without reaching into socket details.
type Sender interface {
	Send(opcode uint16, payload []byte) error
	SendAs(opcode uint16, payload []byte, clientIDOverride uint16) error
}

// Session owns one connection's reassembly buffer, codec, and state
// machine, from acceptance to disconnect (spec §3 "Ownership/lifecycle").
// It is never shared across goroutines.
type Session struct {
	conn  net.Conn
	log   *zap.Logger
	codec *wire.Codec
	reasm *wire.Reassembler
	state State
	id    uint16
}

// New builds a session wrapping an accepted connection, its allocated
// client id, and a codec seeded with the shared keytable.
func New(conn net.Conn, id uint16, codec *wire.Codec, maxPacketSize int, log *zap.Logger) *Session {
	return &Session{
		conn:  conn,
		log:   log,
		codec: codec,
		reasm: wire.NewReassembler(maxPacketSize),
		id:    id,
	}
}

// ID returns the session's allocated client id.
func (s *Session) ID() uint16 { return s.id }

// State exposes the session's state machine to handlers.
func (s *Session) State() *State { return &s.state }

// Send encrypts and writes payload under opcode, using the session's own
// client id in the header.
func (s *Session) Send(opcode uint16, payload []byte) error {
	return s.write(s.codec.Encrypt(payload, opcode, nil))
}

// SendAs is like Send but overrides the header's client_id, used by
// MessagePanel which the source always sends with client_id=0.
func (s *Session) SendAs(opcode uint16, payload []byte, clientIDOverride uint16) error {
	return s.write(s.codec.Encrypt(payload, opcode, &clientIDOverride))
}

func (s *Session) write(packet []byte) error {
	_, err := s.conn.Write(packet)
	if err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// ReadLoop drains the socket, feeding the reassembler and yielding one
// decrypted (opcode, payload) pair at a time to handle. It returns when the
// connection closes, the context is cancelled, a framing/codec error
// occurs, or handle reports a protocol error (unknown opcode, handler
// invoked outside its allowed phase) — all of which are fatal to the
// session. Any other error from handle (a repository failure, a payload
// that does not decode, and the like) is logged and the loop continues;
// domain rejections such as invalid credentials are answered by the
// handler itself and return nil (spec §7 "Protocol errors: log and close").
func (s *Session) ReadLoop(ctx context.Context, handle func(opcode uint16, clientID uint16, payload []byte) error) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.conn.Read(buf)
		if err != nil {
			return fmt.Errorf("session: read: %w", err)
		}
		s.reasm.Feed(buf[:n])

		for {
			packet, ok, err := s.reasm.NextPacket()
			if err != nil {
				return fmt.Errorf("session: framing: %w", err)
			}
			if !ok {
				break
			}
			header, payload, err := s.codec.Decrypt(packet)
			if err != nil {
				return fmt.Errorf("session: decrypt: %w", err)
			}
			if err := handle(header.Type, header.ClientID, payload); err != nil {
				if errors.Is(err, ErrProtocol) {
					s.log.Warn("protocol error, closing session", zap.Uint16("opcode", header.Type), zap.Error(err))
					return err
				}
				s.log.Error("handler error", zap.Uint16("opcode", header.Type), zap.Error(err))
			}
		}
	}
}
