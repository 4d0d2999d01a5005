package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HandshakeMagic is the 4-byte little-endian handshake every stream must
// open with before any packet is accepted.
const HandshakeMagic uint32 = 0x1F11F311

// DefaultMaxPacketSize bounds a single reassembled packet; larger declared
// sizes terminate the session (spec §4.3).
const DefaultMaxPacketSize = 8 * 1024

// ErrOversizedPacket is returned when a declared packet size exceeds the
// reassembler's configured maximum.
var ErrOversizedPacket = errors.New("wire: packet exceeds maximum size")

// ErrUndersizedPacket is returned when a declared packet size is smaller
// than a bare header.
var ErrUndersizedPacket = errors.New("wire: packet smaller than header size")

type reassemblerState int

const (
	stateHandshaking reassemblerState = iota
	stateReady
)

// Reassembler accumulates bytes off a TCP stream and yields complete,
// length-prefixed packets once the stream has completed its handshake
// (spec §4.3). It is owned exclusively by one session; it is not safe for
// concurrent use.
type Reassembler struct {
	state     reassemblerState
	buf       []byte
	handshake []byte
	maxPacket int
}

// NewReassembler builds a reassembler gated on the 4-byte handshake, with
// the given maximum packet size (DefaultMaxPacketSize if zero).
func NewReassembler(maxPacketSize int) *Reassembler {
	if maxPacketSize <= 0 {
		maxPacketSize = DefaultMaxPacketSize
	}
	return &Reassembler{state: stateHandshaking, maxPacket: maxPacketSize}
}

// Feed appends freshly-received bytes to the reassembler's internal buffer.
func (r *Reassembler) Feed(data []byte) {
	switch r.state {
	case stateHandshaking:
		r.handshake = append(r.handshake, data...)
		r.tryHandshake()
	case stateReady:
		r.buf = append(r.buf, data...)
	}
}

func (r *Reassembler) tryHandshake() {
	for len(r.handshake) >= 4 {
		if binary.LittleEndian.Uint32(r.handshake[:4]) == HandshakeMagic {
			r.state = stateReady
			r.buf = append(r.buf, r.handshake[4:]...)
			r.handshake = nil
			return
		}
		r.handshake = r.handshake[1:]
	}
}

// NextPacket returns the next complete size-prefixed packet, if one is
// fully buffered. ok is false when more bytes are needed (or the stream
// hasn't completed its handshake yet).
func (r *Reassembler) NextPacket() (packet []byte, ok bool, err error) {
	if r.state != stateReady {
		return nil, false, nil
	}
	if len(r.buf) < 2 {
		return nil, false, nil
	}
	size := int(binary.LittleEndian.Uint16(r.buf[:2]))
	if size < MinPacketSize {
		return nil, false, fmt.Errorf("%w: %d", ErrUndersizedPacket, size)
	}
	if size > r.maxPacket {
		return nil, false, fmt.Errorf("%w: %d > %d", ErrOversizedPacket, size, r.maxPacket)
	}
	if len(r.buf) < size {
		return nil, false, nil
	}
	packet = make([]byte, size)
	copy(packet, r.buf[:size])
	r.buf = r.buf[size:]
	return packet, true, nil
}
