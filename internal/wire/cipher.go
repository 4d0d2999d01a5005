package wire

import (
	"errors"
	"fmt"
	"math/rand"
)

// KeytableSize is the width of the shared cipher keytable.
const KeytableSize = 512

// Keytable is the compiled-in, read-only table both peers share. It is
// value-like and safe to copy freely; a *Keytable is only ever read.
type Keytable [KeytableSize]byte

// ErrInvalidChecksum is returned by Decrypt when the rolling checksum in
// the header does not match the recomputed sum.
var ErrInvalidChecksum = errors.New("wire: invalid packet checksum")

// ErrSizeMismatch is returned by Decrypt when the header's declared size
// does not match the buffer actually received.
var ErrSizeMismatch = errors.New("wire: header size does not match buffer length")

// Codec is the per-session symmetric packet codec (spec §4.2, C4). It is
// small and value-like: clone it per session rather than sharing it behind
// a lock. The keytable is shared read-only across every session.
type Codec struct {
	keytable  *Keytable
	sessionID uint16
	rng       *rand.Rand
}

// NewCodec builds a codec bound to a session id, sharing the given keytable.
func NewCodec(keytable *Keytable, sessionID uint16, rng *rand.Rand) *Codec {
	return &Codec{keytable: keytable, sessionID: sessionID, rng: rng}
}

// Encrypt builds a full wire packet for payload under opcode, encrypting
// bytes 4.. in place per the position-parity transform. clientIDOverride,
// when non-nil, replaces the codec's session id in the header (used for
// client_id=0 panel messages).
func (c *Codec) Encrypt(payload []byte, opcode uint16, clientIDOverride *uint16) []byte {
	return c.encryptWithKeyword(payload, opcode, clientIDOverride, uint8(c.rng.Intn(255)))
}

// encryptWithKeyword is Encrypt with an explicit keyword, used by tests
// that need deterministic packets without depending on rng state.
func (c *Codec) encryptWithKeyword(payload []byte, opcode uint16, clientIDOverride *uint16, kw uint8) []byte {
	clientID := c.sessionID
	if clientIDOverride != nil {
		clientID = *clientIDOverride
	}

	size := HeaderSize + len(payload)
	buf := make([]byte, size)
	PutHeader(buf, Header{
		Size:     uint16(size),
		Keyword:  kw,
		Checksum: 0,
		Type:     opcode,
		ClientID: clientID,
		Tick:     0,
	})
	copy(buf[HeaderSize:], payload)

	pos := c.keytable[2*int(kw)]
	var cksumPlain, cksumCipher uint8
	for i := 4; i < len(buf); i++ {
		k := c.keytable[2*int(pos)+1]
		cksumPlain += buf[i]
		switch i & 3 {
		case 0:
			buf[i] += k << 1
		case 1:
			buf[i] -= k >> 3
		case 2:
			buf[i] += k << 2
		case 3:
			buf[i] -= k >> 5
		}
		cksumCipher += buf[i]
		pos++
	}
	buf[3] = cksumCipher - cksumPlain
	return buf
}

// Decrypt validates and inverts a full wire packet in place, returning the
// parsed header and the payload slice (a view into buf).
func (c *Codec) Decrypt(buf []byte) (Header, []byte, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}
	if int(h.Size) != len(buf) {
		return Header{}, nil, fmt.Errorf("%w: header says %d, got %d", ErrSizeMismatch, h.Size, len(buf))
	}

	pos := c.keytable[2*int(h.Keyword)]
	var cksumCipher, cksumPlain uint8
	for i := 4; i < len(buf); i++ {
		cksumCipher += buf[i]
		k := c.keytable[2*int(pos)+1]
		switch i & 3 {
		case 0:
			buf[i] -= k << 1
		case 1:
			buf[i] += k >> 3
		case 2:
			buf[i] -= k << 2
		case 3:
			buf[i] += k >> 5
		}
		cksumPlain += buf[i]
		pos++
	}

	if cksumCipher-cksumPlain != h.Checksum {
		return Header{}, nil, ErrInvalidChecksum
	}
	return h, buf[HeaderSize:], nil
}
