package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the fixed byte width of every packet header.
const HeaderSize = 12

// MinPacketSize is the smallest legal packet: a bare header, no payload.
const MinPacketSize = HeaderSize

// Header is the 12-byte fixed packet header (spec §3/§4.4), field order
// fixed to the wire layout: size, keyword, checksum, type, client_id, tick.
type Header struct {
	Size     uint16
	Keyword  uint8
	Checksum uint8
	Type     uint16
	ClientID uint16
	Tick     uint32
}

var ErrHeaderTooShort = errors.New("wire: buffer shorter than header size")

// ParseHeader reads the fixed header out of the first 12 bytes of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrHeaderTooShort, len(buf))
	}
	return Header{
		Size:     binary.LittleEndian.Uint16(buf[0:2]),
		Keyword:  buf[2],
		Checksum: buf[3],
		Type:     binary.LittleEndian.Uint16(buf[4:6]),
		ClientID: binary.LittleEndian.Uint16(buf[6:8]),
		Tick:     binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

// PutHeader writes h into the first 12 bytes of buf, which must be at
// least HeaderSize long.
func PutHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint16(buf[0:2], h.Size)
	buf[2] = h.Keyword
	buf[3] = h.Checksum
	binary.LittleEndian.PutUint16(buf[4:6], h.Type)
	binary.LittleEndian.PutUint16(buf[6:8], h.ClientID)
	binary.LittleEndian.PutUint32(buf[8:12], h.Tick)
}
