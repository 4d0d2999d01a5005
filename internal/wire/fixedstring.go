package wire

import (
	"bytes"
	"errors"
	"fmt"
)

// Errors returned by fixed-size string encode/decode, named to match the
// taxonomy the rest of the wire layer logs against.
var (
	ErrFixedStringTooLong   = errors.New("fixedstring: value too long for field width")
	ErrFixedStringNulInside = errors.New("fixedstring: embedded NUL before terminator")
	ErrFixedStringNonASCII  = errors.New("fixedstring: non-ASCII byte in field")
)

// EncodeFixedString writes s into exactly width bytes: the string's bytes,
// one NUL terminator, and zero padding to width. It is the wire codec for
// FixedSizeString<N> (spec §4.1).
func EncodeFixedString(s string, width int) ([]byte, error) {
	if len(s)+1 > width {
		return nil, fmt.Errorf("%w: %d+1 > %d", ErrFixedStringTooLong, len(s), width)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, fmt.Errorf("%w: byte %d", ErrFixedStringNulInside, i)
		}
		if s[i] > 0x7F {
			return nil, fmt.Errorf("%w: byte %d", ErrFixedStringNonASCII, i)
		}
	}
	out := make([]byte, width)
	copy(out, s)
	return out, nil
}

// DecodeFixedString reads a NUL-terminated ASCII string out of a width-byte
// field. The field must be exactly width bytes long.
func DecodeFixedString(field []byte) (string, error) {
	nul := bytes.IndexByte(field, 0)
	if nul < 0 {
		return "", fmt.Errorf("%w: no terminator in %d bytes", ErrFixedStringTooLong, len(field))
	}
	for i, b := range field[:nul] {
		if b > 0x7F {
			return "", fmt.Errorf("%w: byte %d", ErrFixedStringNonASCII, i)
		}
	}
	return string(field[:nul]), nil
}
