package wire

import "encoding/binary"

// writer is a tiny append-only byte cursor used to build wire payloads
// field by field, the same shape as the teacher's packet-builder helpers.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) i8(v int8)    { w.buf = append(w.buf, byte(v)) }
func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) fixedString(s string, width int) error {
	enc, err := EncodeFixedString(s, width)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, enc...)
	return nil
}

// reader is a tiny cursor over a decoded payload, mirrored against writer.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) take(n int) ([]byte, bool) {
	if r.pos+n > len(r.buf) {
		return nil, false
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

func (r *reader) u8() (uint8, bool) {
	b, ok := r.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}
func (r *reader) i8() (int8, bool) {
	b, ok := r.take(1)
	if !ok {
		return 0, false
	}
	return int8(b[0]), true
}
func (r *reader) u16() (uint16, bool) {
	b, ok := r.take(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}
func (r *reader) u32() (uint32, bool) {
	b, ok := r.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}
func (r *reader) i64() (int64, bool) {
	b, ok := r.take(8)
	if !ok {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(b)), true
}
func (r *reader) u64() (uint64, bool) {
	b, ok := r.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (r *reader) fixedString(width int) (string, bool) {
	b, ok := r.take(width)
	if !ok {
		return "", false
	}
	s, err := DecodeFixedString(b)
	if err != nil {
		return "", false
	}
	return s, true
}
