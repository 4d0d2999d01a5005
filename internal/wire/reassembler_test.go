package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReassemblerRequiresHandshake(t *testing.T) {
	r := NewReassembler(0)

	r.Feed([]byte{0x11, 0x22, 0x33, 0x44})
	packet := wellFormedPacket(t)
	r.Feed(packet)

	_, ok, err := r.NextPacket()
	require.NoError(t, err)
	require.False(t, ok)

	r.Feed([]byte{0x11, 0xF3, 0x11, 0x1F})
	r.Feed(packet)

	got, ok, err := r.NextPacket()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, packet, got)
}

func TestReassemblerSplitFeeds(t *testing.T) {
	r := NewReassembler(0)
	feedHandshake(r)

	r.Feed([]byte{6})
	_, ok, err := r.NextPacket()
	require.NoError(t, err)
	require.False(t, ok)

	r.Feed([]byte{0, 0, 0, 0, 0, 4})
	got, ok, err := r.NextPacket()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{6, 0, 0, 0, 0, 0}, got)

	_, ok, err = r.NextPacket()
	require.NoError(t, err)
	require.False(t, ok)

	r.Feed([]byte{0, 0})
	_, ok, err = r.NextPacket()
	require.NoError(t, err)
	require.False(t, ok)

	r.Feed([]byte{0})
	got, ok, err = r.NextPacket()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{4, 0, 0, 0}, got)
}

func TestReassemblerRejectsOversizedPacket(t *testing.T) {
	r := NewReassembler(16)
	feedHandshake(r)

	r.Feed([]byte{32, 0})
	_, _, err := r.NextPacket()
	require.ErrorIs(t, err, ErrOversizedPacket)
}

func TestReassemblerRejectsUndersizedPacket(t *testing.T) {
	r := NewReassembler(0)
	feedHandshake(r)

	r.Feed([]byte{4, 0, 0, 0})
	_, _, err := r.NextPacket()
	require.ErrorIs(t, err, ErrUndersizedPacket)
}

func feedHandshake(r *Reassembler) {
	r.Feed([]byte{0x11, 0xF3, 0x11, 0x1F})
}

func wellFormedPacket(t *testing.T) []byte {
	t.Helper()
	kt := testKeytable()
	codec := NewCodec(kt, 1, nil)
	return codec.encryptWithKeyword([]byte("hi"), OpLogin, nil, 10)
}
