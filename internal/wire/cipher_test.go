package wire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKeytable() *Keytable {
	var kt Keytable
	r := rand.New(rand.NewSource(42))
	for i := range kt {
		kt[i] = byte(r.Intn(256))
	}
	return &kt
}

func TestCodecRoundTrip(t *testing.T) {
	kt := testKeytable()
	r := rand.New(rand.NewSource(1))

	payloads := [][]byte{
		{},
		{0x01},
		[]byte("hello world"),
		make([]byte, 1024),
	}

	for _, p := range payloads {
		codec := NewCodec(kt, 7, r)
		packet := codec.Encrypt(p, 0x784, nil)

		decodeCodec := NewCodec(kt, 7, r)
		header, payload, err := decodeCodec.Decrypt(packet)
		require.NoError(t, err)
		require.Equal(t, uint16(0x784), header.Type)
		require.Equal(t, uint16(7), header.ClientID)
		require.Equal(t, uint16(HeaderSize+len(p)), header.Size)
		require.Equal(t, p, payload)
	}
}

func TestCodecClientIDOverride(t *testing.T) {
	kt := testKeytable()
	r := rand.New(rand.NewSource(2))
	codec := NewCodec(kt, 99, r)

	override := uint16(0)
	packet := codec.Encrypt([]byte("panel"), OpMessagePanel, &override)

	header, _, err := codec.Decrypt(packet)
	require.NoError(t, err)
	require.Equal(t, uint16(0), header.ClientID)
}

func TestDecryptRejectsTamperedChecksum(t *testing.T) {
	kt := testKeytable()
	r := rand.New(rand.NewSource(3))
	codec := NewCodec(kt, 1, r)

	packet := codec.Encrypt([]byte("payload"), OpLogin, nil)
	packet[3] ^= 0xFF

	_, _, err := codec.Decrypt(packet)
	require.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestDecryptRejectsSizeMismatch(t *testing.T) {
	kt := testKeytable()
	r := rand.New(rand.NewSource(4))
	codec := NewCodec(kt, 1, r)

	packet := codec.Encrypt([]byte("payload"), OpLogin, nil)
	truncated := packet[:len(packet)-1]

	_, _, err := codec.Decrypt(truncated)
	require.ErrorIs(t, err, ErrSizeMismatch)
}
