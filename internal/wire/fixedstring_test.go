package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedStringRoundTrip(t *testing.T) {
	cases := []struct {
		value string
		width int
	}{
		{"", 16},
		{"a", 16},
		{"fifteen chars!!", 16},
		{"admin", 128},
	}

	for _, c := range cases {
		encoded, err := EncodeFixedString(c.value, c.width)
		require.NoError(t, err)
		require.Len(t, encoded, c.width)

		decoded, err := DecodeFixedString(encoded)
		require.NoError(t, err)
		require.Equal(t, c.value, decoded)
	}
}

func TestFixedStringTooLong(t *testing.T) {
	_, err := EncodeFixedString("sixteen chars!!!", 16)
	require.ErrorIs(t, err, ErrFixedStringTooLong)
}

func TestFixedStringNonASCII(t *testing.T) {
	_, err := EncodeFixedString("café", 16)
	require.ErrorIs(t, err, ErrFixedStringNonASCII)
}

func TestFixedStringEmbeddedNul(t *testing.T) {
	_, err := EncodeFixedString("ad\x00min", 16)
	require.ErrorIs(t, err, ErrFixedStringNulInside)
}
