package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNickname(t *testing.T) {
	valid := []string{"Abcd", "Player1", "abcdefghijk"}
	for _, v := range valid {
		n, err := NewNickname(v)
		require.NoError(t, err, v)
		require.Equal(t, v, n.String())
	}

	cases := []struct {
		value string
		want  error
	}{
		{"abc", ErrNicknameTooShort},
		{"abcdefghijkl", ErrNicknameTooLong},
		{"abc_def", ErrNicknameInvalidCharset},
		{"abc def", ErrNicknameInvalidCharset},
	}
	for _, c := range cases {
		_, err := NewNickname(c.value)
		require.ErrorIs(t, err, c.want, c.value)
	}
}
