// Package domain holds the account/character-selection value types and the
// small validators the handlers lean on: nicknames, positions, classes,
// evolutions, and the equipment/inventory views used by DeleteCharacter.
package domain

import (
	"errors"
	"fmt"
)

const (
	minNicknameLength = 4
	maxNicknameLength = 11
)

// Nickname is a validated player name: 4..=11 ASCII alphanumeric characters.
// Invalid input is rejected here, before it ever reaches persistence.
type Nickname struct {
	value string
}

var (
	ErrNicknameTooShort       = errors.New("nickname must be at least 4 characters long")
	ErrNicknameTooLong        = errors.New("nickname cannot be longer than 11 characters")
	ErrNicknameInvalidCharset = errors.New("nickname can only contain letters and numbers")
)

// NewNickname validates and wraps a candidate player name.
func NewNickname(value string) (Nickname, error) {
	if len(value) < minNicknameLength {
		return Nickname{}, fmt.Errorf("%q: %w", value, ErrNicknameTooShort)
	}
	if len(value) > maxNicknameLength {
		return Nickname{}, fmt.Errorf("%q: %w", value, ErrNicknameTooLong)
	}
	for _, c := range value {
		if !isASCIIAlphanumeric(c) {
			return Nickname{}, fmt.Errorf("%q: %w", value, ErrNicknameInvalidCharset)
		}
	}
	return Nickname{value: value}, nil
}

func isASCIIAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (n Nickname) String() string { return n.value }
