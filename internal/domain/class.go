package domain

import "fmt"

// Class is a character's playable class.
type Class int32

const (
	TransKnight Class = 0
	Foema       Class = 1
	BeastMaster Class = 2
	Huntress    Class = 3
)

func (c Class) String() string {
	switch c {
	case TransKnight:
		return "TransKnight"
	case Foema:
		return "Foema"
	case BeastMaster:
		return "BeastMaster"
	case Huntress:
		return "Huntress"
	default:
		return fmt.Sprintf("Class(%d)", int32(c))
	}
}

// ParseClass validates a wire class value.
func ParseClass(value int32) (Class, error) {
	switch Class(value) {
	case TransKnight, Foema, BeastMaster, Huntress:
		return Class(value), nil
	default:
		return 0, fmt.Errorf("invalid class: %d", value)
	}
}

// Evolution is a character's rank; Mortal is the deletable baseline and the
// order below (Mortal < Arch < Celestial < SubCelestial) backs the
// DeleteCharacter evolution check.
type Evolution int32

const (
	Mortal       Evolution = 1
	Arch         Evolution = 2
	Celestial    Evolution = 3
	SubCelestial Evolution = 4
)

func (e Evolution) String() string {
	switch e {
	case Mortal:
		return "Mortal"
	case Arch:
		return "Arch"
	case Celestial:
		return "Celestial"
	case SubCelestial:
		return "SubCelestial"
	default:
		return fmt.Sprintf("Evolution(%d)", int32(e))
	}
}
