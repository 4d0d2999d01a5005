package domain

import (
	"github.com/google/uuid"
)

// Score is a character's combat stats, field order fixed to match the
// 48-byte ScoreRaw wire layout exactly (see spec §4.4).
type Score struct {
	Level        uint16
	Defense      uint32
	Damage       uint32
	Reserved     int8
	AttackRun    int8
	MaxHP        uint32
	MaxMP        uint32
	HP           uint32
	MP           uint32
	Strength     uint16
	Intelligence uint16
	Dexterity    uint16
	Constitution uint16
	Specials     [4]uint16
}

// Character is the durable character row as the selection/charlist
// front-end loads it. GuildLevel is carried from the repository but
// untouched by this service.
type Character struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Slot       int
	Name       string
	Class      Class
	Evolution  Evolution
	Position   Position
	Score      Score
	Equipments Equipments
	Inventory  Inventory
	Coin       uint32
	Experience int64
	GuildID    *uint16
	GuildLevel int32
}

// CanDelete reports whether the character satisfies every DeleteCharacter
// integrity rule other than the password check, which the caller verifies
// against the account separately (spec §4.9).
func (c Character) CanDelete() bool {
	if c.Coin != 0 {
		return false
	}
	if c.Evolution != Mortal {
		return false
	}
	if c.Equipments.HasOccupiedSlotOtherThan(SlotFace, SlotMantle) {
		return false
	}
	return c.Inventory.IsEmpty()
}

// ToInfo projects a Character down to the charlist summary shape.
func (c Character) ToInfo() CharacterInfo {
	return CharacterInfo{
		ID:         c.ID,
		Name:       c.Name,
		Position:   c.Position,
		Score:      c.Score,
		Equipments: c.Equipments.slots,
		GuildID:    c.GuildID,
		Coin:       c.Coin,
		Experience: c.Experience,
	}
}
