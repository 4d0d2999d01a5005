package domain

import (
	"time"

	"github.com/google/uuid"
)

// BanType distinguishes a soft "under review" ban from a hard block.
type BanType int

const (
	BanAnalysis BanType = iota
	BanBlocked
)

// Ban is an account's active or expired restriction.
type Ban struct {
	ExpiresAt time.Time
	Type      BanType
}

// Active reports whether the ban is still in effect relative to now.
func (b Ban) Active(now time.Time) bool {
	return b.ExpiresAt.After(now)
}

// AccessLevel distinguishes normal accounts from staff accounts. The wire
// and persisted representation is always a single access:i32 (0=normal,
// 1..=99=GM level, 100=Administrator); this type exists purely so handlers
// can reason about "is this a staff account" without repeating the magic
// numbers (see original_source's AccessLevel enum).
type AccessLevel struct {
	raw int32
}

// NoAccess is the zero-value, normal-account access level.
var NoAccess = AccessLevel{raw: 0}

// NewAccessLevel wraps a raw access:i32 value.
func NewAccessLevel(raw int32) AccessLevel {
	return AccessLevel{raw: raw}
}

// IsStaff reports whether this access level is anything above normal —
// used by the Maintenance-mode login bypass (spec §4.6 precondition 4).
func (a AccessLevel) IsStaff() bool {
	return a.raw != 0
}

// Level returns the raw access:i32 value for persistence/wire use.
func (a AccessLevel) Level() int32 {
	return a.raw
}

// IsAdministrator reports whether this is the top access level (100).
func (a AccessLevel) IsAdministrator() bool {
	return a.raw == 100
}

// Account is the durable account row. Accounts are owned by the repository;
// the core only ever holds read-copies scoped to one request.
type Account struct {
	ID          uuid.UUID
	Username    string
	Password    string
	Cash        int32
	Access      AccessLevel
	StorageCoin int64
	Token       *string
	Ban         *Ban
}

// AccountCharlist is an account plus its ordered roster, the shape the
// authentication handler needs to assemble FirstCharlist.
type AccountCharlist struct {
	Account
	Charlist []CharlistSlot
}

// CharlistSlot pairs a roster slot index with its character summary.
type CharlistSlot struct {
	Slot      int
	Character CharacterInfo
}

// CharacterInfo is the subset of a Character needed to render a charlist
// entry (spec §4.4 CharlistInfoRaw).
type CharacterInfo struct {
	ID         uuid.UUID
	Name       string
	Position   Position
	Score      Score
	Equipments [MaxEquipmentSlots]Item
	GuildID    *uint16
	Coin       uint32
	Experience int64
}
