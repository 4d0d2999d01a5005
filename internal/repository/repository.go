package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
)

// Error taxonomy every repository method collapses into (spec §6.4).
var (
	ErrFailToLoad        = errors.New("repository: failed to load")
	ErrEntityNotFound    = errors.New("repository: entity not found")
	ErrCharacterNotValid = errors.New("repository: character not valid for this operation")
	ErrGeneric           = errors.New("repository: generic failure")
)

// AccountRepository is the external persistence collaborator the core
// depends on (spec §6.4). Implementations must be safe for concurrent use
// by many sessions at once; the core holds no lock around any call.
type AccountRepository interface {
	// FetchAccount looks up an account and its roster by username,
	// case-insensitively.
	FetchAccount(ctx context.Context, username string) (domain.AccountCharlist, bool, error)

	// FetchCharlist returns an account's roster ordered by slot.
	FetchCharlist(ctx context.Context, accountID uuid.UUID) ([]domain.CharlistSlot, error)

	// FetchCharacter looks up a character by (account, slot).
	FetchCharacter(ctx context.Context, accountID uuid.UUID, slot int) (domain.Character, bool, error)

	// CreateCharacter atomically clones a class template into a new
	// character row plus starter items, returning the new character id.
	CreateCharacter(ctx context.Context, accountID uuid.UUID, slot int, name domain.Nickname, class domain.Class) (uuid.UUID, error)

	// DeleteCharacter atomically deletes a character and cascades its items.
	DeleteCharacter(ctx context.Context, accountID uuid.UUID, slot int) error

	// NameExists reports whether a character name is already taken,
	// case-insensitively.
	NameExists(ctx context.Context, name domain.Nickname) (bool, error)

	// CheckPassword validates a plaintext password against the stored one.
	CheckPassword(ctx context.Context, accountID uuid.UUID, password string) (bool, error)

	// GetToken returns the account's stored numeric token, if any.
	GetToken(ctx context.Context, accountID uuid.UUID) (*string, error)

	// UpdateToken overwrites (or clears, if nil) the account's numeric token.
	UpdateToken(ctx context.Context, accountID uuid.UUID, token *string) error
}
