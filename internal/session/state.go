package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
)

// Phase names the session's connection-scoped state (spec §4.5, C6).
type Phase int

const (
	PhaseLoggingIn Phase = iota
	PhaseCharlist
	PhaseInWorld
)

func (p Phase) String() string {
	switch p {
	case PhaseLoggingIn:
		return "LoggingIn"
	case PhaseCharlist:
		return "Charlist"
	case PhaseInWorld:
		return "InWorld"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ErrProtocol marks an error as a protocol violation rather than a domain
// rejection: unknown opcodes and handlers invoked outside their allowed
// phase are both protocol errors, and both are fatal to the session
// (spec §7 "Protocol errors: log and close"). errors.Is walks the wrap
// chain, so anything that ultimately wraps ErrProtocol is recognized by
// ReadLoop regardless of how many layers of context it picked up first.
var ErrProtocol = fmt.Errorf("session: protocol error")

// ErrWrongPhase is returned when a handler is invoked outside the phase it
// is valid in (spec §4.5/§8: "no handler executes outside its allowed
// state"). It wraps ErrProtocol, so it is always treated as fatal.
var ErrWrongPhase = fmt.Errorf("session: handler invoked outside its allowed phase: %w", ErrProtocol)

// State is the session's connection-scoped state machine. The zero value
// is LoggingIn. It is owned exclusively by one connection's goroutine and
// is never shared.
type State struct {
	phase Phase

	account     domain.AccountCharlist
	tokenProved bool
	characterID uuid.UUID
}

// Phase reports the current phase.
func (s *State) Phase() Phase { return s.phase }

// Account returns the authenticated account, valid once Phase is Charlist
// or InWorld.
func (s *State) Account() domain.AccountCharlist { return s.account }

// TokenProved reports whether the numeric token has been proved this
// session (the bit NumericToken's "changing" path consults, not the
// request itself).
func (s *State) TokenProved() bool { return s.tokenProved }

// CharacterID returns the character the session entered the world as,
// valid once Phase is InWorld.
func (s *State) CharacterID() uuid.UUID { return s.characterID }

// EnterCharlist transitions LoggingIn -> Charlist after a successful
// Login, recording the authenticated account.
func (s *State) EnterCharlist(account domain.AccountCharlist) error {
	if s.phase != PhaseLoggingIn {
		return fmt.Errorf("%w: EnterCharlist from %s", ErrWrongPhase, s.phase)
	}
	s.account = account
	s.tokenProved = false
	s.phase = PhaseCharlist
	return nil
}

// SetTokenProved updates the token-proved bit while remaining in Charlist.
func (s *State) SetTokenProved(proved bool) error {
	if s.phase != PhaseCharlist {
		return fmt.Errorf("%w: SetTokenProved from %s", ErrWrongPhase, s.phase)
	}
	s.tokenProved = proved
	return nil
}

// RefreshCharlist replaces the cached roster after a create/delete, without
// changing phase.
func (s *State) RefreshCharlist(charlist []domain.CharlistSlot) error {
	if s.phase != PhaseCharlist {
		return fmt.Errorf("%w: RefreshCharlist from %s", ErrWrongPhase, s.phase)
	}
	s.account.Charlist = charlist
	return nil
}

// EnterWorld transitions Charlist -> InWorld, valid only once the token has
// been proved (spec §4.5).
func (s *State) EnterWorld(characterID uuid.UUID) error {
	if s.phase != PhaseCharlist {
		return fmt.Errorf("%w: EnterWorld from %s", ErrWrongPhase, s.phase)
	}
	if !s.tokenProved {
		return fmt.Errorf("%w: EnterWorld without a proved token", ErrWrongPhase)
	}
	s.characterID = characterID
	s.phase = PhaseInWorld
	return nil
}
