package handlers

import (
	"context"
	"fmt"

	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// EnterWorld handles the EnterWorld opcode (spec §4.5), the Charlist ->
// InWorld transition that is terminal for this core's scope.
type EnterWorld struct {
	Repo repository.AccountRepository
}

func (h EnterWorld) Handle(ctx context.Context, s *session.Session, payload []byte) error {
	if s.State().Phase() != session.PhaseCharlist {
		return session.ErrWrongPhase
	}
	if !s.State().TokenProved() {
		return session.ErrWrongPhase
	}

	msg, err := wire.DecodeEnterWorldRaw(payload)
	if err != nil {
		return err
	}

	account := s.State().Account()
	character, found, err := h.Repo.FetchCharacter(ctx, account.ID, int(msg.Slot))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("enter world: %w", repository.ErrEntityNotFound)
	}

	return s.State().EnterWorld(character.ID)
}
