package handlers

import (
	"context"
	"errors"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

const msgInvalidNickname = "Nome inadequado"

// MaxCharacterSlots is the fixed roster width (spec §3 invariant i).
const MaxCharacterSlots = 4

// CreateCharacter handles the CreateCharacter opcode (spec §4.8, C7.c).
type CreateCharacter struct {
	Repo repository.AccountRepository
}

func (h CreateCharacter) Handle(ctx context.Context, s *session.Session, payload []byte) error {
	if s.State().Phase() != session.PhaseCharlist {
		return session.ErrWrongPhase
	}

	msg, err := wire.DecodeCreateCharacterRaw(payload)
	if err != nil {
		return err
	}

	if msg.Slot >= MaxCharacterSlots {
		return h.panel(s, msgInvalidNickname)
	}

	nickname, err := domain.NewNickname(msg.Name)
	if err != nil {
		return h.panel(s, msgInvalidNickname)
	}

	exists, err := h.Repo.NameExists(ctx, nickname)
	if err != nil {
		return err
	}
	if exists {
		return s.Send(wire.OpCharacterNameAlreadyExists, nil)
	}

	class, err := domain.ParseClass(msg.Class)
	if err != nil {
		return h.panel(s, msgInvalidNickname)
	}

	account := s.State().Account()
	if _, err := h.Repo.CreateCharacter(ctx, account.ID, int(msg.Slot), nickname, class); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return h.panel(s, msgInvalidNickname)
		}
		return err
	}

	charlist, err := h.Repo.FetchCharlist(ctx, account.ID)
	if err != nil {
		return err
	}
	if err := s.State().RefreshCharlist(charlist); err != nil {
		return err
	}

	roster := make(map[int]domain.CharacterInfo, len(charlist))
	for _, slot := range charlist {
		roster[slot.Slot] = slot.Character
	}
	encoded, err := wire.EncodeUpdateCharlistRaw(wire.CharlistInfoFromRoster(roster))
	if err != nil {
		return err
	}
	return s.Send(wire.OpUpdateCharlist, encoded)
}

func (h CreateCharacter) panel(s *session.Session, message string) error {
	payload, err := wire.EncodeMessagePanelRaw(message)
	if err != nil {
		return err
	}
	return s.SendAs(wire.OpMessagePanel, payload, 0)
}
