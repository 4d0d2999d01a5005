package handlers

import (
	"context"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// Localized panel messages for the ordered DeleteCharacter preconditions
// (spec §4.9).
const (
	msgIncorrectPassword = "Senha incorreta"
	msgCharacterHasCoin  = "Remova o gold do inventário para deletar"
	msgNotMortal         = "Só é possível deletar personagens mortais"
	msgEquippedItems     = "Desequipe todos os itens, exceto rosto e manto, antes de deletar o personagem"
	msgInventoryNotEmpty = "Limpe seu inventário antes de deletar o personagem"
)

// DeleteCharacter handles the DeleteCharacter opcode (spec §4.9, C7.d).
type DeleteCharacter struct {
	Repo repository.AccountRepository
}

func (h DeleteCharacter) Handle(ctx context.Context, s *session.Session, payload []byte) error {
	if s.State().Phase() != session.PhaseCharlist {
		return session.ErrWrongPhase
	}

	msg, err := wire.DecodeDeleteCharacterRaw(payload)
	if err != nil {
		return err
	}

	account := s.State().Account()

	ok, err := h.Repo.CheckPassword(ctx, account.ID, msg.Password)
	if err != nil {
		return err
	}
	if !ok {
		return h.panel(s, msgIncorrectPassword)
	}

	character, found, err := h.Repo.FetchCharacter(ctx, account.ID, int(msg.Slot))
	if err != nil {
		return err
	}
	if !found {
		return h.panel(s, msgIncorrectPassword)
	}

	if character.Coin != 0 {
		return h.panel(s, msgCharacterHasCoin)
	}
	if character.Evolution != domain.Mortal {
		return h.panel(s, msgNotMortal)
	}
	if character.Equipments.HasOccupiedSlotOtherThan(domain.SlotFace, domain.SlotMantle) {
		return h.panel(s, msgEquippedItems)
	}
	if !character.Inventory.IsEmpty() {
		return h.panel(s, msgInventoryNotEmpty)
	}

	if err := h.Repo.DeleteCharacter(ctx, account.ID, int(msg.Slot)); err != nil {
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

func (h DeleteCharacter) panel(s *session.Session, message string) error {
	payload, err := wire.EncodeMessagePanelRaw(message)
	if err != nil {
		return err
	}
	return s.SendAs(wire.OpMessagePanel, payload, 0)
}
