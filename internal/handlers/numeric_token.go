package handlers

import (
	"context"

	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// NumericToken handles the Token opcode per the decision table in spec
// §4.7, C7.b. The "prior-proved" bit it consults is the session's own
// token_proved flag, never the request.
type NumericToken struct {
	Repo repository.AccountRepository
}

func (h NumericToken) Handle(ctx context.Context, s *session.Session, payload []byte) error {
	if s.State().Phase() != session.PhaseCharlist {
		return session.ErrWrongPhase
	}

	msg, err := wire.DecodeNumericTokenRaw(payload)
	if err != nil {
		return err
	}

	account := s.State().Account()
	stored, err := h.Repo.GetToken(ctx, account.ID)
	if err != nil {
		return err
	}

	priorProved := s.State().TokenProved()

	switch {
	case stored == nil:
		if err := h.Repo.UpdateToken(ctx, account.ID, &msg.Token); err != nil {
			return err
		}
		return h.accept(s, msg.Token)

	case !msg.Changing() && *stored != msg.Token:
		return h.reject(s)

	case !msg.Changing() && *stored == msg.Token:
		return h.accept(s, msg.Token)

	case msg.Changing() && !priorProved:
		return h.reject(s)

	case msg.Changing() && priorProved:
		if err := h.Repo.UpdateToken(ctx, account.ID, &msg.Token); err != nil {
			return err
		}
		return h.accept(s, msg.Token)
	}

	return h.reject(s)
}

func (h NumericToken) accept(s *session.Session, token string) error {
	if err := s.State().SetTokenProved(true); err != nil {
		return err
	}
	payload, err := wire.EncodeNumericTokenRaw(token, 0)
	if err != nil {
		return err
	}
	return s.Send(wire.OpCorrectNumericToken, payload)
}

func (h NumericToken) reject(s *session.Session) error {
	payload, err := wire.EncodeNumericTokenRaw("", 0)
	if err != nil {
		return err
	}
	return s.Send(wire.OpIncorrectNumericToken, payload)
}
