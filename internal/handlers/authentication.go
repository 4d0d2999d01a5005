package handlers

import (
	"context"
	"time"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// Localized panel messages, fixed mapping (spec §4.6).
const (
	msgInvalidCliVer      = "Baixe as atualizações pelo launcher ou pelo site"
	msgInvalidCredentials = "Usuário ou senha inválidos"
	msgAccountInAnalysis  = "Conta está em análise"
	msgAccountBlocked     = "Conta está banida"
	msgMaintenance        = "Servidor está em manutenção"
)

// Authentication handles the Login opcode (spec §4.6, C7.a).
type Authentication struct {
	Repo   repository.AccountRepository
	Config config.Configuration
	Now    func() time.Time
}

// Handle validates a Login payload against the five ordered preconditions
// and either advances the session into Charlist with a FirstCharlist
// reply, or sends a localized MessagePanel and leaves the state unchanged.
func (a Authentication) Handle(ctx context.Context, s *session.Session, payload []byte) error {
	if s.State().Phase() != session.PhaseLoggingIn {
		return session.ErrWrongPhase
	}

	login, err := wire.DecodeLoginRaw(payload)
	if err != nil {
		return err
	}

	if login.DecodedCliVer() != a.Config.CurrentCliVer() {
		return a.reject(s, msgInvalidCliVer)
	}

	account, found, err := a.Repo.FetchAccount(ctx, login.Username)
	if err != nil {
		return err
	}
	if !found {
		return a.reject(s, msgInvalidCredentials)
	}
	if account.Password != login.Password {
		return a.reject(s, msgInvalidCredentials)
	}
	if a.Config.ServerState() == config.StateMaintenance && !account.Access.IsStaff() {
		return a.reject(s, msgMaintenance)
	}
	if account.Ban != nil && account.Ban.Active(a.now()) {
		switch account.Ban.Type {
		case domain.BanAnalysis:
			return a.reject(s, msgAccountInAnalysis)
		case domain.BanBlocked:
			return a.reject(s, msgAccountBlocked)
		}
	}

	if err := s.State().EnterCharlist(account); err != nil {
		return err
	}

	roster := make(map[int]domain.CharacterInfo, len(account.Charlist))
	for _, slot := range account.Charlist {
		roster[slot.Slot] = slot.Character
	}

	reply := wire.FirstCharlistRaw{
		Charlist:    wire.CharlistInfoFromRoster(roster),
		StorageCoin: uint64(account.StorageCoin),
		AccountName: account.Username,
	}
	encoded, err := wire.EncodeFirstCharlistRaw(reply)
	if err != nil {
		return err
	}
	return s.Send(wire.OpFirstCharlist, encoded)
}

func (a Authentication) reject(s *session.Session, message string) error {
	payload, err := wire.EncodeMessagePanelRaw(message)
	if err != nil {
		return err
	}
	return s.SendAs(wire.OpMessagePanel, payload, 0)
}

func (a Authentication) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
