package handlers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

func enterWorldPayload(t *testing.T, slot uint32) []byte {
	t.Helper()
	code, err := wire.EncodeFixedString("", 16)
	require.NoError(t, err)
	buf := u32le(slot)
	buf = append(buf, u32le(0)...)
	buf = append(buf, code...)
	return buf
}

func TestEnterWorldTransitionsWhenTokenProved(t *testing.T) {
	repo := newFakeRepository()
	accountID := uuid.New()
	characterID := uuid.New()
	repo.accounts[accountID] = &domain.AccountCharlist{Account: domain.Account{ID: accountID}}
	repo.characters[accountID] = map[int]domain.Character{0: {ID: characterID, AccountID: accountID, Slot: 0}}

	h := EnterWorld{Repo: repo}
	s, clientConn, _ := newTestSession(t)
	defer clientConn.Close()
	require.NoError(t, s.State().EnterCharlist(*repo.accounts[accountID]))
	require.NoError(t, s.State().SetTokenProved(true))

	require.NoError(t, h.Handle(context.Background(), s, enterWorldPayload(t, 0)))
	require.Equal(t, session.PhaseInWorld, s.State().Phase())
}

func TestEnterWorldRejectsWithoutProvedToken(t *testing.T) {
	repo := newFakeRepository()
	accountID := uuid.New()
	repo.accounts[accountID] = &domain.AccountCharlist{Account: domain.Account{ID: accountID}}
	repo.characters[accountID] = map[int]domain.Character{0: {ID: uuid.New(), AccountID: accountID, Slot: 0}}

	h := EnterWorld{Repo: repo}
	s, clientConn, _ := newTestSession(t)
	defer clientConn.Close()
	require.NoError(t, s.State().EnterCharlist(*repo.accounts[accountID]))

	err := h.Handle(context.Background(), s, enterWorldPayload(t, 0))
	require.ErrorIs(t, err, session.ErrWrongPhase)
	require.Equal(t, session.PhaseCharlist, s.State().Phase())
}
