package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
)

func TestStateTransitionsFollowAllowedPhases(t *testing.T) {
	var s State
	require.Equal(t, PhaseLoggingIn, s.Phase())

	account := domain.AccountCharlist{Account: domain.Account{ID: uuid.New()}}
	require.NoError(t, s.EnterCharlist(account))
	require.Equal(t, PhaseCharlist, s.Phase())
	require.False(t, s.TokenProved())

	require.NoError(t, s.SetTokenProved(true))
	require.True(t, s.TokenProved())

	characterID := uuid.New()
	require.NoError(t, s.EnterWorld(characterID))
	require.Equal(t, PhaseInWorld, s.Phase())
	require.Equal(t, characterID, s.CharacterID())
}

func TestEnterWorldRequiresProvedToken(t *testing.T) {
	var s State
	require.NoError(t, s.EnterCharlist(domain.AccountCharlist{}))

	err := s.EnterWorld(uuid.New())
	require.ErrorIs(t, err, ErrWrongPhase)
}

func TestStateTransitionsRejectWrongPhase(t *testing.T) {
	var s State
	err := s.SetTokenProved(true)
	require.ErrorIs(t, err, ErrWrongPhase)

	err = s.EnterWorld(uuid.New())
	require.ErrorIs(t, err, ErrWrongPhase)
}
