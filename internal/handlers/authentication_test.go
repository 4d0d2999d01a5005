package handlers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

func TestAuthenticationRejectsBadCliVer(t *testing.T) {
	repo := newFakeRepository()
	cfg := fakeConfig{cliVer: 11022, state: config.StateNormal}
	h := Authentication{Repo: repo, Config: cfg}

	s, clientConn, clientCodec := newTestSession(t)
	defer clientConn.Close()

	login := loginPayload(t, "admin", "admin", 11021)

	errc := make(chan error, 1)
	go func() { errc <- h.Handle(context.Background(), s, login) }()

	_, payload := readPacket(t, clientConn, clientCodec)
	require.NoError(t, <-errc)

	text, err := wire.DecodeFixedString(payload)
	require.NoError(t, err)
	require.Equal(t, msgInvalidCliVer, text)
	require.Equal(t, session.PhaseLoggingIn, s.State().Phase())
}

func TestAuthenticationSucceedsDuringMaintenanceForAdmin(t *testing.T) {
	repo := newFakeRepository()
	acc := &domain.AccountCharlist{Account: domain.Account{
		ID:       uuid.New(),
		Username: "admin",
		Password: "admin",
		Access:   domain.NewAccessLevel(100),
	}}
	repo.accounts[acc.ID] = acc
	cfg := fakeConfig{cliVer: 11022, state: config.StateMaintenance}
	h := Authentication{Repo: repo, Config: cfg}

	s, clientConn, clientCodec := newTestSession(t)
	defer clientConn.Close()

	login := loginPayload(t, "admin", "admin", 11022)

	errc := make(chan error, 1)
	go func() { errc <- h.Handle(context.Background(), s, login) }()

	header, _ := readPacket(t, clientConn, clientCodec)
	require.NoError(t, <-errc)
	require.Equal(t, wire.OpFirstCharlist, header.Type)
	require.Equal(t, session.PhaseCharlist, s.State().Phase())
}

// loginPayload builds a Login payload whose decoded client version equals
// decodedCliVer. Encoding the version as decodedCliVer<<5 keeps the low 5
// bits zero, which zeroes the shift-selector bits the wire format derives
// the shift from, so DecodedCliVer inverts it exactly (spec §4.6).
func loginPayload(t *testing.T, username, password string, decodedCliVer uint32) []byte {
	t.Helper()
	enc, err := wire.EncodeFixedString(password, 16)
	require.NoError(t, err)
	enc2, err := wire.EncodeFixedString(username, 16)
	require.NoError(t, err)

	buf := append([]byte{}, enc...)
	buf = append(buf, enc2...)
	buf = append(buf, make([]byte, 52)...) // tid
	buf = append(buf, u32le(decodedCliVer<<5)...)
	buf = append(buf, u32le(0)...) // force
	buf = append(buf, make([]byte, 16)...)
	return buf
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
