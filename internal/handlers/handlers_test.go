package handlers

import (
	"context"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
	"github.com/kevinkouketsu/odin-emulator/internal/session"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

// fakeRepository is an in-memory stand-in for repository.AccountRepository,
// grounded on the original test double's shape: a handful of maps guarded
// by nothing since tests run single-goroutine.
type fakeRepository struct {
	accounts   map[uuid.UUID]*domain.AccountCharlist
	characters map[uuid.UUID]map[int]domain.Character
	names      map[string]bool
	tokens     map[uuid.UUID]*string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		accounts:   make(map[uuid.UUID]*domain.AccountCharlist),
		characters: make(map[uuid.UUID]map[int]domain.Character),
		names:      make(map[string]bool),
		tokens:     make(map[uuid.UUID]*string),
	}
}

func (f *fakeRepository) FetchAccount(ctx context.Context, username string) (domain.AccountCharlist, bool, error) {
	for _, acc := range f.accounts {
		if sameFold(acc.Username, username) {
			return *acc, true, nil
		}
	}
	return domain.AccountCharlist{}, false, nil
}

func sameFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (f *fakeRepository) FetchCharlist(ctx context.Context, accountID uuid.UUID) ([]domain.CharlistSlot, error) {
	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return acc.Charlist, nil
}

func (f *fakeRepository) FetchCharacter(ctx context.Context, accountID uuid.UUID, slot int) (domain.Character, bool, error) {
	byAccount, ok := f.characters[accountID]
	if !ok {
		return domain.Character{}, false, nil
	}
	c, ok := byAccount[slot]
	return c, ok, nil
}

func (f *fakeRepository) CreateCharacter(ctx context.Context, accountID uuid.UUID, slot int, name domain.Nickname, class domain.Class) (uuid.UUID, error) {
	id := uuid.New()
	if f.characters[accountID] == nil {
		f.characters[accountID] = make(map[int]domain.Character)
	}
	f.characters[accountID][slot] = domain.Character{ID: id, AccountID: accountID, Slot: slot, Name: name.String(), Class: class, Evolution: domain.Mortal}
	f.names[name.String()] = true
	return id, nil
}

func (f *fakeRepository) DeleteCharacter(ctx context.Context, accountID uuid.UUID, slot int) error {
	byAccount, ok := f.characters[accountID]
	if !ok {
		return repository.ErrEntityNotFound
	}
	if _, ok := byAccount[slot]; !ok {
		return repository.ErrEntityNotFound
	}
	delete(byAccount, slot)
	return nil
}

func (f *fakeRepository) NameExists(ctx context.Context, name domain.Nickname) (bool, error) {
	return f.names[name.String()], nil
}

func (f *fakeRepository) CheckPassword(ctx context.Context, accountID uuid.UUID, password string) (bool, error) {
	acc, ok := f.accounts[accountID]
	if !ok {
		return false, repository.ErrEntityNotFound
	}
	return acc.Password == password, nil
}

func (f *fakeRepository) GetToken(ctx context.Context, accountID uuid.UUID) (*string, error) {
	return f.tokens[accountID], nil
}

func (f *fakeRepository) UpdateToken(ctx context.Context, accountID uuid.UUID, token *string) error {
	f.tokens[accountID] = token
	return nil
}

var _ repository.AccountRepository = (*fakeRepository)(nil)

type fakeConfig struct {
	cliVer uint32
	state  config.ServerState
}

func (c fakeConfig) CurrentCliVer() uint32           { return c.cliVer }
func (c fakeConfig) ServerState() config.ServerState { return c.state }
func (c fakeConfig) ListenAddr() string              { return "" }
func (c fakeConfig) DatabaseURL() string             { return "" }
func (c fakeConfig) MaxSessions() uint16             { return 750 }
func (c fakeConfig) MaxPacketSize() int              { return 8192 }

var _ config.Configuration = fakeConfig{}

// newTestSession builds a live Session over an in-memory pipe, handing the
// caller the codec needed to build client-side request packets and the
// other end of the pipe to read server responses from.
func newTestSession(t *testing.T) (*session.Session, net.Conn, *wire.Codec) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { serverConn.Close(); clientConn.Close() })

	kt := wire.Keytable{}
	serverCodec := wire.NewCodec(&kt, 1, rand.New(rand.NewSource(1)))
	clientCodec := wire.NewCodec(&kt, 1, rand.New(rand.NewSource(2)))

	s := session.New(serverConn, 1, serverCodec, 8192, zap.NewNop())
	return s, clientConn, clientCodec
}

func readPacket(t *testing.T, conn net.Conn, codec *wire.Codec) (wire.Header, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	head := make([]byte, 2)
	_, err := conn.Read(head)
	if err != nil {
		t.Fatalf("read size prefix: %v", err)
	}
	size := int(head[0]) | int(head[1])<<8

	rest := make([]byte, size-2)
	if _, err := readFull(conn, rest); err != nil {
		t.Fatalf("read rest: %v", err)
	}

	packet := append(head, rest...)
	header, payload, err := codec.Decrypt(packet)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	return header, payload
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
