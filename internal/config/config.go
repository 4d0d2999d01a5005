// Package config loads server configuration from a YAML file, an optional
// .env overlay, and the environment, and exposes it through an explicit
// interface rather than a package-level singleton (spec §9 "avoid hidden
// globals").
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerState gates the Maintenance login bypass (spec §4.6 precondition 4).
type ServerState string

const (
	StateNormal      ServerState = "normal"
	StateMaintenance ServerState = "maintenance"
)

// Configuration is the explicit, non-singleton config surface handlers and
// the server depend on.
type Configuration interface {
	CurrentCliVer() uint32
	ServerState() ServerState
	ListenAddr() string
	DatabaseURL() string
	MaxSessions() uint16
	MaxPacketSize() int
}

// file is the on-disk YAML shape.
type file struct {
	ListenAddr    string `yaml:"listen_addr"`
	DatabaseURL   string `yaml:"database_url"`
	CurrentCliVer uint32 `yaml:"current_cliver"`
	ServerState   string `yaml:"server_state"`
	MaxSessions   uint16 `yaml:"max_sessions"`
	MaxPacketSize int    `yaml:"max_packet_size"`
}

// config is the concrete Configuration, immutable after Load.
type config struct {
	listenAddr    string
	databaseURL   string
	currentCliVer uint32
	serverState   ServerState
	maxSessions   uint16
	maxPacketSize int
}

var _ Configuration = (*config)(nil)

// Load reads path as YAML, overlays any .env file in the working directory, the process
// environment, and finally listenAddrOverride/databaseURLOverride, and
// returns an immutable Configuration. The two overrides take the CLI
// positional arguments (odin-server serve <listen_addr> <database_url>);
// pass "" to leave the corresponding setting to env/YAML/defaults. Applied
// precedence is CLI positional args > environment > YAML file > defaults.
func Load(path, listenAddrOverride, databaseURLOverride string) (Configuration, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if v := os.Getenv("ODIN_LISTEN_ADDR"); v != "" {
		f.ListenAddr = v
	}
	if v := os.Getenv("ODIN_DATABASE_URL"); v != "" {
		f.DatabaseURL = v
	}
	if v := os.Getenv("ODIN_SERVER_STATE"); v != "" {
		f.ServerState = v
	}

	if listenAddrOverride != "" {
		f.ListenAddr = listenAddrOverride
	}
	if databaseURLOverride != "" {
		f.DatabaseURL = databaseURLOverride
	}

	if f.MaxSessions == 0 {
		f.MaxSessions = 750
	}
	if f.MaxPacketSize == 0 {
		f.MaxPacketSize = 8 * 1024
	}

	state := ServerState(f.ServerState)
	if state != StateMaintenance {
		state = StateNormal
	}

	return &config{
		listenAddr:    f.ListenAddr,
		databaseURL:   f.DatabaseURL,
		currentCliVer: f.CurrentCliVer,
		serverState:   state,
		maxSessions:   f.MaxSessions,
		maxPacketSize: f.MaxPacketSize,
	}, nil
}

func (c *config) CurrentCliVer() uint32    { return c.currentCliVer }
func (c *config) ServerState() ServerState { return c.serverState }
func (c *config) ListenAddr() string       { return c.listenAddr }
func (c *config) DatabaseURL() string      { return c.databaseURL }
func (c *config) MaxSessions() uint16      { return c.maxSessions }
func (c *config) MaxPacketSize() int       { return c.maxPacketSize }
