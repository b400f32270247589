package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/common"
)

// Platform selects the local store backend.
type Platform string

const (
	PlatformAuto   Platform = "auto"
	PlatformNative Platform = "native"
	PlatformWeb    Platform = "web"
)

// Config holds runtime settings for the Baby Steps client.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - HealthAddr: host:port of the server's gRPC health endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline for a single remote call.
//   - DataDir: directory holding the local store.
//   - Namespace: prefix of every repository key in the local store.
//   - Platform: auto, native (SQLite preferences) or web (JSON file).
//   - QueueKeepSynced: synced queue entries kept after compaction.
//   - SeedDemoData: create the demo account when the store is empty.
//   - LogLevel / LogFormat: logging.New arguments.
type Config struct {
	ServerURL           string
	HealthAddr          string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	DataDir             string
	Namespace           string
	Platform            Platform
	QueueKeepSynced     int
	SeedDemoData        bool
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.DataDir = ".babysteps"
	c.Namespace = common.DefaultNamespace
	c.Platform = PlatformAuto
	c.QueueKeepSynced = 50
	c.SeedDemoData = false
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
