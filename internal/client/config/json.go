package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/babysteps/internal/flagx"
	"github.com/dmitrijs2005/babysteps/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	HealthAddr          *string         `json:"health_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	DataDir             *string         `json:"data_dir"`
	Namespace           *string         `json:"namespace"`
	Platform            *Platform       `json:"platform"`
	QueueKeepSynced     *int            `json:"queue_keep_synced"`
	SeedDemoData        *bool           `json:"seed_demo_data"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Without that flag nothing happens.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.ServerURL, jc.ServerURL)
	set(&cfg.HealthAddr, jc.HealthAddr)
	set(&cfg.DataDir, jc.DataDir)
	set(&cfg.Namespace, jc.Namespace)
	set(&cfg.Platform, jc.Platform)
	set(&cfg.QueueKeepSynced, jc.QueueKeepSynced)
	set(&cfg.SeedDemoData, jc.SeedDemoData)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
