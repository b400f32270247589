package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/flagx"
)

var clientFlags = []string{"-u", "-g", "-i", "-t", "-d", "-n", "-p"}

// Commands strips every configuration flag from args and returns what is
// left: the CLI command and its operands.
func Commands(args []string) []string {
	return flagx.Positional(args, append([]string{"-c", "-config", "--config"}, clientFlags...))
}

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed in the package doc are looked at; everything else in
// args (CLI command names, operands) is left for the caller.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, clientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "u", cfg.ServerURL, "base URL of the REST API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port of the gRPC health endpoint")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "key namespace")
	platform := fs.String("p", string(cfg.Platform), "platform: auto, native or web")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	switch Platform(*platform) {
	case PlatformAuto, PlatformNative, PlatformWeb:
		cfg.Platform = Platform(*platform)
	default:
		return fmt.Errorf("parse flags: unknown platform %q", *platform)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
