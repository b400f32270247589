// Package config loads runtime configuration for the Baby Steps client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the REST API
//	-g string   host:port of the gRPC health endpoint
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-d string   data directory for the local store
//	-n string   key namespace
//	-p string   platform: auto, native or web
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds. Absent keys keep their earlier value.
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "health_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "data_dir": ".babysteps",
//	  "namespace": "babysteps",
//	  "platform": "auto",
//	  "queue_keep_synced": 50,
//	  "seed_demo_data": false,
//	  "log_level": "warn",
//	  "log_format": "text"
//	}
package config
