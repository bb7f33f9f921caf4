// Package config manages the bitpack-relay daemon configuration using
// koanf/v2.
//
// Supports YAML files, environment variables, and the daemon's default
// values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the complete bitpack-relay configuration.
type Config struct {
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	Relay   RelayConfig   `koanf:"relay"`
	Crypto  CryptoConfig  `koanf:"crypto"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// RelayConfig holds the default relay-side TTL/age bookkeeping parameters.
// Of these, bitpack-relay passes only DedupWindow on to internal/relay;
// DefaultHopTTL and ExpiryThreshold are loaded and validated but not read
// by any other package.
type RelayConfig struct {
	// DefaultHopTTL is a hop count for Standard headers a relay
	// originates. bitpack-relay originates no packets.
	DefaultHopTTL uint8 `koanf:"default_hop_ttl"`

	// ExpiryThreshold is an age at which a packet would be dropped
	// regardless of hop TTL. internal/relay always applies
	// header.ExpiryThresholdMinutes (24h) instead.
	ExpiryThreshold time.Duration `koanf:"expiry_threshold"`

	// DedupWindow is how long a seen message ID is remembered for
	// relay-loop suppression.
	DedupWindow time.Duration `koanf:"dedup_window"`
}

// CryptoConfig holds the default cryptographic envelope parameters.
type CryptoConfig struct {
	// DefaultKeyBits is an AES key size (128 or 256). It is loaded and
	// validated but not read by any other package.
	DefaultKeyBits int `koanf:"default_key_bits"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Relay: RelayConfig{
			DefaultHopTTL:   7,
			ExpiryThreshold: 24 * time.Hour,
			DedupWindow:     5 * time.Minute,
		},
		Crypto: CryptoConfig{
			DefaultKeyBits: 128,
		},
	}
}

// envPrefix is the environment variable prefix for bitpack-relay configuration.
// Variables are named BITPACK_<section>_<key>, e.g., BITPACK_METRICS_ADDR.
const envPrefix = "BITPACK_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (BITPACK_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults. A path of "" skips the
// file provider and loads defaults plus environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms BITPACK_METRICS_ADDR -> metrics.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr":            defaults.Metrics.Addr,
		"metrics.path":            defaults.Metrics.Path,
		"log.level":               defaults.Log.Level,
		"log.format":              defaults.Log.Format,
		"relay.default_hop_ttl":   defaults.Relay.DefaultHopTTL,
		"relay.expiry_threshold":  defaults.Relay.ExpiryThreshold.String(),
		"relay.dedup_window":      defaults.Relay.DedupWindow.String(),
		"crypto.default_key_bits": defaults.Crypto.DefaultKeyBits,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// Validation errors.
var (
	ErrEmptyMetricsAddr   = errors.New("metrics.addr must not be empty")
	ErrInvalidHopTTL      = errors.New("relay.default_hop_ttl must be between 1 and 255")
	ErrInvalidExpiry      = errors.New("relay.expiry_threshold must be > 0")
	ErrInvalidDedupWindow = errors.New("relay.dedup_window must be > 0")
	ErrInvalidKeyBits     = errors.New("crypto.default_key_bits must be 128 or 256")
)

// Validate checks the configuration for logical errors. Returns the first
// validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Metrics.Addr == "" {
		return ErrEmptyMetricsAddr
	}
	if cfg.Relay.DefaultHopTTL < 1 {
		return ErrInvalidHopTTL
	}
	if cfg.Relay.ExpiryThreshold <= 0 {
		return ErrInvalidExpiry
	}
	if cfg.Relay.DedupWindow <= 0 {
		return ErrInvalidDedupWindow
	}
	if cfg.Crypto.DefaultKeyBits != 128 && cfg.Crypto.DefaultKeyBits != 256 {
		return ErrInvalidKeyBits
	}
	return nil
}

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
