package config

import (
	"fmt"
	"strings"

	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/telemetry/logger"
)

// Verify validates the configuration. The collection address is checked
// by the commands that need one.
func Verify(cfg *Config) error {
	checks := []func(*Config) error{
		verifyNetwork,
		verifySnapshot,
		verifyCheckpoint,
		verifyWallet,
		verifyLog,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return domain.ErrInvalidConfig.WithDetails(err.Error())
		}
	}
	return nil
}

func verifyNetwork(cfg *Config) error {
	switch cfg.Network.Name {
	case "mainnet", "testnet":
	default:
		return fmt.Errorf("network.name must be mainnet or testnet, got %q", cfg.Network.Name)
	}

	switch cfg.Network.Provider {
	case ProviderToncenter, ProviderLiteserver:
	default:
		return fmt.Errorf("network.provider must be %s or %s, got %q",
			ProviderToncenter, ProviderLiteserver, cfg.Network.Provider)
	}

	if cfg.Network.Endpoint != "" && !strings.HasPrefix(cfg.Network.Endpoint, "http://") &&
		!strings.HasPrefix(cfg.Network.Endpoint, "https://") {
		return fmt.Errorf("network.endpoint must be an http(s) URL")
	}
	if cfg.Network.Timeout <= 0 {
		return fmt.Errorf("network.timeout must be positive")
	}
	return nil
}

func verifySnapshot(cfg *Config) error {
	s := cfg.Snapshot
	if s.Dir == "" {
		return fmt.Errorf("snapshot.dir is required")
	}
	if s.Delay < 0 {
		return fmt.Errorf("snapshot.delay must not be negative")
	}
	if s.Rate < 0 {
		return fmt.Errorf("snapshot.rate must not be negative")
	}
	if s.Rate > 0 && s.Burst < 1 {
		return fmt.Errorf("snapshot.burst must be at least 1 when snapshot.rate is set")
	}
	if s.Retain < 0 {
		return fmt.Errorf("snapshot.retain must not be negative")
	}
	return nil
}

func verifyCheckpoint(cfg *Config) error {
	if !cfg.Checkpoint.Enabled {
		return nil
	}
	if cfg.Checkpoint.Dir == "" {
		return fmt.Errorf("checkpoint.dir is required when checkpoints are enabled")
	}
	if cfg.Checkpoint.Interval < 0 {
		return fmt.Errorf("checkpoint.interval must not be negative")
	}
	return nil
}

func verifyWallet(cfg *Config) error {
	switch cfg.Wallet.Version {
	case "v3r2", "v4r2":
		return nil
	default:
		return fmt.Errorf("wallet.version must be v3r2 or v4r2, got %q", cfg.Wallet.Version)
	}
}

func verifyLog(cfg *Config) error {
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Log.Format)
	}
}
