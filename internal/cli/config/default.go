package config

import "time"

// Default configuration values.
const (
	DefaultNetwork  = "mainnet"
	DefaultProvider = ProviderToncenter
	DefaultTimeout  = 30 * time.Second

	DefaultSnapshotDir   = "."
	DefaultSnapshotDelay = 250 * time.Millisecond
	DefaultBurst         = 1

	DefaultCheckpointDir      = ".nftsnap"
	DefaultCheckpointInterval = 50

	DefaultWalletVersion = "v4r2"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Providers.
const (
	ProviderToncenter  = "toncenter"
	ProviderLiteserver = "liteserver"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Network: NetworkSection{
			Name:     DefaultNetwork,
			Provider: DefaultProvider,
			Timeout:  DefaultTimeout,
		},
		Snapshot: SnapshotSection{
			Dir:   DefaultSnapshotDir,
			Delay: DefaultSnapshotDelay,
			Burst: DefaultBurst,
		},
		Checkpoint: CheckpointSection{
			Enabled:  true,
			Dir:      DefaultCheckpointDir,
			Interval: DefaultCheckpointInterval,
		},
		Wallet: WalletSection{
			Version: DefaultWalletVersion,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
