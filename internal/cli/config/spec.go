package config

import "time"

// Config is the root configuration for nftsnap.
type Config struct {
	Network    NetworkSection    `koanf:"network" yaml:"network" json:"network"`
	Collection CollectionSection `koanf:"collection" yaml:"collection" json:"collection"`
	Snapshot   SnapshotSection   `koanf:"snapshot" yaml:"snapshot" json:"snapshot"`
	Checkpoint CheckpointSection `koanf:"checkpoint" yaml:"checkpoint" json:"checkpoint"`
	Wallet     WalletSection     `koanf:"wallet" yaml:"wallet" json:"wallet"`
	Log        LogSection        `koanf:"log" yaml:"log" json:"log"`
	Metrics    MetricsSection    `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// NetworkSection selects the network and how it is reached.
type NetworkSection struct {
	// Name is mainnet or testnet. It also names the snapshot file.
	Name string `koanf:"name" yaml:"name" json:"name"`

	// Provider is toncenter or liteserver.
	Provider string `koanf:"provider" yaml:"provider" json:"provider"`

	// Endpoint is the toncenter JSON-RPC URL. Empty selects the public
	// endpoint of the network.
	Endpoint string `koanf:"endpoint" yaml:"endpoint" json:"endpoint"`

	// Key is the toncenter API key.
	Key string `koanf:"key" yaml:"key" json:"key"`

	// Config is the liteserver global config URL. Empty selects the
	// public config of the network.
	Config string `koanf:"config" yaml:"config" json:"config"`

	// CAFile is an extra PEM bundle trusted for the toncenter endpoint.
	CAFile string `koanf:"cafile" yaml:"cafile" json:"cafile"`

	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
}

// CollectionSection names the collection to operate on.
type CollectionSection struct {
	Address string `koanf:"address" yaml:"address" json:"address"`
}

// SnapshotSection configures the snapshot run.
type SnapshotSection struct {
	Dir string `koanf:"dir" yaml:"dir" json:"dir"`

	// Delay is the pause after every item index. Ignored when Rate > 0.
	Delay time.Duration `koanf:"delay" yaml:"delay" json:"delay"`

	// Rate is the item indices per second allowed by a token bucket.
	Rate  float64 `koanf:"rate" yaml:"rate" json:"rate"`
	Burst int     `koanf:"burst" yaml:"burst" json:"burst"`

	// Retain keeps the newest N snapshot files per network. Zero keeps all.
	Retain int `koanf:"retain" yaml:"retain" json:"retain"`
}

// CheckpointSection configures resumable runs.
type CheckpointSection struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" yaml:"dir" json:"dir"`

	// Interval is the number of processed indices between saves.
	Interval int `koanf:"interval" yaml:"interval" json:"interval"`
}

// WalletSection configures the wallet used by sending commands.
type WalletSection struct {
	Mnemonic string `koanf:"mnemonic" yaml:"mnemonic" json:"mnemonic"`
	Version  string `koanf:"version" yaml:"version" json:"version"`

	// Wait blocks each send until the wallet transaction is on chain.
	Wait bool `koanf:"wait" yaml:"wait" json:"wait"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures the Prometheus endpoint. An empty Addr
// disables it.
type MetricsSection struct {
	Addr string `koanf:"addr" yaml:"addr" json:"addr"`
}
