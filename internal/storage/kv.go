package storage

import "context"

// KVEngine is an embedded key-value store.
type KVEngine interface {
	// Get returns ErrKeyNotFound if key does not exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	Set(ctx context.Context, key, value []byte) error

	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC reclaims value log space. Returns bytes reclaimed (approximate).
	GC(ctx context.Context) (uint64, error)

	Stats(ctx context.Context) (*KVStats, error)

	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	TotalSize    uint64
	LSMSize      uint64
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime       int64
	GCBytesReclaimed uint64
}

// KVConfig configures the embedded KV engine.
type KVConfig struct {
	// Dir is the storage directory.
	Dir string

	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs.
	GCInterval string

	// GCThreshold is the discard ratio passed to RunValueLogGC (0.0-1.0).
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	ValueLogFileSize int64

	// SyncWrites fsyncs after each write.
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns settings sized for a few small checkpoint
// records written many times.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        8 << 20,  // 8MB
		ValueLogFileSize: 64 << 20, // 64MB
		SyncWrites:       true,
	}
}
