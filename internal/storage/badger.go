package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/nftsnap/internal/telemetry/logger"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// BadgerEngine implements KVEngine using Badger v3.
type BadgerEngine struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger logger.Logger
	closed atomic.Bool

	lastGCTime       atomic.Int64
	gcBytesReclaimed atomic.Uint64

	metricsTotalSize   prometheus.Gauge
	metricsGCReclaimed prometheus.Counter
	reportedReclaimed  atomic.Uint64

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerEngine opens (or creates) the database in cfg.Dir.
func NewBadgerEngine(cfg KVConfig, log logger.Logger) (*BadgerEngine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: log}
	opts.BlockCacheSize = cfg.Badger.CacheSize
	opts.ValueLogFileSize = cfg.Badger.ValueLogFileSize
	opts.SyncWrites = cfg.Badger.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	engine := &BadgerEngine{
		db:     db,
		cfg:    cfg.Badger,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go engine.gcLoop()

	log.Debug("badger engine started", "dir", cfg.Dir)
	return engine, nil
}

// Get retrieves a value by key.
func (e *BadgerEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (e *BadgerEngine) Set(ctx context.Context, key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key. Deleting a missing key is not an error.
func (e *BadgerEngine) Delete(ctx context.Context, key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Scan iterates over keys with a given prefix in key order.
func (e *BadgerEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.KeyCopy(nil), value) {
				break
			}
		}
		return nil
	})
}

// GC runs value log GC until nothing more can be rewritten.
func (e *BadgerEngine) GC(ctx context.Context) (uint64, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}

	var reclaimed uint64
	for {
		if err := ctx.Err(); err != nil {
			return reclaimed, err
		}
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return reclaimed, fmt.Errorf("gc: %w", err)
		}
		// Badger does not report the rewritten size; count one file.
		reclaimed += uint64(e.db.Opts().ValueLogFileSize)
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	e.gcBytesReclaimed.Add(reclaimed)
	return reclaimed, nil
}

// Stats returns storage statistics.
func (e *BadgerEngine) Stats(ctx context.Context) (*KVStats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := e.db.Size()
	return &KVStats{
		TotalSize:        uint64(lsm + vlog),
		LSMSize:          uint64(lsm),
		ValueLogSize:     uint64(vlog),
		LastGCTime:       e.lastGCTime.Load(),
		GCBytesReclaimed: e.gcBytesReclaimed.Load(),
	}, nil
}

// Close stops background work and closes the database. It is safe to
// call more than once.
func (e *BadgerEngine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(e.stopCh)
	<-e.doneCh

	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// RegisterMetrics registers storage size and GC metrics with registry.
// It returns the engine for method chaining.
func (e *BadgerEngine) RegisterMetrics(registry *prometheus.Registry) *BadgerEngine {
	if registry == nil {
		return e
	}

	e.metricsTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nftsnap",
		Subsystem: "checkpoint",
		Name:      "store_size_bytes",
		Help:      "Checkpoint store size in bytes (LSM + value log).",
	})
	e.metricsGCReclaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nftsnap",
		Subsystem: "checkpoint",
		Name:      "gc_bytes_reclaimed_total",
		Help:      "Approximate bytes reclaimed by checkpoint store GC.",
	})
	registry.MustRegister(e.metricsTotalSize, e.metricsGCReclaimed)

	e.refreshMetrics()
	return e
}

func (e *BadgerEngine) refreshMetrics() {
	if e.metricsTotalSize == nil {
		return
	}
	stats, err := e.Stats(context.Background())
	if err != nil {
		return
	}
	e.metricsTotalSize.Set(float64(stats.TotalSize))
	if prev := e.reportedReclaimed.Swap(stats.GCBytesReclaimed); stats.GCBytesReclaimed > prev {
		e.metricsGCReclaimed.Add(float64(stats.GCBytesReclaimed - prev))
	}
}

func (e *BadgerEngine) gcLoop() {
	defer close(e.doneCh)

	interval, err := time.ParseDuration(e.cfg.GCInterval)
	if err != nil || interval <= 0 {
		e.logger.Warn("invalid badger gc interval, using 10m", "value", e.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := e.GC(ctx); err != nil {
				e.logger.Warn("checkpoint store gc failed", "error", err)
			}
			cancel()
			e.refreshMetrics()
		case <-e.stopCh:
			return
		}
	}
}

// badgerLogger adapts Logger to Badger's Logger interface. Badger is
// chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
