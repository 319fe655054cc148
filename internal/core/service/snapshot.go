package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/contract/nft"
	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/telemetry/logger"
	"github.com/yndnr/nftsnap/internal/telemetry/metric"
)

// CheckpointStore persists the state of interrupted runs.
type CheckpointStore interface {
	// Load returns nil, nil when no checkpoint exists.
	Load(ctx context.Context, network, collection string) (*domain.Checkpoint, error)
	Save(ctx context.Context, cp *domain.Checkpoint) error
	Clear(ctx context.Context, network, collection string) error
}

// SnapshotWriter persists a finished snapshot.
type SnapshotWriter interface {
	Write(network string, s *domain.NFTCollectionSnapshot) (*domain.SnapshotFile, error)
}

// ProgressFunc is called after each visited index with the number of
// processed indices and the total.
type ProgressFunc func(done, total int64)

// Option configures a Snapshotter.
type Option func(*Snapshotter)

// WithPacer replaces the default 250ms fixed delay.
func WithPacer(p Pacer) Option {
	return func(s *Snapshotter) {
		s.pacer = p
	}
}

// WithCheckpoints enables checkpointing every interval processed indices
// and on abort. An interval of zero saves on abort only.
func WithCheckpoints(store CheckpointStore, interval int) Option {
	return func(s *Snapshotter) {
		s.checkpoints = store
		s.interval = interval
	}
}

// WithMetrics records visit outcomes and snapshot totals.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Snapshotter) {
		s.metrics = m
	}
}

// WithLogger sets the logger. Defaults to the context logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Snapshotter) {
		s.logger = l
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Snapshotter) {
		s.progress = fn
	}
}

// Snapshotter produces ownership snapshots of NFT collections.
type Snapshotter struct {
	client      chain.Client
	writer      SnapshotWriter
	pacer       Pacer
	checkpoints CheckpointStore
	interval    int
	metrics     *metric.Registry
	logger      logger.Logger
	progress    ProgressFunc
}

// NewSnapshotter creates a Snapshotter reading through client and writing
// through writer.
func NewSnapshotter(client chain.Client, writer SnapshotWriter, opts ...Option) *Snapshotter {
	s := &Snapshotter{
		client: client,
		writer: writer,
		pacer:  FixedDelay{Delay: DefaultDelay},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SnapshotRequest identifies the collection to walk.
type SnapshotRequest struct {
	Network    string
	Collection *address.Address
	// Resume continues from a stored checkpoint when one exists.
	Resume bool
}

// SnapshotResult is the outcome of a completed run.
type SnapshotResult struct {
	Snapshot  *domain.NFTCollectionSnapshot
	File      *domain.SnapshotFile
	Resumed   bool
	FromIndex int64
	Elapsed   time.Duration
}

// run holds the state of one enumeration.
type run struct {
	req        SnapshotRequest
	collection *nft.Collection
	key        string
	snap       *domain.NFTCollectionSnapshot
	next       int64
	log        logger.Logger
}

// Run walks every item of the collection and writes the snapshot.
//
// The item count is read once and never refreshed. Failures to resolve
// the block, read collection data or royalty params, or derive an item
// address abort the run and no snapshot file is written. Unreadable item
// data counts as not initialized.
func (s *Snapshotter) Run(ctx context.Context, req SnapshotRequest) (*SnapshotResult, error) {
	if req.Collection == nil {
		return nil, domain.ErrCollectionAddressMissing
	}
	started := time.Now()

	log := s.logger
	if log == nil {
		log = logger.L(ctx)
	}

	r := &run{
		req:        req,
		collection: nft.NewCollection(s.client, req.Collection),
		key:        chain.FormatAddress(req.Collection),
		log:        log.With("network", req.Network, "collection", chain.FormatAddress(req.Collection)),
	}

	resumed, err := s.restore(ctx, r)
	if err != nil {
		return nil, err
	}
	if !resumed {
		if err := s.begin(ctx, r); err != nil {
			return nil, err
		}
	}
	from := r.next

	if err := s.enumerate(ctx, r); err != nil {
		return nil, err
	}

	file, err := s.writer.Write(req.Network, r.snap)
	if err != nil {
		s.saveCheckpoint(ctx, r)
		return nil, err
	}

	if s.checkpoints != nil {
		if err := s.checkpoints.Clear(ctx, req.Network, r.key); err != nil {
			r.log.Warn("clear checkpoint failed", "error", err)
		}
	}
	s.metrics.SnapshotWritten(r.snap.Owners.Len(), r.snap.Owners.ItemCount(), r.snap.AtBlock.Seqno)

	r.log.Info("snapshot written",
		"path", file.Path,
		"seqno", r.snap.AtBlock.Seqno,
		"items", r.snap.Collection.ItemCount,
		"owners", r.snap.Owners.Len(),
		"owned_items", r.snap.Owners.ItemCount(),
		"fingerprint", file.Fingerprint)

	return &SnapshotResult{
		Snapshot:  r.snap,
		File:      file,
		Resumed:   resumed,
		FromIndex: from,
		Elapsed:   time.Since(started),
	}, nil
}

// restore loads a matching checkpoint into r when resuming.
func (s *Snapshotter) restore(ctx context.Context, r *run) (bool, error) {
	if !r.req.Resume || s.checkpoints == nil {
		return false, nil
	}

	cp, err := s.checkpoints.Load(ctx, r.req.Network, r.key)
	if err != nil {
		return false, err
	}
	if cp == nil {
		r.log.Info("no checkpoint found, starting from index 0")
		return false, nil
	}
	if cp.Snapshot.Collection.Address != r.key || cp.NextIndex < 0 {
		r.log.Warn("ignoring checkpoint for a different collection", "checkpoint_collection", cp.Snapshot.Collection.Address)
		return false, nil
	}

	snap := cp.Snapshot
	r.snap = &snap
	r.next = cp.NextIndex
	r.log.Info("resuming from checkpoint",
		"next_index", cp.NextIndex,
		"items", snap.Collection.ItemCount,
		"seqno", snap.AtBlock.Seqno,
		"saved_at", cp.UpdatedAt)
	return true, nil
}

// begin captures the block and collection header.
func (s *Snapshotter) begin(ctx context.Context, r *run) error {
	block, err := s.client.LastBlock(ctx)
	if err != nil {
		return domain.ErrLastBlock.WithCause(err)
	}

	data, err := r.collection.GetCollectionData(ctx)
	if err != nil {
		return domain.ErrCollectionRead.WithDetails(nft.MethodGetCollectionData).WithCause(err)
	}
	royalty, err := r.collection.GetRoyaltyParams(ctx)
	if err != nil {
		return domain.ErrCollectionRead.WithDetails(nft.MethodRoyaltyParams).WithCause(err)
	}

	r.snap = &domain.NFTCollectionSnapshot{
		AtBlock: *block,
		Collection: domain.NFTCollectionInfo{
			Address:   r.key,
			ItemCount: data.NextItemIndex,
			Content:   nft.DecodeContent(data.Content),
			Owner:     chain.FormatAddress(data.Owner),
			Royalty: domain.Royalty{
				Numerator:   int(royalty.Numerator),
				Denominator: int(royalty.Denominator),
				Destination: chain.FormatAddress(royalty.Destination),
			},
		},
		Owners: domain.NewOwnerIndex(),
	}

	r.log.Info("snapshot started",
		"seqno", block.Seqno,
		"items", data.NextItemIndex,
		"content", r.snap.Collection.Content)
	return nil
}

// enumerate visits indices [r.next, itemCount) in order.
func (s *Snapshotter) enumerate(ctx context.Context, r *run) error {
	total := r.snap.Collection.ItemCount
	processed := 0

	for r.next < total {
		if err := ctx.Err(); err != nil {
			return s.interrupted(ctx, r, err)
		}
		i := r.next

		itemAddr, err := r.collection.GetAddress(ctx, i)
		if err != nil {
			if ctx.Err() != nil {
				return s.interrupted(ctx, r, ctx.Err())
			}
			s.saveCheckpoint(ctx, r)
			return domain.ErrItemAddress.WithDetails(fmt.Sprintf("index %d", i)).WithCause(err)
		}
		itemKey := chain.FormatAddress(itemAddr)
		r.log.Info("item", "index", i, "address", itemKey)

		data, err := r.collection.Item(itemAddr).ReadData(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return s.interrupted(ctx, r, ctx.Err())
			}
			r.log.Debug("item data unavailable, treating as not initialized", "index", i, "error", err)
			data = nft.EmptyItemData()
		}

		status := metric.StatusSkipped
		if data.Init {
			if r.snap.Owners.Add(chain.FormatAddress(data.Owner), itemKey) {
				status = metric.StatusOwned
			} else {
				r.log.Warn("item address returned twice, ignoring", "index", i, "address", itemKey)
			}
		}
		s.metrics.ItemVisited(status)

		r.next = i + 1
		processed++
		if s.progress != nil {
			s.progress(r.next, total)
		}
		if s.interval > 0 && processed%s.interval == 0 {
			s.saveCheckpoint(ctx, r)
		}

		if err := s.pacer.Wait(ctx); err != nil {
			return s.interrupted(ctx, r, err)
		}
	}
	return nil
}

func (s *Snapshotter) interrupted(ctx context.Context, r *run, cause error) error {
	s.saveCheckpoint(ctx, r)
	r.log.Warn("snapshot interrupted", "next_index", r.next, "items", r.snap.Collection.ItemCount)
	return domain.ErrInterrupted.WithDetails(fmt.Sprintf("stopped at index %d", r.next)).WithCause(cause)
}

// saveCheckpoint stores progress. It runs detached from ctx so an
// interrupted run can still record where it stopped.
func (s *Snapshotter) saveCheckpoint(ctx context.Context, r *run) {
	if s.checkpoints == nil || r.snap == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	cp := &domain.Checkpoint{
		Network:    r.req.Network,
		Collection: r.key,
		NextIndex:  r.next,
		Snapshot:   *r.snap,
	}
	cp.Snapshot.Owners = r.snap.Owners.Clone()

	if err := s.checkpoints.Save(saveCtx, cp); err != nil {
		r.log.Warn("save checkpoint failed", "next_index", r.next, "error", err)
		return
	}
	r.log.Debug("checkpoint saved", "next_index", r.next)
}

// IsInterrupted reports whether err ended a run early because its
// context was cancelled.
func IsInterrupted(err error) bool {
	return errors.Is(err, domain.ErrInterrupted)
}
