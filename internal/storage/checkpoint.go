package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

const checkpointPrefix = "checkpoint:"

// CheckpointStore keeps one checkpoint per network and collection.
type CheckpointStore struct {
	kv  KVEngine
	now func() time.Time
}

// NewCheckpointStore creates a store on top of kv.
func NewCheckpointStore(kv KVEngine) *CheckpointStore {
	return &CheckpointStore{kv: kv, now: time.Now}
}

func checkpointKey(network, collection string) []byte {
	return []byte(checkpointPrefix + network + ":" + collection)
}

// Load returns the checkpoint for network and collection, or nil if none
// exists.
func (s *CheckpointStore) Load(ctx context.Context, network, collection string) (*domain.Checkpoint, error) {
	raw, err := s.kv.Get(ctx, checkpointKey(network, collection))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrCheckpoint.WithDetails("load").WithCause(err)
	}

	var cp domain.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, domain.ErrCheckpoint.WithDetails("decode").WithCause(err)
	}
	return &cp, nil
}

// Save stores cp, replacing any previous checkpoint for the same key.
func (s *CheckpointStore) Save(ctx context.Context, cp *domain.Checkpoint) error {
	if cp.Network == "" || cp.Collection == "" {
		return domain.ErrCheckpoint.WithDetails("network and collection are required")
	}

	cp.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(cp)
	if err != nil {
		return domain.ErrCheckpoint.WithDetails("encode").WithCause(err)
	}
	if err := s.kv.Set(ctx, checkpointKey(cp.Network, cp.Collection), raw); err != nil {
		return domain.ErrCheckpoint.WithDetails("save").WithCause(err)
	}
	return nil
}

// Clear removes the checkpoint for network and collection.
func (s *CheckpointStore) Clear(ctx context.Context, network, collection string) error {
	if err := s.kv.Delete(ctx, checkpointKey(network, collection)); err != nil {
		return domain.ErrCheckpoint.WithDetails("clear").WithCause(err)
	}
	return nil
}

// List returns every stored checkpoint in key order.
func (s *CheckpointStore) List(ctx context.Context) ([]*domain.Checkpoint, error) {
	var (
		out     []*domain.Checkpoint
		decodeE error
	)
	err := s.kv.Scan(ctx, []byte(checkpointPrefix), func(key, value []byte) bool {
		var cp domain.Checkpoint
		if err := json.Unmarshal(value, &cp); err != nil {
			decodeE = fmt.Errorf("%s: %w", key, err)
			return false
		}
		out = append(out, &cp)
		return true
	})
	if err == nil {
		err = decodeE
	}
	if err != nil {
		return nil, domain.ErrCheckpoint.WithDetails("list").WithCause(err)
	}
	return out, nil
}
