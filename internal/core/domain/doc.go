// Package domain defines the core domain models for nftsnap.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - BlockShort, Royalty, NFTCollectionInfo: snapshot header data
//   - OwnerIndex, NFTOwnerStat: per-owner aggregation in first-seen order
//   - NFTCollectionSnapshot: the artifact written to disk
//   - Checkpoint: partial state of an interrupted enumeration
//   - Errors: structured error codes shared by all layers
package domain
