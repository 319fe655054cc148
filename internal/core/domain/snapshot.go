package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spaolacci/murmur3"
)

// BlockShort identifies the masterchain block a snapshot was taken against.
type BlockShort struct {
	Seqno     int64  `json:"seqno"`
	Shard     string `json:"shard"`
	Workchain int32  `json:"workchain"`
}

// Royalty is the royalty fraction and payee of a collection.
type Royalty struct {
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
	Destination string `json:"destination"`
}

// NFTCollectionInfo is the static collection metadata captured at snapshot start.
type NFTCollectionInfo struct {
	Address   string  `json:"address"`
	ItemCount int64   `json:"itemCount"`
	Content   string  `json:"content"`
	Owner     string  `json:"owner"`
	Royalty   Royalty `json:"royalty"`
}

// NFTCollectionSnapshot is the ownership census of one collection.
type NFTCollectionSnapshot struct {
	AtBlock    BlockShort        `json:"atBlock"`
	Collection NFTCollectionInfo `json:"collection"`
	Owners     OwnerIndex        `json:"owners"`
}

// SnapshotFileName returns the output file name for a snapshot taken on
// network at block seqno.
func SnapshotFileName(network string, seqno int64) string {
	return fmt.Sprintf("snapshot-%s-%d.json", network, seqno)
}

// Fingerprint returns a murmur3-128 digest of the collection info and owner
// index. AtBlock is excluded, so two runs over the same chain state yield the
// same fingerprint.
func (s *NFTCollectionSnapshot) Fingerprint() string {
	h := murmur3.New128()
	enc := json.NewEncoder(h)
	// Encoding into a hash cannot fail for these types.
	_ = enc.Encode(s.Collection)
	_ = enc.Encode(s.Owners)
	h1, h2 := h.Sum128()
	return fmt.Sprintf("%016x%016x", h1, h2)
}

// SnapshotFile describes a written snapshot file.
type SnapshotFile struct {
	Network     string `json:"network"`
	Seqno       int64  `json:"seqno"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Owners      int    `json:"owners,omitempty"`
	Items       int    `json:"items,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Checkpoint is the persisted state of an interrupted enumeration.
//
// NextIndex is the first item index that has not been fully processed.
// Snapshot holds the header captured by the interrupted run and the owners
// accumulated for indices below NextIndex.
type Checkpoint struct {
	Network    string                `json:"network"`
	Collection string                `json:"collection"`
	NextIndex  int64                 `json:"nextIndex"`
	Snapshot   NFTCollectionSnapshot `json:"snapshot"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// Done reports whether every item below the frozen item count was processed.
func (c *Checkpoint) Done() bool {
	return c.NextIndex >= c.Snapshot.Collection.ItemCount
}
