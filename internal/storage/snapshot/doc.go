// Package snapshot reads and writes collection snapshot files.
//
// Files are named snapshot-<network>-<seqno>.json and hold one
// domain.NFTCollectionSnapshot as two-space indented JSON. Writes go
// through a temporary file and a rename, so readers never see a partial
// snapshot.
package snapshot
