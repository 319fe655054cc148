// Package storage persists snapshot run state.
//
// A Badger database holds checkpoints of interrupted runs so a long
// enumeration can resume where it stopped. Snapshot output files are
// handled by the snapshot subpackage.
package storage
