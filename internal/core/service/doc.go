// Package service contains the collection snapshot procedure.
//
// Snapshotter walks every item index of a collection in ascending order,
// one network round trip at a time, and folds item owners into a
// domain.OwnerIndex. Storage and pacing are injected through small
// interfaces so tests can run without a network or delays.
package service
