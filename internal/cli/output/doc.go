// Package output renders command results and progress for nftsnap.
//
// Results are printed as an aligned table, JSON, or YAML. Long-running
// work reports through ProgressBar (item enumeration) and Spinner (waiting
// on the network).
package output
