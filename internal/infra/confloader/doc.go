// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (NFTSNAP_ prefix)
//  3. Configuration file (YAML)
//  4. Default values
//
// Keys are dot separated. Environment variables map "_" to ".", so
// NFTSNAP_SNAPSHOT_DIR sets snapshot.dir. Key segments therefore never
// contain underscores.
package confloader
