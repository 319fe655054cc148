// Package config defines the nftsnap configuration structure.
//
// Values come from the YAML file, NFTSNAP_* environment variables and
// command-line flags, in increasing priority, on top of Default().
package config
