// Package buildinfo exposes version information for nftsnap.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/nftsnap/internal/infra/buildinfo.Version=v1.0.0"
//
// Commit and GoVersion fall back to the module build info embedded by the
// Go toolchain when they are not injected.
package buildinfo
