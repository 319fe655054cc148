// Package metric exposes nftsnap metrics in Prometheus format.
//
// Collectors live in a private registry so tests can create as many as
// they like. The optional HTTP endpoint serves /metrics via promhttp.
package metric
