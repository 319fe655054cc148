// Package tlsroots builds trust pools and HTTP clients for HTTPS providers.
//
// A pool starts from the system roots and can be extended with PEM
// bundles, which is how self-hosted toncenter instances behind a private
// CA are reached.
package tlsroots
