package config

import (
	"strconv"
	"strings"
)

// Sanitize returns a copy of the config with secrets masked, for display
// and logging.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg

	if sanitized.Network.Key != "" {
		sanitized.Network.Key = maskSecret(sanitized.Network.Key)
	}
	if sanitized.Wallet.Mnemonic != "" {
		n := len(strings.Fields(sanitized.Wallet.Mnemonic))
		sanitized.Wallet.Mnemonic = "[" + strconv.Itoa(n) + " words]"
	}
	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
