package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose values are always redacted.
var sensitiveKeyPatterns = []string{
	"mnemonic",
	"seed",
	"secret",
	"password",
	"key",
	"token",
}

// Mnemonics have 12, 18 or 24 words; anything this long made only of
// lowercase words is treated as one.
const minMnemonicWords = 12

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if IsSensitiveKey(a.Key) || IsSensitiveValue(v) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindAny:
		// []string mnemonics are logged as Any.
		if words, ok := a.Value.Any().([]string); ok && (IsSensitiveKey(a.Key) || looksLikeMnemonic(words)) {
			return slog.String(a.Key, redactedValue)
		}
	}
	return a
}

// RedactString masks value if it looks like a mnemonic, otherwise keeps
// the first and last three characters of values longer than eight.
func RedactString(value string) string {
	if IsSensitiveValue(value) {
		return redactedValue
	}
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value looks like a wallet mnemonic.
func IsSensitiveValue(value string) bool {
	return looksLikeMnemonic(strings.Fields(value))
}

func looksLikeMnemonic(words []string) bool {
	if len(words) < minMnemonicWords {
		return false
	}
	for _, w := range words {
		if w == "" {
			return false
		}
		for _, r := range w {
			if r < 'a' || r > 'z' {
				return false
			}
		}
	}
	return true
}
