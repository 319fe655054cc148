// Package logger provides structured logging for nftsnap.
//
//   - logger.go: slog-backed Logger with a process-wide dynamic level
//   - context.go: run id propagation and context-bound loggers
//   - redact.go: masking of wallet mnemonics and API keys
package logger
