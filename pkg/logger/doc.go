// Package logger builds configured log/slog loggers with a consistent
// format, level and static attribute set, plus optional context
// extractors that inject request-scoped values (request id, session
// token) into every record.
package logger
