package http

import (
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// handlerLogger prefers the request-scoped logger installed by the logging
// middleware and annotates it with the handler, operation, and any
// principal or session identifier already resolved for this request.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	pairs := []any{"handler", handlerName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if principal, ok := PrincipalFromContext(ctx); ok {
		pairs = append(pairs, "user_id", principal.UserID)
	}
	if sessionID, ok := SessionIDFromContext(ctx); ok {
		pairs = append(pairs, "session_id", sessionID)
	}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}
