package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	spotly "github.com/spotly/spotly-go"
)

// Logging creates an interceptor that logs outgoing API calls using slog.
// It logs the start and end of each call, including duration and
// transport status.
func Logging(logger *slog.Logger) spotly.CallInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, req *http.Request, next spotly.CallFunc) (*http.Response, error) {
		operation := ""
		if info, ok := spotly.CallInfoFromContext(ctx); ok {
			operation = info.Operation
		}

		start := time.Now()

		logger.InfoContext(ctx, "call started",
			slog.String("operation", operation),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)

		resp, err := next(ctx, req)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "call failed",
				slog.String("operation", operation),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "call completed",
				slog.String("operation", operation),
				slog.Duration("duration", duration),
				slog.Int("status", resp.StatusCode),
			)
		}

		return resp, err
	}
}
