package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// maxLoggedBody caps how much of a response body is logged. Reports can be large.
const maxLoggedBody = 2048

// LoggingMiddleware is a middleware for logging requests and responses
type LoggingMiddleware struct{}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware() LoggingMiddleware {
	return LoggingMiddleware{}
}

// Handle handles the logging middleware
func (m LoggingMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		startTime := time.Now()
		logger = logger.With("requestId", request.RequestContext.RequestID)

		logger.Info("REQUEST",
			"method", request.HTTPMethod,
			"path", request.Path,
			"pathParameters", request.PathParameters,
			"queryParameters", request.QueryStringParameters,
			"headers", maskSensitiveHeaders(request.Headers),
		)

		resp, err := next(ctx, logger, request)

		attrs := []any{
			"status", resp.StatusCode,
			"duration", time.Since(startTime),
			"contentType", resp.Headers["Content-Type"],
			"body", truncate(resp.Body, maxLoggedBody),
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		logger.Info("RESPONSE", attrs...)

		return resp, err
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// maskSensitiveHeaders masks sensitive headers
func maskSensitiveHeaders(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for k, v := range headers {
		masked[k] = v
	}
	for _, header := range []string{"Authorization", "X-Api-Key", "Cookie"} {
		if _, ok := masked[header]; ok {
			masked[header] = "***"
		}
	}
	return masked
}
