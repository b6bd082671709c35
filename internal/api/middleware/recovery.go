package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/api/response"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// RecoveryMiddleware turns panics and returned errors into JSON error responses
type RecoveryMiddleware struct{}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware() RecoveryMiddleware {
	return RecoveryMiddleware{}
}

// Handle handles the recovery middleware
func (m RecoveryMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		requestID := request.RequestContext.RequestID

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic while handling request",
					"panic", fmt.Sprint(r),
					"requestId", requestID,
					"stack", string(debug.Stack()),
				)
				resp = response.Error(errors.NewInternalError("an unexpected error occurred", nil), requestID)
				err = nil
			}
		}()

		resp, err = next(ctx, logger, request)
		if err != nil {
			appErr := errors.As(err)
			if appErr.StatusCode >= 500 {
				logger.Error("request failed", "code", appErr.Code, "error", appErr.Error(), "requestId", requestID)
			} else {
				logger.Warn("request rejected", "code", appErr.Code, "error", appErr.Error(), "requestId", requestID)
			}
			return response.Error(appErr, requestID), nil
		}
		return resp, nil
	}
}
