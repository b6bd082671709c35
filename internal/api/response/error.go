package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error creates an error response
func Error(appErr errors.AppError, requestID string) events.APIGatewayProxyResponse {
	resp := ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		ErrorDescription: ErrorDescription{
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Metadata: newMetadata(requestID),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal error response"}}`,
			Headers:    DefaultHeaders(),
		}
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    DefaultHeaders(),
	}
}

// FromError creates an error response for any error. Errors that are not AppErrors
// are reported as internal errors without exposing their text.
func FromError(err error, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.As(err), requestID)
}

// ValidationError creates a validation error response
func ValidationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}

// NotFound creates a not found error response
func NotFound(message string) events.APIGatewayProxyResponse {
	return Error(errors.NewNotFoundError(message), "")
}

// MethodNotAllowed creates a 405 response listing the allowed methods
func MethodNotAllowed(allow string, requestID string) events.APIGatewayProxyResponse {
	resp := Error(errors.AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}, requestID)
	resp.Headers["Allow"] = allow
	return resp
}

// BookError creates a response for a request without a usable book id
func BookError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewBookError(message), requestID)
}
