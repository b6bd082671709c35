package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/api/response"
	envconfig "github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

type MCPRequestHandler struct {
	mcpService *mcp.Service
	logger     *slog.Logger
	config     *envconfig.Config
}

// NewMCPRequestHandler creates a new MCP request handler
func NewMCPRequestHandler(
	mcpService *mcp.Service,
	logger *slog.Logger,
	config *envconfig.Config,
) *MCPRequestHandler {
	return &MCPRequestHandler{
		mcpService: mcpService,
		logger:     logger,
		config:     config,
	}
}

func (h *MCPRequestHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Handle CORS preflight
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    h.getCORSHeaders(),
		}, nil
	}

	if h.config.Environment == "dev" {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		h.logger.Debug("Request Details",
			"path", request.Path,
			"method", request.HTTPMethod,
			"body", request.Body,
			"requestId", request.RequestContext.RequestID,
			"sourceIP", request.RequestContext.Identity.SourceIP,
			"memoryMB", m.Alloc/1024/1024,
		)
	}

	if request.Path == "/" && request.HTTPMethod != http.MethodPost {
		return h.jsonRPCMethodNotAllowedError(), nil
	}

	// MCP servers handle JSON-RPC requests on the root path
	if request.Path != "/" {
		return response.NotFound("Endpoint not found"), nil
	}

	var jsonRPCRequest mcp.JSONRPCRequest
	if err := json.Unmarshal([]byte(request.Body), &jsonRPCRequest); err != nil {
		h.logger.Error("Failed to parse JSON-RPC request", "error", err)
		return h.jsonRPCErrorResponse(mcp.ParseError, "Parse error", err.Error()), nil
	}

	httpResponse := h.mcpService.HandleRequest(ctx, jsonRPCRequest)

	responseBody, err := json.Marshal(httpResponse.JSONRPCResponse)
	if err != nil {
		h.logger.Error("Failed to marshal JSON-RPC response", "error", err)
		return h.jsonRPCErrorResponse(mcp.InternalError, "Internal error", "Failed to marshal response"), nil
	}

	h.logger.Debug("Response Details", "method", jsonRPCRequest.Method, "statusCode", httpResponse.StatusCode)

	return events.APIGatewayProxyResponse{
		StatusCode: httpResponse.StatusCode,
		Headers:    h.getCORSHeaders(),
		Body:       string(responseBody),
	}, nil
}

func (h *MCPRequestHandler) getCORSHeaders() map[string]string {
	headers := make(map[string]string)
	headers["Content-Type"] = "application/json"
	headers["Access-Control-Allow-Origin"] = "*"
	headers["Access-Control-Allow-Methods"] = "POST, OPTIONS"
	headers["Access-Control-Allow-Headers"] = "Content-Type"
	return headers
}

func (h *MCPRequestHandler) jsonRPCErrorResponse(code int, message string, data string) events.APIGatewayProxyResponse {
	errorResponse := mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		Error: &mcp.JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	body, _ := json.Marshal(errorResponse)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK, // JSON-RPC errors still return 200
		Headers:    h.getCORSHeaders(),
		Body:       string(body),
	}
}

func (h *MCPRequestHandler) jsonRPCMethodNotAllowedError() events.APIGatewayProxyResponse {
	errorResponse := mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		Error: &mcp.JSONRPCError{
			Code:    mcp.MethodNotAllowed,
			Message: "Method Not Allowed",
		},
	}

	body, _ := json.Marshal(errorResponse)
	headers := h.getCORSHeaders()
	headers["Allow"] = "POST"
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusMethodNotAllowed,
		Headers:    headers,
		Body:       string(body),
	}
}
