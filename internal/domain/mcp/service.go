package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"
)

// HTTPResponse encapsulates both JSON-RPC response and HTTP status code
type HTTPResponse struct {
	JSONRPCResponse JSONRPCResponse
	StatusCode      int
}

// NewSuccessHTTPResponse creates a successful HTTP response with JSON-RPC result
func NewSuccessHTTPResponse(id json.RawMessage, result interface{}, statusCode int) HTTPResponse {
	return HTTPResponse{
		JSONRPCResponse: JSONRPCResponse{
			JSONRPC: jsonRPCVersion,
			ID:      id,
			Result:  result,
		},
		StatusCode: statusCode,
	}
}

// NewErrorHTTPResponse creates an error HTTP response with JSON-RPC error
func NewErrorHTTPResponse(id json.RawMessage, code int, message string, data interface{}, statusCode int) HTTPResponse {
	return HTTPResponse{
		JSONRPCResponse: JSONRPCResponse{
			JSONRPC: jsonRPCVersion,
			ID:      id,
			Error: &JSONRPCError{
				Code:    code,
				Message: message,
				Data:    data,
			},
		},
		StatusCode: statusCode,
	}
}

// DefaultServerInfo identifies this server to MCP clients
var DefaultServerInfo = ServerInfo{
	Name:    "ledger-balance-mcp-server",
	Title:   "Ledger balance reports over MCP.",
	Version: "1.0.0",
}

// Service handles MCP protocol operations
type Service struct {
	logger     *slog.Logger
	serverInfo ServerInfo
	registry   *HandlerRegistry
}

// NewService creates a new MCP service
func NewService(logger *slog.Logger, registry *HandlerRegistry) *Service {
	return &Service{
		logger:     logger,
		serverInfo: DefaultServerInfo,
		registry:   registry,
	}
}

// HandleRequest processes a JSON-RPC request
func (s *Service) HandleRequest(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	s.logger.Info("MCP request received", "method", request.Method)

	switch request.Method {
	case "initialize":
		return s.handleInitialize(ctx, request)
	case "initialized", "ping":
		return NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusOK)
	case "notifications/initialized":
		return NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusAccepted)
	case "resources/list":
		return NewSuccessHTTPResponse(request.ID, ListResourcesResult{Resources: s.registry.ListResources()}, http.StatusOK)
	case "resources/templates/list":
		return NewSuccessHTTPResponse(request.ID, ListResourceTemplatesResult{ResourceTemplates: s.registry.ListResourceTemplates()}, http.StatusOK)
	case "resources/read":
		return s.handleReadResource(ctx, request)
	case "tools/list":
		return NewSuccessHTTPResponse(request.ID, ListToolsResult{Tools: s.registry.ListTools()}, http.StatusOK)
	case "tools/call":
		return s.handleCallTool(ctx, request)
	default:
		return NewErrorHTTPResponse(request.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", request.Method), nil, http.StatusOK)
	}
}

func (s *Service) handleInitialize(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params InitializeParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid initialize params", err.Error(), http.StatusOK)
	}
	s.logger.Info("MCP client connected", "client", params.ClientInfo.Name, "clientVersion", params.ClientInfo.Version)

	result := InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapability{
			Resources: ResourcesCapability{ListChanged: true},
			Tools:     ToolsCapability{ListChanged: true},
		},
		Instructions: "Use this MCP server to record accounts and journal entries in a book and to " +
			"compute balance reports over an account range and a period range. Leave a bound empty " +
			"to take it from the ledger.",
		ServerInfo: s.serverInfo,
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

func (s *Service) handleReadResource(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params ReadResourceParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid read resource params", err.Error(), http.StatusOK)
	}

	handler, err := s.registry.GetResource(params.URI)
	if err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, fmt.Sprintf("Resource not found: %s", params.URI), err.Error(), http.StatusOK)
	}

	result, err := handler.Read(ctx)
	if err != nil {
		appErr := apperrors.As(err)
		if appErr.StatusCode < 500 {
			return NewErrorHTTPResponse(request.ID, InvalidParams, appErr.Message, appErr.Code, http.StatusOK)
		}
		s.logger.Error("Failed to read resource", "uri", params.URI, "error", err)
		return NewErrorHTTPResponse(request.ID, InternalError, "Failed to read resource", appErr.Message, http.StatusOK)
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

func (s *Service) handleCallTool(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params CallToolParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid call tool params", err.Error(), http.StatusOK)
	}

	handler, ok := s.registry.GetTool(params.Name)
	if !ok {
		return NewErrorHTTPResponse(request.ID, InvalidParams, fmt.Sprintf("Tool not found: %s", params.Name), nil, http.StatusOK)
	}

	result, err := handler.Execute(ctx, params.Arguments)
	if err != nil {
		s.logger.Error("Failed to execute tool", "tool", params.Name, "error", err)
		result = ErrorResult(err)
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

// TextResult wraps text in a successful tool result
func TextResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []ToolResultContent{{Type: "text", Text: text}},
	}
}

// ErrorResult reports err to the client as a failed tool call. Application errors
// show their message and details; anything else is reported generically.
func ErrorResult(err error) *CallToolResult {
	text := "internal error"
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		text = fmt.Sprintf("%s: %s", appErr.Code, appErr.Message)
		if len(appErr.Details) > 0 {
			if details, err := json.Marshal(appErr.Details); err == nil {
				text += " " + string(details)
			}
		}
	}
	return &CallToolResult{
		Content: []ToolResultContent{{Type: "text", Text: text}},
		IsError: true,
	}
}
