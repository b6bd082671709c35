package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// Mock tool for testing
type mockTool struct {
	name        string
	description string
	schema      JSONSchema
	result      *CallToolResult
	err         error
}

func (m *mockTool) GetName() string            { return m.name }
func (m *mockTool) GetDescription() string     { return m.description }
func (m *mockTool) GetInputSchema() JSONSchema { return m.schema }
func (m *mockTool) Execute(ctx context.Context, arguments json.RawMessage) (*CallToolResult, error) {
	return m.result, m.err
}

// Mock resource for testing
type mockResource struct {
	uri      string
	name     string
	mimeType string
	result   *ReadResourceResult
	err      error
}

func (m *mockResource) GetURI() string         { return m.uri }
func (m *mockResource) GetName() string        { return m.name }
func (m *mockResource) GetDescription() string { return "" }
func (m *mockResource) GetMimeType() string    { return m.mimeType }
func (m *mockResource) Read(ctx context.Context) (*ReadResourceResult, error) {
	if m.result == nil && m.err == nil {
		return &ReadResourceResult{Contents: []ResourceContent{{URI: m.uri, Text: m.name}}}, nil
	}
	return m.result, m.err
}

// mockFactory serves test://books/{id}, failing for ids that are not lowercase
type mockFactory struct {
	prefix string
}

func (f *mockFactory) Prefix() string { return f.prefix }
func (f *mockFactory) Template() ResourceTemplate {
	return ResourceTemplate{URITemplate: f.prefix + "{id}", Name: "Books"}
}
func (f *mockFactory) CreateResource(uri string) (ResourceHandler, error) {
	id := strings.TrimPrefix(uri, f.prefix)
	if id == "" || strings.ToLower(id) != id {
		return nil, fmt.Errorf("invalid id %q", id)
	}
	return &mockResource{uri: uri, name: f.prefix + ":" + id}, nil
}

func newTestService(registry *HandlerRegistry) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), registry)
}

func call(t *testing.T, service *Service, method string, params any) HTTPResponse {
	t.Helper()
	request := JSONRPCRequest{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		request.Params = data
	}
	return service.HandleRequest(context.Background(), request)
}

func decodeResult(t *testing.T, resp HTTPResponse, out any) {
	t.Helper()
	require.Nil(t, resp.JSONRPCResponse.Error)
	data, err := json.Marshal(resp.JSONRPCResponse.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestService_HandleInitialize(t *testing.T) {
	service := newTestService(NewHandlerRegistry())

	resp := call(t, service, "initialize", InitializeParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo:      ClientInfo{Name: "test-client", Version: "1.0.0"},
	})
	assert.Equal(t, 200, resp.StatusCode)

	var result InitializeResult
	decodeResult(t, resp, &result)
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "ledger-balance-mcp-server", result.ServerInfo.Name)
	assert.True(t, result.Capabilities.Tools.ListChanged)
	assert.NotEmpty(t, result.Instructions)

	resp = service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "2.0", ID: json.RawMessage(`2`), Method: "initialize", Params: json.RawMessage(`[`)})
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
}

func TestService_Notifications(t *testing.T) {
	service := newTestService(NewHandlerRegistry())
	assert.Equal(t, 202, call(t, service, "notifications/initialized", nil).StatusCode)
	assert.Equal(t, 200, call(t, service, "ping", nil).StatusCode)

	resp := call(t, service, "prompts/list", nil)
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, MethodNotFound, resp.JSONRPCResponse.Error.Code)
}

func TestService_Resources(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterResource(&mockResource{uri: "test://b", name: "B", mimeType: "application/json"})
	registry.RegisterResource(&mockResource{uri: "test://a", name: "A", mimeType: "text/plain"})
	registry.RegisterResource(&mockResource{uri: "test://broken", name: "Broken", err: apperrors.NewNotFoundError("no such book")})
	registry.RegisterResource(&mockResource{uri: "test://failing", name: "Failing", err: apperrors.NewInternalError("db down", nil)})
	registry.RegisterResourceFactory(&mockFactory{prefix: "test://books/"})
	registry.RegisterResourceFactory(&mockFactory{prefix: "test://books/archive/"})
	service := newTestService(registry)

	t.Run("list is ordered by uri", func(t *testing.T) {
		var result ListResourcesResult
		decodeResult(t, call(t, service, "resources/list", nil), &result)
		require.Len(t, result.Resources, 4)
		assert.Equal(t, "test://a", result.Resources[0].URI)
		assert.Equal(t, "test://b", result.Resources[1].URI)
	})

	t.Run("templates", func(t *testing.T) {
		var result ListResourceTemplatesResult
		decodeResult(t, call(t, service, "resources/templates/list", nil), &result)
		require.Len(t, result.ResourceTemplates, 2)
		assert.Equal(t, "test://books/{id}", result.ResourceTemplates[0].URITemplate)
	})

	t.Run("static resource", func(t *testing.T) {
		var result ReadResourceResult
		decodeResult(t, call(t, service, "resources/read", ReadResourceParams{URI: "test://a"}), &result)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "A", result.Contents[0].Text)
	})

	t.Run("factory resource uses the longest prefix", func(t *testing.T) {
		var result ReadResourceResult
		decodeResult(t, call(t, service, "resources/read", ReadResourceParams{URI: "test://books/main"}), &result)
		assert.Equal(t, "test://books/:main", result.Contents[0].Text)

		decodeResult(t, call(t, service, "resources/read", ReadResourceParams{URI: "test://books/archive/old"}), &result)
		assert.Equal(t, "test://books/archive/:old", result.Contents[0].Text)
	})

	t.Run("unknown and rejected uris", func(t *testing.T) {
		for _, uri := range []string{"other://x", "test://books/MAIN"} {
			resp := call(t, service, "resources/read", ReadResourceParams{URI: uri})
			require.NotNil(t, resp.JSONRPCResponse.Error, uri)
			assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
		}
	})

	t.Run("read errors", func(t *testing.T) {
		resp := call(t, service, "resources/read", ReadResourceParams{URI: "test://broken"})
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
		assert.Equal(t, "no such book", resp.JSONRPCResponse.Error.Message)

		resp = call(t, service, "resources/read", ReadResourceParams{URI: "test://failing"})
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InternalError, resp.JSONRPCResponse.Error.Code)
	})
}

func TestService_Tools(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterTool(&mockTool{name: "zeta", schema: JSONSchema{Type: "object"}, result: TextResult("done")})
	registry.RegisterTool(&mockTool{name: "alpha", schema: JSONSchema{Type: "object", Required: []string{"bookId"}}})
	registry.RegisterTool(&mockTool{name: "invalid", err: apperrors.NewValidationError("lines do not balance").WithDetail("line", 1)})
	registry.RegisterTool(&mockTool{name: "crash", err: fmt.Errorf("connection reset")})
	service := newTestService(registry)

	t.Run("list is ordered by name", func(t *testing.T) {
		var result ListToolsResult
		decodeResult(t, call(t, service, "tools/list", nil), &result)
		require.Len(t, result.Tools, 4)
		assert.Equal(t, "alpha", result.Tools[0].Name)
		assert.Equal(t, []string{"bookId"}, result.Tools[0].InputSchema.Required)
	})

	t.Run("call", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, call(t, service, "tools/call", CallToolParams{Name: "zeta", Arguments: json.RawMessage(`{}`)}), &result)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)
		assert.Equal(t, "done", result.Content[0].Text)
		assert.False(t, result.IsError)
	})

	t.Run("application errors are shown", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, call(t, service, "tools/call", CallToolParams{Name: "invalid"}), &result)
		assert.True(t, result.IsError)
		assert.Equal(t, `VALIDATION_ERROR: lines do not balance {"line":1}`, result.Content[0].Text)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, call(t, service, "tools/call", CallToolParams{Name: "crash"}), &result)
		assert.True(t, result.IsError)
		assert.Equal(t, "internal error", result.Content[0].Text)
	})

	t.Run("unknown tool", func(t *testing.T) {
		resp := call(t, service, "tools/call", CallToolParams{Name: "missing"})
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
	})
}
