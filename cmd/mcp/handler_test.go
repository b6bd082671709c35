package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envconfig "github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
	"github.com/hirosato/ledger-balance/backend/internal/platform/store"
)

func newTestHandler(t *testing.T) *MCPRequestHandler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &envconfig.Config{
		Environment:    "test",
		StorageBackend: envconfig.StorageSQLite,
		SQLitePath:     ":memory:",
		DefaultBookID:  "main",
	}

	st, err := store.Open(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	registry := NewRegistry(st.NewServices(cfg, log), cfg.DefaultBookID)
	return NewMCPRequestHandler(mcp.NewService(log, registry), log, cfg)
}

type rpcResult struct {
	Result json.RawMessage   `json:"result"`
	Error  *mcp.JSONRPCError `json:"error"`
}

func call(t *testing.T, h *MCPRequestHandler, method string, params string) rpcResult {
	t.Helper()
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q,"params":%s}`, method, params)
	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/",
		Body:       body,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var out rpcResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return out
}

func callTool(t *testing.T, h *MCPRequestHandler, name string, arguments string) mcp.CallToolResult {
	t.Helper()
	out := call(t, h, "tools/call", fmt.Sprintf(`{"name":%q,"arguments":%s}`, name, arguments))
	require.Nil(t, out.Error)

	var result mcp.CallToolResult
	require.NoError(t, json.Unmarshal(out.Result, &result))
	return result
}

func TestMCPRequestHandler(t *testing.T) {
	t.Run("preflight", func(t *testing.T) {
		resp, err := newTestHandler(t).HandleRequest(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodOptions,
			Path:       "/",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	})

	t.Run("only POST on the root path", func(t *testing.T) {
		resp, err := newTestHandler(t).HandleRequest(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodGet,
			Path:       "/",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "POST", resp.Headers["Allow"])
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, err := newTestHandler(t).HandleRequest(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Path:       "/other",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := newTestHandler(t).HandleRequest(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Path:       "/",
			Body:       "{",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Body, fmt.Sprint(mcp.ParseError))
	})

	t.Run("lists the ledger tools", func(t *testing.T) {
		out := call(t, newTestHandler(t), "tools/list", `{}`)
		require.Nil(t, out.Error)

		var list mcp.ListToolsResult
		require.NoError(t, json.Unmarshal(out.Result, &list))
		var names []string
		for _, tool := range list.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{"get-balance-report", "create-journal-entry", "create-account"}, names)
	})
}

func TestLedgerRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	for _, args := range []string{
		`{"account":1000,"label":"Cash"}`,
		`{"account":4000,"label":"Revenue"}`,
	} {
		result := callTool(t, h, "create-account", args)
		require.False(t, result.IsError, result.Content[0].Text)
	}

	result := callTool(t, h, "create-journal-entry", `{"date":"2024-03-01","description":"Sale","lines":[
		{"account":1000,"debit":"80"},{"account":4000,"credit":"80"}]}`)
	require.False(t, result.IsError, result.Content[0].Text)

	t.Run("csv report over the whole ledger", func(t *testing.T) {
		result := callTool(t, h, "get-balance-report",
			`{"startAccount":null,"endAccount":"","startPeriod":null,"endPeriod":"","format":"CSV"}`)
		require.False(t, result.IsError)
		require.NotEmpty(t, result.Content)

		text := result.Content[0].Text
		assert.Contains(t, text, "Total Debit: 80 Total Credit: 80")
		assert.Contains(t, text, "1000,Cash,80,0,80")
		assert.Contains(t, text, "4000,Revenue,0,80,-80")
	})

	t.Run("missing bound gives an empty report", func(t *testing.T) {
		result := callTool(t, h, "get-balance-report",
			`{"startAccount":1000,"endAccount":4000,"startPeriod":"2024-01-01","format":"CSV"}`)
		require.False(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, "Total Debit: 0 Total Credit: 0")
		assert.NotContains(t, result.Content[0].Text, "Cash")
	})

	t.Run("unbalanced entries are rejected", func(t *testing.T) {
		result := callTool(t, h, "create-journal-entry", `{"date":"2024-03-02","lines":[
			{"account":1000,"debit":"10"},{"account":4000,"credit":"9"}]}`)
		assert.True(t, result.IsError)
	})

	t.Run("accounts resource", func(t *testing.T) {
		out := call(t, h, "resources/read", `{"uri":"ledger://accounts/main"}`)
		require.Nil(t, out.Error)
		assert.Contains(t, string(out.Result), "Revenue")
	})

	t.Run("resource templates", func(t *testing.T) {
		out := call(t, h, "resources/templates/list", `{}`)
		require.Nil(t, out.Error)
		assert.Contains(t, string(out.Result), "ledger://journal-entries/")
		assert.Contains(t, string(out.Result), "ledger://accounts/")
	})
}
