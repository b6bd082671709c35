// Package tools holds the MCP tools that write to and report on a book.
package tools

import (
	"encoding/json"
	"strings"

	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

// ReportCache drops cached reports of a book after it changes
type ReportCache interface {
	Invalidate(bookID string)
}

var bookIDProperty = map[string]string{
	"type":        "string",
	"description": "The book to work on. Defaults to the server's default book.",
}

func bookOrDefault(bookID, defaultBookID string) string {
	if strings.TrimSpace(bookID) == "" {
		return defaultBookID
	}
	return bookID
}

func decodeArguments(arguments json.RawMessage, v any) error {
	if len(arguments) == 0 {
		arguments = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(arguments, v); err != nil {
		return errors.NewInvalidInputError("invalid arguments: "+err.Error(), err)
	}
	return nil
}

func jsonResult(summary string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.NewInternalError("failed to format response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{Type: "text", Text: summary},
			{Type: "text", Text: string(data), MimeType: "application/json"},
		},
	}, nil
}
