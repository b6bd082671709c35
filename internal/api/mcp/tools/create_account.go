package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

// CreateAccountTool adds an account to a book's catalog
type CreateAccountTool struct {
	accountService *account.Service
	reports        ReportCache
	defaultBookID  string
}

func NewCreateAccountTool(accountService *account.Service, reports ReportCache, defaultBookID string) *CreateAccountTool {
	return &CreateAccountTool{
		accountService: accountService,
		reports:        reports,
		defaultBookID:  defaultBookID,
	}
}

func (t *CreateAccountTool) GetName() string {
	return "create-account"
}

func (t *CreateAccountTool) GetDescription() string {
	return "Adds an account code and its label to a book. When a code is added twice, reports use the label added first."
}

func (t *CreateAccountTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"bookId": bookIDProperty,
			"account": map[string]string{
				"type":        "integer",
				"description": "Ledger account code, e.g. 1000",
			},
			"label": map[string]string{
				"type":        "string",
				"description": "Human readable account name",
			},
		},
		Required: []string{"account"},
	}
}

func (t *CreateAccountTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		BookID string `json:"bookId"`
		account.CreateAccountRequest
	}
	if err := decodeArguments(arguments, &args); err != nil {
		return mcp.ErrorResult(err), nil
	}

	bookID := bookOrDefault(args.BookID, t.defaultBookID)
	acc, err := t.accountService.CreateAccount(ctx, bookID, &args.CreateAccountRequest)
	if err != nil {
		return mcp.ErrorResult(err), nil
	}
	t.reports.Invalidate(bookID)

	return jsonResult(fmt.Sprintf("Account %d (%s) added to book %s.", acc.Code, acc.Label, bookID), acc)
}
