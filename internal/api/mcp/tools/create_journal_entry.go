package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

type CreateJournalEntryTool struct {
	journalService *journal.Service
	reports        ReportCache
	defaultBookID  string
}

func NewCreateJournalEntryTool(journalService *journal.Service, reports ReportCache, defaultBookID string) *CreateJournalEntryTool {
	return &CreateJournalEntryTool{
		journalService: journalService,
		reports:        reports,
		defaultBookID:  defaultBookID,
	}
}

func (t *CreateJournalEntryTool) GetName() string {
	return "create-journal-entry"
}

func (t *CreateJournalEntryTool) GetDescription() string {
	return "Records a journal entry. Every line debits or credits one account; total debits must equal total credits."
}

func (t *CreateJournalEntryTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"bookId": bookIDProperty,
			"journalEntryId": map[string]string{
				"type":        "string",
				"description": "Optional id for the entry. Generated when omitted.",
			},
			"date": map[string]string{
				"type":        "string",
				"description": "Journal entry date in YYYY-MM-DD format. Reports filter on it.",
				"pattern":     "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},
			"description": map[string]string{
				"type":        "string",
				"description": "Description of the journal entry",
			},
			"notes": map[string]string{
				"type":        "string",
				"description": "Optional notes for the journal entry",
			},
			"lines": map[string]interface{}{
				"type":        "array",
				"description": "Journal entry lines. Debits and credits must balance.",
				"minItems":    2,
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"account": map[string]string{
							"type":        "integer",
							"description": "Ledger account code",
						},
						"debit": map[string]string{
							"type":        "string",
							"description": "Debit amount as a decimal string, e.g. \"120.50\"",
						},
						"credit": map[string]string{
							"type":        "string",
							"description": "Credit amount as a decimal string",
						},
						"description": map[string]string{
							"type":        "string",
							"description": "Line-specific description",
						},
					},
					"required": []string{"account"},
				},
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"description": "Optional tags for categorization",
				"items": map[string]string{
					"type": "string",
				},
			},
		},
		Required: []string{"date", "lines"},
	}
}

func (t *CreateJournalEntryTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var req journal.CreateJournalEntryRequest
	if err := decodeArguments(arguments, &req); err != nil {
		return mcp.ErrorResult(err), nil
	}

	bookID := bookOrDefault(req.BookID, t.defaultBookID)
	journalEntry, err := t.journalService.CreateJournalEntry(ctx, bookID, &req)
	if err != nil {
		return mcp.ErrorResult(err), nil
	}
	t.reports.Invalidate(bookID)

	return jsonResult(
		fmt.Sprintf("Journal entry %s recorded in book %s with %d lines.", journalEntry.JournalEntryID, bookID, len(journalEntry.Lines)),
		journalEntry,
	)
}
