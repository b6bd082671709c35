package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hirosato/ledger-balance/backend/internal/api/render"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
	"github.com/hirosato/ledger-balance/backend/internal/domain/report"
)

// GetBalanceReportTool computes a balance report over an account range and a period
// range
type GetBalanceReportTool struct {
	reports       *report.Service
	defaultBookID string
}

func NewGetBalanceReportTool(reports *report.Service, defaultBookID string) *GetBalanceReportTool {
	return &GetBalanceReportTool{
		reports:       reports,
		defaultBookID: defaultBookID,
	}
}

func (t *GetBalanceReportTool) GetName() string {
	return "get-balance-report"
}

func (t *GetBalanceReportTool) GetDescription() string {
	return "Computes debit, credit and balance per account for an account range and a period range. " +
		"Pass all four bounds: a bound that is null, empty or invalid is taken from the ledger " +
		"(lowest or highest account, earliest or latest entry date), while a bound that is left out " +
		"produces an empty report. The report is rendered as CSV or HTML."
}

func (t *GetBalanceReportTool) GetInputSchema() mcp.JSONSchema {
	bound := func(description string, types ...string) map[string]interface{} {
		return map[string]interface{}{
			"type":        append(types, "string", "null"),
			"description": description,
		}
	}
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"bookId":       bookIDProperty,
			"startAccount": bound("First account code of the range, inclusive", "integer"),
			"endAccount":   bound("Last account code of the range, inclusive", "integer"),
			"startPeriod":  bound("First date of the range (YYYY-MM-DD or RFC 3339), inclusive"),
			"endPeriod":    bound("Last date of the range (YYYY-MM-DD or RFC 3339), inclusive"),
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Output format",
				"enum":        []string{"CSV", "HTML"},
			},
		},
		Required: []string{"startAccount", "endAccount", "startPeriod", "endPeriod", "format"},
	}
}

func (t *GetBalanceReportTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		BookID string          `json:"bookId"`
		Format json.RawMessage `json:"format"`
	}
	if err := decodeArguments(arguments, &args); err != nil {
		return mcp.ErrorResult(err), nil
	}

	var sel balance.Selection
	if err := decodeArguments(arguments, &sel); err != nil {
		return mcp.ErrorResult(errors.NewUnsupportedFormatError(strings.Trim(string(args.Format), `"`))), nil
	}

	result, err := t.reports.Generate(ctx, bookOrDefault(args.BookID, t.defaultBookID), sel)
	if err != nil {
		return mcp.ErrorResult(err), nil
	}

	if sel.Format == balance.FormatNone {
		return jsonResult("No format was requested, so the report is empty.", result)
	}

	var doc strings.Builder
	if err := render.Document(&doc, sel, result.Report); err != nil {
		return mcp.ErrorResult(err), nil
	}
	return jsonResult(doc.String(), result)
}
