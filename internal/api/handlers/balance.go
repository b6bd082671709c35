package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/api/middleware"
	"github.com/hirosato/ledger-balance/backend/internal/api/render"
	"github.com/hirosato/ledger-balance/backend/internal/api/response"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/report"
)

// ReportGenerator computes balance reports for a book
type ReportGenerator interface {
	Generate(ctx context.Context, bookID string, sel balance.Selection) (*report.Result, error)
}

// BalanceHandler serves GET /books/{bookId}/balance
type BalanceHandler struct {
	reports ReportGenerator
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(reports ReportGenerator) *BalanceHandler {
	return &BalanceHandler{reports: reports}
}

// Handle computes the report for the book in the request context. A query key that is
// present but empty leaves its bound to be inferred from the ledger; a missing key
// yields an empty report. CSV and HTML are returned as such unless the client accepts
// only JSON.
func (h *BalanceHandler) Handle(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != http.MethodGet {
		return response.MethodNotAllowed(http.MethodGet, request.RequestContext.RequestID), nil
	}

	sel, err := SelectionFromQuery(request.QueryStringParameters)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	result, err := h.reports.Generate(ctx, middleware.GetBookID(ctx), sel)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if sel.Format == balance.FormatNone || wantsJSON(request.Headers) {
		return response.OK(result, request.RequestContext.RequestID), nil
	}

	var body strings.Builder
	if err := render.Render(&body, sel, result.Report); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	logger.Debug("balance report rendered", "format", sel.Format, "rows", len(result.Report.Rows))

	return response.Text(render.ContentType(sel.Format), body.String(), map[string]string{
		"X-Total-Debit":  result.Report.TotalDebit.String(),
		"X-Total-Credit": result.Report.TotalCredit.String(),
	}), nil
}

// SelectionFromQuery reads the selection from query parameters. Key presence matters:
// an absent key is an absent bound.
func SelectionFromQuery(query map[string]string) (balance.Selection, error) {
	lookup := func(key string) *string {
		if v, ok := query[key]; ok {
			return &v
		}
		return nil
	}

	format := query["format"]
	sel, ok := balance.ParseSelection(
		lookup("startAccount"),
		lookup("endAccount"),
		lookup("startPeriod"),
		lookup("endPeriod"),
		format,
	)
	if !ok {
		return balance.Selection{}, errors.NewUnsupportedFormatError(format)
	}
	return sel, nil
}

func wantsJSON(headers map[string]string) bool {
	for k, v := range headers {
		if strings.EqualFold(k, "Accept") {
			return strings.HasPrefix(strings.TrimSpace(v), "application/json")
		}
	}
	return false
}
