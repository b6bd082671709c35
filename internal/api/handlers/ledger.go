package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/ledger-balance/backend/internal/api/middleware"
	"github.com/hirosato/ledger-balance/backend/internal/api/response"
	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
)

// EntryIDPathParameter names the journal entry in /books/{bookId}/journal-entries/{entryId}
const EntryIDPathParameter = "entryId"

// ReportCache drops cached reports of a book after it changes
type ReportCache interface {
	Invalidate(bookID string)
}

// LedgerHandler records and lists the accounts and journal entries of a book
type LedgerHandler struct {
	accounts *account.Service
	journal  *journal.Service
	reports  ReportCache
}

func NewLedgerHandler(accounts *account.Service, journal *journal.Service, reports ReportCache) *LedgerHandler {
	return &LedgerHandler{
		accounts: accounts,
		journal:  journal,
		reports:  reports,
	}
}

// Accounts serves GET and POST /books/{bookId}/accounts
func (h *LedgerHandler) Accounts(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	bookID := middleware.GetBookID(ctx)
	requestID := request.RequestContext.RequestID

	switch request.HTTPMethod {
	case http.MethodGet:
		accounts, err := h.accounts.GetAccounts(ctx, bookID)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return response.OK(accounts, requestID), nil

	case http.MethodPost:
		var req account.CreateAccountRequest
		if err := decodeBody(request.Body, &req); err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		created, err := h.accounts.CreateAccount(ctx, bookID, &req)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		h.reports.Invalidate(bookID)
		logger.Info("account added", "bookId", bookID, "account", created.Code)
		return response.Created(created, requestID), nil
	}

	return response.MethodNotAllowed("GET, POST", requestID), nil
}

// JournalEntries serves GET and POST /books/{bookId}/journal-entries. Listing is paged
// with the count and nextToken query parameters.
func (h *LedgerHandler) JournalEntries(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	bookID := middleware.GetBookID(ctx)
	requestID := request.RequestContext.RequestID

	switch request.HTTPMethod {
	case http.MethodGet:
		req := &journal.GetJournalEntriesRequest{NextToken: request.QueryStringParameters["nextToken"]}
		if raw := request.QueryStringParameters["count"]; raw != "" {
			count, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || count == 0 {
				return response.ValidationError("count must be a positive integer", requestID), nil
			}
			req.Count = count
		}

		page, err := h.journal.GetJournalEntries(ctx, bookID, req)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return response.SuccessWithPagination(page.JournalEntries, &response.Pagination{
			Total:     page.TotalCount,
			NextToken: page.NextToken,
		}, http.StatusOK, requestID), nil

	case http.MethodPost:
		var req journal.CreateJournalEntryRequest
		if err := decodeBody(request.Body, &req); err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		created, err := h.journal.CreateJournalEntry(ctx, bookID, &req)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		h.reports.Invalidate(bookID)
		logger.Info("journal entry recorded", "bookId", bookID, "journalEntryId", created.JournalEntryID)
		return response.Created(created, requestID), nil
	}

	return response.MethodNotAllowed("GET, POST", requestID), nil
}

// JournalEntry serves GET /books/{bookId}/journal-entries/{entryId}
func (h *LedgerHandler) JournalEntry(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != http.MethodGet {
		return response.MethodNotAllowed(http.MethodGet, request.RequestContext.RequestID), nil
	}

	entry, err := h.journal.GetJournalEntry(ctx, middleware.GetBookID(ctx), request.PathParameters[EntryIDPathParameter])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(entry, request.RequestContext.RequestID), nil
}

func decodeBody(body string, v any) error {
	if body == "" {
		return errors.NewValidationError("request body is required")
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return errors.NewInvalidInputError("invalid request body", err)
	}
	return nil
}
