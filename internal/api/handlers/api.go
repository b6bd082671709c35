package handlers

import (
	"go.uber.org/zap"

	"github.com/hirosato/ledger-balance/backend/internal/api/middleware"
	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/domain/report"
)

// NewAPI assembles the REST routes. Book-scoped routes take the book from the path;
// /balance takes it from the X-Book-Id header or the default book.
func NewAPI(accounts *account.Service, journalService *journal.Service, reports *report.Service, defaultBookID string, log *zap.Logger) middleware.APIGatewayHandler {
	book := middleware.NewBookMiddleware(defaultBookID, log)
	balance := NewBalanceHandler(reports)
	ledger := NewLedgerHandler(accounts, journalService, reports)

	router := NewRouter()
	router.Handle("/balance", book.Handle(balance.Handle))
	router.Handle("/books/{bookId}/balance", book.Handle(balance.Handle))
	router.Handle("/books/{bookId}/accounts", book.Handle(ledger.Accounts))
	router.Handle("/books/{bookId}/journal-entries", book.Handle(ledger.JournalEntries))
	router.Handle("/books/{bookId}/journal-entries/{entryId}", book.Handle(ledger.JournalEntry))

	return middleware.Chain(router.Serve,
		middleware.NewRecoveryMiddleware(),
		middleware.NewLoggingMiddleware(),
	)
}
