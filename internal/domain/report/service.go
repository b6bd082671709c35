package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
)

// CacheCleanupInterval is how often expired reports are purged.
const CacheCleanupInterval = 10 * time.Minute

// CatalogSource provides the account catalog of a book
type CatalogSource interface {
	Catalog(ctx context.Context, bookID string) ([]balance.Account, error)
}

// PostingSource provides every posting recorded in a book
type PostingSource interface {
	Postings(ctx context.Context, bookID string) ([]balance.JournalEntry, error)
}

// Result is a computed report together with the selection that produced it
type Result struct {
	Selection balance.Selection `json:"selection"`
	Report    balance.Report    `json:"report"`
}

// Service loads a book's ledger and computes balance reports for it. Results are kept
// per book and selection until they expire or the book is invalidated.
type Service struct {
	accounts CatalogSource
	postings PostingSource
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewService creates a report service. A non-positive ttl disables caching.
func NewService(accounts CatalogSource, postings PostingSource, ttl time.Duration, logger *slog.Logger) *Service {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, CacheCleanupInterval)
	}
	return &Service{
		accounts: accounts,
		postings: postings,
		cache:    c,
		logger:   logger,
	}
}

// Generate returns the balance report of a book for the given selection.
func (s *Service) Generate(ctx context.Context, bookID string, sel balance.Selection) (*Result, error) {
	if err := utils.ValidateBookID(bookID); err != nil {
		return nil, err
	}

	// Nothing is loaded for a selection that cannot produce rows.
	if sel.Format == balance.FormatNone || !sel.Complete() {
		return &Result{Selection: sel, Report: balance.Empty()}, nil
	}

	key := cacheKey(bookID, sel)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			s.logger.Debug("report cache hit", "bookId", bookID, "selection", sel.Key())
			return data.(*Result), nil
		}
	}

	catalog, err := s.accounts.Catalog(ctx, bookID)
	if err != nil {
		return nil, err
	}
	postings, err := s.postings.Postings(ctx, bookID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Selection: sel,
		Report:    balance.Compute(sel, catalog, postings),
	}
	s.logger.Info("report generated",
		"bookId", bookID,
		"selection", sel.Key(),
		"accounts", len(catalog),
		"postings", len(postings),
		"rows", len(result.Report.Rows),
	)

	if s.cache != nil {
		s.cache.Set(key, result, cache.DefaultExpiration)
	}
	return result, nil
}

// Invalidate drops every cached report of a book. Write paths call it after changing
// the book's accounts or journal entries.
func (s *Service) Invalidate(bookID string) {
	if s.cache == nil {
		return
	}
	prefix := bookPrefix(bookID)
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

func bookPrefix(bookID string) string {
	return "book:" + bookID + "#"
}

func cacheKey(bookID string, sel balance.Selection) string {
	return bookPrefix(bookID) + sel.Key()
}
