package journal

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// DefaultPageSize is used when a listing request does not specify a count.
const DefaultPageSize = 100

// Service provides journal entry-related business logic
type Service struct {
	repo Repository
}

// NewService creates a new journal entry service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateJournalEntry validates and stores a new journal entry for the book
func (s *Service) CreateJournalEntry(ctx context.Context, bookID string, req *CreateJournalEntryRequest) (*JournalEntry, error) {
	if err := utils.ValidateBookID(bookID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.NewValidationError("journal entry is required")
	}
	req.BookID = bookID

	if err := utils.ValidateISODate(req.Date); err != nil {
		return nil, err
	}
	if err := validateJournalEntryLines(req.Lines); err != nil {
		return nil, err
	}

	return s.repo.CreateJournalEntry(ctx, req)
}

// ValidatePostings checks every posting and reports the first bad one by index
func ValidatePostings(postings []Posting) error {
	for i := range postings {
		if err := postings[i].Validate(); err != nil {
			return fmt.Errorf("posting %d: %w", i, err)
		}
	}
	return nil
}

// ImportPostings stores each posting as a single-line journal entry. The double-entry
// rules of CreateJournalEntry do not apply. Nothing is written unless every posting is
// valid.
func (s *Service) ImportPostings(ctx context.Context, bookID string, postings []Posting) ([]*JournalEntry, error) {
	if err := utils.ValidateBookID(bookID); err != nil {
		return nil, err
	}
	if err := ValidatePostings(postings); err != nil {
		return nil, err
	}

	stored := make([]*JournalEntry, 0, len(postings))
	for i := range postings {
		entry, err := s.repo.CreateJournalEntry(ctx, postings[i].request(bookID))
		if err != nil {
			return stored, fmt.Errorf("posting %d: %w", i, err)
		}
		stored = append(stored, entry)
	}
	return stored, nil
}

// GetJournalEntry retrieves a journal entry by ID
func (s *Service) GetJournalEntry(ctx context.Context, bookID string, journalEntryID string) (*JournalEntry, error) {
	if journalEntryID == "" {
		return nil, errors.NewValidationError("journal entry id is required")
	}
	return s.repo.GetJournalEntry(ctx, bookID, journalEntryID)
}

// GetJournalEntries retrieves one page of journal entries
func (s *Service) GetJournalEntries(ctx context.Context, bookID string, req *GetJournalEntriesRequest) (*GetJournalEntriesResponse, error) {
	if req == nil {
		req = &GetJournalEntriesRequest{}
	}
	if req.Count == 0 {
		req.Count = DefaultPageSize
	}
	return s.repo.GetJournalEntries(ctx, bookID, req)
}

// Postings walks every page of the book's journal entries and flattens their lines into
// balance postings.
func (s *Service) Postings(ctx context.Context, bookID string) ([]balance.JournalEntry, error) {
	var postings []balance.JournalEntry

	req := &GetJournalEntriesRequest{Count: DefaultPageSize}
	for {
		page, err := s.repo.GetJournalEntries(ctx, bookID, req)
		if err != nil {
			return nil, err
		}

		for i := range page.JournalEntries {
			entry := &page.JournalEntries[i]
			lines, err := entry.Postings()
			if err != nil {
				return nil, errors.NewInternalError(fmt.Sprintf("journal entry %s is corrupt", entry.JournalEntryID), err)
			}
			postings = append(postings, lines...)
		}

		if page.NextToken == "" {
			return postings, nil
		}
		req = &GetJournalEntriesRequest{Count: DefaultPageSize, NextToken: page.NextToken}
	}
}

// validateJournalEntryLines checks the double-entry rules for a new journal entry
func validateJournalEntryLines(lines []CreateJournalEntryLine) error {
	if len(lines) < 2 {
		return errors.NewValidationError("at least two lines are required for a valid journal entry")
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, line := range lines {
		debit, credit, err := line.Amounts()
		if err != nil {
			return errors.NewInvalidInputError("invalid amount value", err).WithDetail("line", i)
		}
		if debit.IsNegative() || credit.IsNegative() {
			return errors.NewValidationError("amounts must not be negative").WithDetail("line", i)
		}
		if debit.IsZero() && credit.IsZero() {
			return errors.NewValidationError("each line needs a debit or a credit amount").WithDetail("line", i)
		}
		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return errors.NewValidationError(fmt.Sprintf("journal entry does not balance: debit %s, credit %s", totalDebit, totalCredit))
	}
	return nil
}
