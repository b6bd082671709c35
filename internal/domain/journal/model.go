package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// JournalEntry represents a recorded transaction made of several lines
type JournalEntry struct {
	JournalEntryID string    `json:"journalEntryId"`
	BookID         string    `json:"bookId"`
	Date           string    `json:"date"` //YYYY-MM-DD
	Description    string    `json:"description"`
	Notes          string    `json:"notes,omitempty"`
	Lines          []Entry   `json:"lines,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Tags           []string  `json:"tags,omitempty"`
}

// Period returns the entry date as a UTC instant. Plain dates are taken at midnight.
func (t *JournalEntry) Period() (time.Time, error) {
	return ParsePeriod(t.Date)
}

// ParsePeriod reads a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParsePeriod(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if v, err := time.Parse(time.DateOnly, raw); err == nil {
		return v, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return v.UTC(), nil
}

// formatPeriod stores midnight UTC as a plain date and keeps any other instant.
func formatPeriod(v time.Time) string {
	if v.Equal(v.Truncate(24 * time.Hour)) {
		return v.Format(time.DateOnly)
	}
	return v.Format(time.RFC3339Nano)
}

// Postings flattens the entry's lines into balance postings dated by the entry date.
func (t *JournalEntry) Postings() ([]balance.JournalEntry, error) {
	period, err := t.Period()
	if err != nil {
		return nil, err
	}

	postings := make([]balance.JournalEntry, 0, len(t.Lines))
	for _, line := range t.Lines {
		debit, credit, err := parseAmounts(line.Debit, line.Credit)
		if err != nil {
			return nil, err
		}
		postings = append(postings, balance.JournalEntry{
			Account: line.Account,
			Period:  period,
			Debit:   debit,
			Credit:  credit,
		})
	}
	return postings, nil
}

// Entry is one line of a journal entry. Amounts are kept as decimal strings.
type Entry struct {
	EntryID     string    `json:"entryId"`
	Account     int       `json:"account"`
	Debit       string    `json:"debit"`
	Credit      string    `json:"credit"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateJournalEntryRequest represents the data needed to create a journal entry
type CreateJournalEntryRequest struct {
	JournalEntryID string                   `json:"journalEntryId"`
	BookID         string                   `json:"bookId"`
	Date           string                   `json:"date"` //YYYY-MM-DD
	Description    string                   `json:"description"`
	Notes          string                   `json:"notes,omitempty"`
	Lines          []CreateJournalEntryLine `json:"lines"`
	Tags           []string                 `json:"tags,omitempty"`
}

// CreateJournalEntryLine represents a single line in a journal entry creation request
type CreateJournalEntryLine struct {
	Account     int    `json:"account"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
	Description string `json:"description,omitempty"`
}

// Amounts parses the line's debit and credit. Blank amounts are zero.
func (line CreateJournalEntryLine) Amounts() (decimal.Decimal, decimal.Decimal, error) {
	return parseAmounts(line.Debit, line.Credit)
}

func parseAmounts(debit, credit string) (decimal.Decimal, decimal.Decimal, error) {
	d, err := parseAmount(debit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	c, err := parseAmount(credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return d, c, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// Posting is one flat debit/credit movement against an account, the shape used by
// ledger imports. Amounts are taken as given: they may be zero, negative or leave the
// book unbalanced.
type Posting struct {
	Account     *int            `json:"account"`
	Period      string          `json:"period"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// Validate checks the posting without touching storage
func (p *Posting) Validate() error {
	if p.Account == nil {
		return errors.NewValidationError("posting account is required")
	}
	if _, err := ParsePeriod(p.Period); err != nil {
		return errors.NewInvalidInputError("invalid period, should be YYYY-MM-DD or RFC 3339", err)
	}
	return nil
}

// request maps the posting onto a single-line journal entry
func (p *Posting) request(bookID string) *CreateJournalEntryRequest {
	period, _ := ParsePeriod(p.Period)
	return &CreateJournalEntryRequest{
		BookID:      bookID,
		Date:        formatPeriod(period),
		Description: p.Description,
		Lines: []CreateJournalEntryLine{{
			Account: *p.Account,
			Debit:   p.Debit.String(),
			Credit:  p.Credit.String(),
		}},
	}
}

// GetJournalEntriesRequest represents paging criteria for journal entry queries
type GetJournalEntriesRequest struct {
	NextToken string `json:"nextToken,omitempty"`
	Count     uint64 `json:"count"`
}

// GetJournalEntriesResponse represents a page of journal entries
type GetJournalEntriesResponse struct {
	JournalEntries []JournalEntry `json:"journalEntries"`
	TotalCount     int            `json:"totalCount"`
	NextToken      string         `json:"nextToken"`
}
