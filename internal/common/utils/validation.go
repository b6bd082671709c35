package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

var (
	// BookIDRegex validates book identifiers
	BookIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]{0,63}$`)

	// DateRegex validates ISO 8601 date strings (YYYY-MM-DD)
	DateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateBookID validates a book ID
func ValidateBookID(bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return errors.NewBookError("book id is required")
	}
	if !BookIDRegex.MatchString(bookID) {
		return errors.NewBookError("book id may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// ValidateISODate validates an ISO 8601 date string (YYYY-MM-DD)
func ValidateISODate(date string) error {
	if !DateRegex.MatchString(date) {
		return errors.NewValidationError("invalid date format, should be YYYY-MM-DD")
	}

	// Parse the date to ensure it's valid
	_, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return errors.NewValidationError("invalid date value")
	}

	return nil
}
