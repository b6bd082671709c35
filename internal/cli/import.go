package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
)

// LedgerFile is the JSON document read by the import command. Journal entries are flat
// postings, one per stored line.
type LedgerFile struct {
	Accounts       []account.CreateAccountRequest `json:"accounts"`
	JournalEntries []journal.Posting              `json:"journalEntries"`
}

// Validate checks every record of the file without touching storage
func (f *LedgerFile) Validate() error {
	for i := range f.Accounts {
		if err := f.Accounts[i].Validate(); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
	}
	return journal.ValidatePostings(f.JournalEntries)
}

// ImportCmd loads a ledger file into a book
type ImportCmd struct {
	File []byte `help:"JSON ledger file with \"accounts\" and flat \"journalEntries\" postings." arg:"" type:"filecontent"`
}

func (cmd *ImportCmd) Run(ctx *kong.Context, globals *Globals) error {
	var ledger LedgerFile
	dec := json.NewDecoder(bytes.NewReader(cmd.File))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ledger); err != nil {
		return fmt.Errorf("invalid ledger file: %w", err)
	}
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("invalid ledger file: %w", err)
	}

	runCtx := context.Background()
	s, err := globals.open(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := range ledger.Accounts {
		if _, err := s.services.Accounts.CreateAccount(runCtx, s.bookID, &ledger.Accounts[i]); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
	}
	if _, err := s.services.Journal.ImportPostings(runCtx, s.bookID, ledger.JournalEntries); err != nil {
		return err
	}

	s.logger.Info("ledger imported", "bookId", s.bookID, "accounts", len(ledger.Accounts), "journalEntries", len(ledger.JournalEntries))
	_, err = fmt.Fprintf(ctx.Stdout, "Imported %d accounts and %d journal entries into book %s\n",
		len(ledger.Accounts), len(ledger.JournalEntries), s.bookID)
	return err
}
