package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	apperrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
	"github.com/hirosato/ledger-balance/backend/internal/platform/sqlite"
)

func newRegistry(t *testing.T) (*mcp.HandlerRegistry, *account.Service, *journal.Service) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accountService := account.NewService(db.AccountRepository())
	journalService := journal.NewService(db.JournalRepository())

	registry := mcp.NewHandlerRegistry()
	registry.RegisterResourceFactory(NewAccountsResourceFactory(accountService))
	registry.RegisterResourceFactory(NewJournalEntryResourceFactory(journalService))
	return registry, accountService, journalService
}

func read(t *testing.T, registry *mcp.HandlerRegistry, uri string, out any) {
	t.Helper()
	handler, err := registry.GetResource(uri)
	require.NoError(t, err)
	result, err := handler.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, uri, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MimeType)
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), out))
}

func TestAccountsResource(t *testing.T) {
	ctx := context.Background()
	registry, accounts, _ := newRegistry(t)
	for code, label := range map[int]string{1000: "Cash"} {
		code := code
		_, err := accounts.CreateAccount(ctx, "main", &account.CreateAccountRequest{Account: &code, Label: label})
		require.NoError(t, err)
	}

	var list account.AccountListResponse
	read(t, registry, "ledger://accounts/main", &list)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "Cash", list.Accounts[0].Label)

	handler, err := registry.GetResource("ledger://accounts/main")
	require.NoError(t, err)
	assert.Equal(t, "Accounts of Book main", handler.GetName())

	for _, uri := range []string{"ledger://accounts/", "ledger://accounts/main/extra", "ledger://accounts/bad book"} {
		_, err := registry.GetResource(uri)
		assert.Error(t, err, uri)
	}
}

func TestJournalEntryResources(t *testing.T) {
	ctx := context.Background()
	registry, _, journalService := newRegistry(t)
	for i := 0; i < 3; i++ {
		_, err := journalService.CreateJournalEntry(ctx, "main", &journal.CreateJournalEntryRequest{
			JournalEntryID: fmt.Sprintf("J%d", i),
			Date:           "2024-01-15",
			Lines: []journal.CreateJournalEntryLine{
				{Account: 1000, Debit: "10"},
				{Account: 4000, Credit: "10"},
			},
		})
		require.NoError(t, err)
	}

	t.Run("single entry", func(t *testing.T) {
		var entry journal.JournalEntry
		read(t, registry, "ledger://journal-entries/main/J1", &entry)
		assert.Equal(t, "J1", entry.JournalEntryID)
		assert.Len(t, entry.Lines, 2)
	})

	t.Run("paged list", func(t *testing.T) {
		var page journal.GetJournalEntriesResponse
		read(t, registry, "ledger://journal-entries/main?count=2", &page)
		assert.Len(t, page.JournalEntries, 2)
		require.NotEmpty(t, page.NextToken)

		var rest journal.GetJournalEntriesResponse
		read(t, registry, "ledger://journal-entries/main?count=2&nextToken="+page.NextToken, &rest)
		require.Len(t, rest.JournalEntries, 1)
		assert.Equal(t, "J2", rest.JournalEntries[0].JournalEntryID)
		assert.Empty(t, rest.NextToken)
	})

	t.Run("missing entry", func(t *testing.T) {
		handler, err := registry.GetResource("ledger://journal-entries/main/nope")
		require.NoError(t, err)
		_, err = handler.Read(ctx)
		assert.ErrorIs(t, err, apperrors.NewNotFoundError(""))
	})

	t.Run("invalid uris", func(t *testing.T) {
		for _, uri := range []string{
			"ledger://journal-entries/",
			"ledger://journal-entries/main/J1/extra",
			"ledger://journal-entries/main/",
			"ledger://journal-entries/main?count=many",
		} {
			_, err := registry.GetResource(uri)
			assert.Error(t, err, uri)
		}
	})

	t.Run("templates", func(t *testing.T) {
		templates := registry.ListResourceTemplates()
		require.Len(t, templates, 2)
		assert.Equal(t, "ledger://accounts/{bookId}", templates[0].URITemplate)
		assert.Equal(t, "ledger://journal-entries/{bookId}{/entryId}{?count,nextToken}", templates[1].URITemplate)
	})
}
