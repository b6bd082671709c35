package resources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

// JournalEntriesPrefix is the URI prefix of journal entry resources
const JournalEntriesPrefix = "ledger://journal-entries/"

// JournalEntryResource is either a page of a book's journal entries or a single entry
type JournalEntryResource struct {
	journalService *journal.Service
	uri            string
	bookID         string
	journalEntryID string
	page           journal.GetJournalEntriesRequest
}

func (r *JournalEntryResource) GetURI() string {
	return r.uri
}

func (r *JournalEntryResource) GetName() string {
	if r.journalEntryID != "" {
		return fmt.Sprintf("Journal Entry %s", r.journalEntryID)
	}
	return fmt.Sprintf("Journal Entries for Book %s", r.bookID)
}

func (r *JournalEntryResource) GetDescription() string {
	if r.journalEntryID != "" {
		return fmt.Sprintf("Details of journal entry %s in book %s", r.journalEntryID, r.bookID)
	}
	return fmt.Sprintf("List of journal entries in book %s", r.bookID)
}

func (r *JournalEntryResource) GetMimeType() string {
	return "application/json"
}

func (r *JournalEntryResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if r.journalEntryID != "" {
		journalEntry, err := r.journalService.GetJournalEntry(ctx, r.bookID, r.journalEntryID)
		if err != nil {
			return nil, err
		}
		return jsonContents(r.uri, journalEntry)
	}

	page := r.page
	response, err := r.journalService.GetJournalEntries(ctx, r.bookID, &page)
	if err != nil {
		return nil, err
	}
	return jsonContents(r.uri, response)
}

// JournalEntryResourceFactory resolves
//
//	ledger://journal-entries/{bookId}[?count=N&nextToken=T]
//	ledger://journal-entries/{bookId}/{entryId}
type JournalEntryResourceFactory struct {
	journalService *journal.Service
}

func NewJournalEntryResourceFactory(journalService *journal.Service) *JournalEntryResourceFactory {
	return &JournalEntryResourceFactory{
		journalService: journalService,
	}
}

func (f *JournalEntryResourceFactory) Prefix() string {
	return JournalEntriesPrefix
}

func (f *JournalEntryResourceFactory) Template() mcp.ResourceTemplate {
	return mcp.ResourceTemplate{
		URITemplate: JournalEntriesPrefix + "{bookId}{/entryId}{?count,nextToken}",
		Name:        "Journal Entries",
		Description: "A page of a book's journal entries, or one entry with its lines",
		MimeType:    "application/json",
	}
}

func (f *JournalEntryResourceFactory) CreateResource(uri string) (mcp.ResourceHandler, error) {
	path, query, err := splitURI(uri, JournalEntriesPrefix)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(path, "/")
	resource := &JournalEntryResource{
		journalService: f.journalService,
		uri:            uri,
		bookID:         parts[0],
	}
	if err := utils.ValidateBookID(resource.bookID); err != nil {
		return nil, err
	}

	switch {
	case len(parts) == 1:
		resource.page.NextToken = query.Get("nextToken")
		if raw := query.Get("count"); raw != "" {
			count, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, errors.NewInvalidInputError("invalid count", err)
			}
			resource.page.Count = count
		}
	case len(parts) == 2 && parts[1] != "":
		resource.journalEntryID = parts[1]
	default:
		return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid URI pattern: %s", uri), nil)
	}
	return resource, nil
}

// splitURI strips prefix and returns the remaining path and its query parameters
func splitURI(uri, prefix string) (string, url.Values, error) {
	rest := strings.TrimPrefix(uri, prefix)
	path, rawQuery, _ := strings.Cut(rest, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", nil, errors.NewInvalidInputError("invalid query in "+uri, err)
	}
	if path == "" {
		return "", nil, errors.NewInvalidInputError(fmt.Sprintf("invalid URI pattern: %s", uri), nil)
	}
	return path, query, nil
}
