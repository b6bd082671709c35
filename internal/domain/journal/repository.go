package journal

import (
	"context"
)

// Repository defines the interface for journal entry data operations
type Repository interface {
	// Create a new journal entry with its lines
	CreateJournalEntry(ctx context.Context, req *CreateJournalEntryRequest) (*JournalEntry, error)

	// Get a journal entry by ID with its lines
	GetJournalEntry(ctx context.Context, bookID string, journalEntryID string) (*JournalEntry, error)

	// Get one page of a book's journal entries in creation order
	GetJournalEntries(ctx context.Context, bookID string, filter *GetJournalEntriesRequest) (*GetJournalEntriesResponse, error)
}
