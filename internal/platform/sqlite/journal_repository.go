package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"

	commonErrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
)

var _ journal.Repository = (*JournalRepository)(nil)

// JournalRepository stores journal entries in journal_entries with their lines in
// journal_lines. Page tokens are row offsets.
type JournalRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// CreateJournalEntry inserts a journal entry and its lines in one transaction
func (r *JournalRepository) CreateJournalEntry(ctx context.Context, req *journal.CreateJournalEntryRequest) (*journal.JournalEntry, error) {
	now := time.Now().UTC()
	entry := journal.JournalEntry{
		JournalEntryID: req.JournalEntryID,
		BookID:         req.BookID,
		Date:           req.Date,
		Description:    req.Description,
		Notes:          req.Notes,
		Tags:           req.Tags,
		Lines:          make([]journal.Entry, 0, len(req.Lines)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if entry.JournalEntryID == "" {
		entry.JournalEntryID = ulid.Make().String()
	}

	tags, err := json.Marshal(nonNil(entry.Tags))
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal tags", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO journal_entries (book_id, journal_entry_id, date, description, notes, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.BookID, entry.JournalEntryID, entry.Date, entry.Description, entry.Notes, string(tags),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, commonErrors.NewConflictError("journal entry already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create journal entry", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to create journal entry", err)
	}

	for _, line := range req.Lines {
		stored := journal.Entry{
			EntryID:     ulid.Make().String(),
			Account:     line.Account,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO journal_lines (journal_entry_row, entry_id, account, debit, credit, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rowID, stored.EntryID, stored.Account, stored.Debit, stored.Credit, stored.Description,
			formatTime(now), formatTime(now),
		)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to create journal line", err)
		}
		entry.Lines = append(entry.Lines, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, commonErrors.NewInternalError("failed to commit journal entry", err)
	}

	r.logger.Info("journal entry created", "bookId", entry.BookID, "journalEntryId", entry.JournalEntryID, "lines", len(entry.Lines))
	return &entry, nil
}

type entryRow struct {
	rowID int64
	entry journal.JournalEntry
}

const selectEntries = `SELECT id, journal_entry_id, date, description, notes, tags, created_at, updated_at
	FROM journal_entries`

func scanEntries(rows *sql.Rows, bookID string) ([]entryRow, error) {
	defer rows.Close()

	var out []entryRow
	for rows.Next() {
		var (
			row                  entryRow
			tags                 string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&row.rowID, &row.entry.JournalEntryID, &row.entry.Date, &row.entry.Description,
			&row.entry.Notes, &tags, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &row.entry.Tags); err != nil {
			return nil, err
		}
		if len(row.entry.Tags) == 0 {
			row.entry.Tags = nil
		}
		row.entry.BookID = bookID
		row.entry.CreatedAt = parseTime(createdAt)
		row.entry.UpdatedAt = parseTime(updatedAt)
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetJournalEntry retrieves a journal entry with its lines by ID
func (r *JournalRepository) GetJournalEntry(ctx context.Context, bookID string, journalEntryID string) (*journal.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntries+` WHERE book_id = ? AND journal_entry_id = ?`, bookID, journalEntryID)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query journal entry", err)
	}
	entries, err := scanEntries(rows, bookID)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to read journal entry", err)
	}
	if len(entries) == 0 {
		return nil, commonErrors.NewNotFoundError("journal entry not found")
	}

	if err := r.loadLines(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0].entry, nil
}

// GetJournalEntries retrieves one page of a book's journal entries in creation order
func (r *JournalRepository) GetJournalEntries(ctx context.Context, bookID string, filter *journal.GetJournalEntriesRequest) (*journal.GetJournalEntriesResponse, error) {
	offset := 0
	if filter.NextToken != "" {
		n, err := strconv.Atoi(filter.NextToken)
		if err != nil || n < 0 {
			return nil, commonErrors.NewInvalidInputError("invalid next token", errors.New(filter.NextToken))
		}
		offset = n
	}
	limit := int(filter.Count)
	if limit <= 0 {
		limit = journal.DefaultPageSize
	}

	// One extra row tells whether another page exists.
	rows, err := r.db.QueryContext(ctx, selectEntries+` WHERE book_id = ? ORDER BY id LIMIT ? OFFSET ?`, bookID, limit+1, offset)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query journal entries", err)
	}
	entries, err := scanEntries(rows, bookID)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to read journal entries", err)
	}

	response := &journal.GetJournalEntriesResponse{JournalEntries: make([]journal.JournalEntry, 0, limit)}
	if len(entries) > limit {
		entries = entries[:limit]
		response.NextToken = strconv.Itoa(offset + limit)
	}

	if err := r.loadLines(ctx, entries); err != nil {
		return nil, err
	}
	for _, row := range entries {
		response.JournalEntries = append(response.JournalEntries, row.entry)
	}
	response.TotalCount = len(response.JournalEntries)
	return response, nil
}

// loadLines fills in the lines of the given entries with a single query
func (r *JournalRepository) loadLines(ctx context.Context, entries []entryRow) error {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[int64]int, len(entries))
	placeholders := make([]string, 0, len(entries))
	args := make([]any, 0, len(entries))
	for i, row := range entries {
		index[row.rowID] = i
		placeholders = append(placeholders, "?")
		args = append(args, row.rowID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT journal_entry_row, entry_id, account, debit, credit, description, created_at, updated_at
		 FROM journal_lines WHERE journal_entry_row IN (`+strings.Join(placeholders, ",")+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return commonErrors.NewInternalError("failed to query journal lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowID                int64
			line                 journal.Entry
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rowID, &line.EntryID, &line.Account, &line.Debit, &line.Credit, &line.Description, &createdAt, &updatedAt); err != nil {
			return commonErrors.NewInternalError("failed to scan journal line", err)
		}
		line.CreatedAt = parseTime(createdAt)
		line.UpdatedAt = parseTime(updatedAt)

		i := index[rowID]
		entries[i].entry.Lines = append(entries[i].entry.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return commonErrors.NewInternalError("failed to read journal lines", err)
	}
	return nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
