package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	commonErrors "github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

var _ account.Repository = (*AccountRepository)(nil)

// AccountRepository stores account records in the accounts table. Row ids give the
// creation order.
type AccountRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// CreateAccount inserts an account record
func (r *AccountRepository) CreateAccount(ctx context.Context, bookID string, acc *account.Account) (*account.Account, error) {
	stored := *acc
	stored.BookID = bookID
	if stored.RecordID == "" {
		stored.RecordID = ulid.Make().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (book_id, record_id, code, label, created_at) VALUES (?, ?, ?, ?, ?)`,
		bookID, stored.RecordID, stored.Code, stored.Label, formatTime(stored.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, commonErrors.NewConflictError("account record already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create account", err)
	}

	r.logger.Info("account created", "bookId", bookID, "account", stored.Code, "recordId", stored.RecordID)
	return &stored, nil
}

// GetAccounts returns the book's account records in creation order
func (r *AccountRepository) GetAccounts(ctx context.Context, bookID string) ([]*account.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record_id, code, label, created_at FROM accounts WHERE book_id = ? ORDER BY id`,
		bookID,
	)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query accounts", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		acc := &account.Account{BookID: bookID}
		var createdAt string
		if err := rows.Scan(&acc.RecordID, &acc.Code, &acc.Label, &createdAt); err != nil {
			return nil, commonErrors.NewInternalError("failed to scan account", err)
		}
		acc.CreatedAt = parseTime(createdAt)
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, commonErrors.NewInternalError("failed to read accounts", err)
	}
	return accounts, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
