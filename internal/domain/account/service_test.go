package account

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

type memoryRepository struct {
	accounts map[string][]*Account
	err      error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{accounts: make(map[string][]*Account)}
}

func (r *memoryRepository) CreateAccount(ctx context.Context, bookID string, account *Account) (*Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	account.RecordID = "rec-" + account.Label
	r.accounts[bookID] = append(r.accounts[bookID], account)
	return account, nil
}

func (r *memoryRepository) GetAccounts(ctx context.Context, bookID string) ([]*Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.accounts[bookID], nil
}

func code(n int) *int { return &n }

func TestService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("stores trimmed label", func(t *testing.T) {
		repo := newMemoryRepository()
		svc := NewService(repo)

		acc, err := svc.CreateAccount(ctx, "book-1", &CreateAccountRequest{Account: code(1000), Label: "  Cash "})
		require.NoError(t, err)
		assert.Equal(t, "Cash", acc.Label)
		assert.Equal(t, 1000, acc.Code)
		assert.Equal(t, "book-1", acc.BookID)
		assert.False(t, acc.CreatedAt.IsZero())
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newMemoryRepository())

		tests := []struct {
			name   string
			bookID string
			req    *CreateAccountRequest
			code   string
		}{
			{name: "missing book", bookID: "", req: &CreateAccountRequest{Account: code(1), Label: "x"}, code: "BOOK_ERROR"},
			{name: "nil request", bookID: "b", req: nil, code: "VALIDATION_ERROR"},
			{name: "missing code", bookID: "b", req: &CreateAccountRequest{Label: "x"}, code: "VALIDATION_ERROR"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, tt.bookID, tt.req)
				require.Error(t, err)

				var appErr errors.AppError
				require.True(t, stderrors.As(err, &appErr))
				assert.Equal(t, tt.code, appErr.Code)
			})
		}
	})

	t.Run("empty label is kept", func(t *testing.T) {
		acc, err := NewService(newMemoryRepository()).CreateAccount(ctx, "b", &CreateAccountRequest{Account: code(9), Label: "  "})
		require.NoError(t, err)
		assert.Equal(t, "", acc.Label)
		assert.Equal(t, 9, acc.Code)
	})

	t.Run("duplicate codes are kept in order", func(t *testing.T) {
		repo := newMemoryRepository()
		svc := NewService(repo)

		_, err := svc.CreateAccount(ctx, "b", &CreateAccountRequest{Account: code(1000), Label: "Cash"})
		require.NoError(t, err)
		_, err = svc.CreateAccount(ctx, "b", &CreateAccountRequest{Account: code(1000), Label: "Petty cash"})
		require.NoError(t, err)

		catalog, err := svc.Catalog(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []balance.Account{{ID: 1000, Label: "Cash"}, {ID: 1000, Label: "Petty cash"}}, catalog)
	})
}

func TestService_Catalog(t *testing.T) {
	ctx := context.Background()

	t.Run("empty book", func(t *testing.T) {
		catalog, err := NewService(newMemoryRepository()).Catalog(ctx, "none")
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := newMemoryRepository()
		repo.err = errors.NewInternalError("failed to query accounts", nil)

		_, err := NewService(repo).Catalog(ctx, "b")
		assert.ErrorIs(t, err, errors.NewInternalError("", nil))
	})
}

func TestService_GetAccounts(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "b", &CreateAccountRequest{Account: code(2000), Label: "Payables"})
	require.NoError(t, err)

	resp, err := svc.GetAccounts(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "Payables", resp.Accounts[0].Label)
}
