package account

import (
	"context"
)

// Repository defines the interface for account data operations
type Repository interface {
	// Create a new account record
	CreateAccount(ctx context.Context, bookID string, account *Account) (*Account, error)

	// Get every account record of a book in creation order
	GetAccounts(ctx context.Context, bookID string) ([]*Account, error)
}
