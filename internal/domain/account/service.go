package account

import (
	"context"
	"strings"
	"time"

	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
)

// Service provides account-related business logic
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateAccount validates and stores a new catalog record. Storing a code that already
// exists is allowed; reports use the label of the record created first. The label may
// be empty.
func (s *Service) CreateAccount(ctx context.Context, bookID string, req *CreateAccountRequest) (*Account, error) {
	if err := utils.ValidateBookID(bookID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account := &Account{
		BookID:    bookID,
		Code:      *req.Account,
		Label:     strings.TrimSpace(req.Label),
		CreatedAt: time.Now().UTC(),
	}

	return s.repo.CreateAccount(ctx, bookID, account)
}

// GetAccounts lists the account records of a book
func (s *Service) GetAccounts(ctx context.Context, bookID string) (*AccountListResponse, error) {
	accounts, err := s.repo.GetAccounts(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &AccountListResponse{
		Accounts:   accounts,
		TotalCount: len(accounts),
	}, nil
}

// Catalog returns the book's accounts in the shape consumed by balance reports.
func (s *Service) Catalog(ctx context.Context, bookID string) ([]balance.Account, error) {
	accounts, err := s.repo.GetAccounts(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return Catalog(accounts), nil
}
