package account

import (
	"time"

	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// Account is a stored catalog record. Code is the integer ledger account id used by
// balance reports; RecordID identifies the record itself, so the same Code may be
// stored more than once.
type Account struct {
	BookID    string    `json:"bookId"`
	RecordID  string    `json:"recordId"`
	Code      int       `json:"account"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// Catalog converts stored records into the catalog used for report computation,
// preserving their order.
func Catalog(accounts []*Account) []balance.Account {
	catalog := make([]balance.Account, 0, len(accounts))
	for _, acc := range accounts {
		catalog = append(catalog, balance.Account{ID: acc.Code, Label: acc.Label})
	}
	return catalog
}

// CreateAccountRequest represents the request to create a new account
type CreateAccountRequest struct {
	Account *int   `json:"account"`
	Label   string `json:"label"`
}

// Validate checks the request without touching storage
func (r *CreateAccountRequest) Validate() error {
	if r == nil || r.Account == nil {
		return errors.NewValidationError("account code is required")
	}
	return nil
}

// AccountListResponse represents the response for listing accounts
type AccountListResponse struct {
	Accounts   []*Account `json:"accounts"`
	TotalCount int        `json:"totalCount"`
}
