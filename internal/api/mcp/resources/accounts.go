package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hirosato/ledger-balance/backend/internal/common/utils"
	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
)

// AccountsPrefix is the URI prefix of account catalog resources
const AccountsPrefix = "ledger://accounts/"

// AccountsResource lists a book's account records in creation order
type AccountsResource struct {
	accountService *account.Service
	bookID         string
}

func (r *AccountsResource) GetURI() string {
	return AccountsPrefix + r.bookID
}

func (r *AccountsResource) GetName() string {
	return fmt.Sprintf("Accounts of Book %s", r.bookID)
}

func (r *AccountsResource) GetDescription() string {
	return fmt.Sprintf("Account codes and labels recorded in book %s", r.bookID)
}

func (r *AccountsResource) GetMimeType() string {
	return "application/json"
}

func (r *AccountsResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	accounts, err := r.accountService.GetAccounts(ctx, r.bookID)
	if err != nil {
		return nil, err
	}
	return jsonContents(r.GetURI(), accounts)
}

// AccountsResourceFactory resolves ledger://accounts/{bookId}
type AccountsResourceFactory struct {
	accountService *account.Service
}

func NewAccountsResourceFactory(accountService *account.Service) *AccountsResourceFactory {
	return &AccountsResourceFactory{accountService: accountService}
}

func (f *AccountsResourceFactory) Prefix() string {
	return AccountsPrefix
}

func (f *AccountsResourceFactory) Template() mcp.ResourceTemplate {
	return mcp.ResourceTemplate{
		URITemplate: AccountsPrefix + "{bookId}",
		Name:        "Accounts",
		Description: "The account catalog of a book",
		MimeType:    "application/json",
	}
}

func (f *AccountsResourceFactory) CreateResource(uri string) (mcp.ResourceHandler, error) {
	bookID := strings.TrimPrefix(uri, AccountsPrefix)
	if strings.Contains(bookID, "/") {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid URI pattern: %s", uri), nil)
	}
	if err := utils.ValidateBookID(bookID); err != nil {
		return nil, err
	}
	return &AccountsResource{accountService: f.accountService, bookID: bookID}, nil
}

func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal resource", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContent{
			{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
