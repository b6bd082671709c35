package repository

import (
	"log/slog"

	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
	logger    *slog.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *slog.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// AccountRepository returns an implementation of the account.Repository interface
func (f *Factory) AccountRepository() account.Repository {
	return NewDynamoDBAccountRepository(f.client, f.tableName, f.logger)
}

// JournalRepository returns an implementation of the journal.Repository interface
func (f *Factory) JournalRepository() journal.Repository {
	return NewDynamoDBJournalRepository(f.client, f.tableName, f.logger)
}
