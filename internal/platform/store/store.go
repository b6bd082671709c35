// Package store opens the ledger storage backend selected by configuration and wires
// the domain services on top of it.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/domain/account"
	"github.com/hirosato/ledger-balance/backend/internal/domain/journal"
	"github.com/hirosato/ledger-balance/backend/internal/domain/report"
	dynamoClient "github.com/hirosato/ledger-balance/backend/internal/platform/dynamodb/client"
	dynamodbRepository "github.com/hirosato/ledger-balance/backend/internal/platform/dynamodb/repository"
	"github.com/hirosato/ledger-balance/backend/internal/platform/sqlite"
)

// Store holds the repositories of one storage backend
type Store struct {
	Backend  string
	Accounts account.Repository
	Journal  journal.Repository
	close    func() error
}

// Open connects to the backend named by cfg.StorageBackend
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StorageBackend {
	case config.StorageDynamoDB:
		client, err := dynamoClient.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
		}
		factory := dynamodbRepository.NewFactory(client, cfg.DynamoDBTableName, logger)
		return &Store{
			Backend:  config.StorageDynamoDB,
			Accounts: factory.AccountRepository(),
			Journal:  factory.JournalRepository(),
			close:    func() error { return nil },
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:  config.StorageSQLite,
			Accounts: db.AccountRepository(),
			Journal:  db.JournalRepository(),
			close:    db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Close releases the backend's resources
func (s *Store) Close() error {
	return s.close()
}

// Services are the domain services every host works with
type Services struct {
	Accounts *account.Service
	Journal  *journal.Service
	Reports  *report.Service
}

// NewServices builds the domain services over the store's repositories. Reports are
// cached for cfg.ReportCacheTTL.
func (s *Store) NewServices(cfg *config.Config, logger *slog.Logger) *Services {
	accountService := account.NewService(s.Accounts)
	journalService := journal.NewService(s.Journal)
	return &Services{
		Accounts: accountService,
		Journal:  journalService,
		Reports:  report.NewService(accountService, journalService, cfg.ReportCacheTTL, logger),
	}
}
