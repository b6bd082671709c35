package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hirosato/ledger-balance/backend/internal/api/mcp/resources"
	"github.com/hirosato/ledger-balance/backend/internal/api/mcp/tools"
	envconfig "github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/common/logger"
	"github.com/hirosato/ledger-balance/backend/internal/domain/mcp"
	"github.com/hirosato/ledger-balance/backend/internal/platform/store"
)

// NewRegistry registers the ledger tools and resources
func NewRegistry(services *store.Services, defaultBookID string) *mcp.HandlerRegistry {
	registry := mcp.NewHandlerRegistry()

	registry.RegisterTool(tools.NewGetBalanceReportTool(services.Reports, defaultBookID))
	registry.RegisterTool(tools.NewCreateJournalEntryTool(services.Journal, services.Reports, defaultBookID))
	registry.RegisterTool(tools.NewCreateAccountTool(services.Accounts, services.Reports, defaultBookID))

	registry.RegisterResourceFactory(resources.NewAccountsResourceFactory(services.Accounts))
	registry.RegisterResourceFactory(resources.NewJournalEntryResourceFactory(services.Journal))

	return registry
}

func main() {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(config.LogLevel)
	slog.SetDefault(log)

	st, err := store.Open(context.Background(), config, log)
	if err != nil {
		log.Error("Failed to open ledger store", "backend", config.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	registry := NewRegistry(st.NewServices(config, log), config.DefaultBookID)
	mcpService := mcp.NewService(log, registry)

	handler := NewMCPRequestHandler(
		mcpService,
		log,
		config,
	)

	lambda.Start(handler.HandleRequest)
}
