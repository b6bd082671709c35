package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hirosato/ledger-balance/backend/internal/api/handlers"
	envconfig "github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/common/logger"
	"github.com/hirosato/ledger-balance/backend/internal/platform/store"
)

func main() {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(config.LogLevel)
	slog.SetDefault(log)

	zapLogger, err := logger.NewZap(config.Environment)
	if err != nil {
		log.Error("Failed to initialize zap logger", "error", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	st, err := store.Open(context.Background(), config, log)
	if err != nil {
		log.Error("Failed to open ledger store", "backend", config.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	services := st.NewServices(config, log)
	api := handlers.NewAPI(services.Accounts, services.Journal, services.Reports, config.DefaultBookID, zapLogger)

	lambda.Start(func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return api(ctx, log, request)
	})
}
