package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageDynamoDB = "dynamodb"
	StorageSQLite   = "sqlite"
)

// Config represents the application configuration
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string
	// Optional endpoint override, e.g. DynamoDB Local
	DynamoDBEndpoint string

	// Environment and region info
	Environment string
	Region      string

	// STORAGE_BACKEND selects where ledgers are kept
	StorageBackend string
	SQLitePath     string

	LogLevel       string
	ReportCacheTTL time.Duration

	// Book used when a request does not name one
	DefaultBookID string

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables. A .env file in the
// working directory is read first when present; variables already set take precedence.
func LoadFromEnv(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}

	// Environment and region info
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default to dev environment
	}

	cfg.Region = os.Getenv("REGION")
	if cfg.Region == "" {
		cfg.Region = "jp"
	}

	// AWS Region
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		switch cfg.Region {
		case "us":
			cfg.AWSRegion = "us-west-2"
		case "eu":
			cfg.AWSRegion = "eu-west-1"
		default:
			cfg.AWSRegion = "ap-northeast-1"
		}
	}

	// Check if running in Lambda
	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if cfg.StorageBackend == "" {
		if cfg.isLambda {
			cfg.StorageBackend = StorageDynamoDB
		} else {
			cfg.StorageBackend = StorageSQLite
		}
	}

	cfg.DynamoDBTableName = os.Getenv("DYNAMODB_TABLE_NAME")
	cfg.DynamoDBEndpoint = os.Getenv("DYNAMODB_ENDPOINT")

	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "./data/ledger.db"
	}

	switch cfg.StorageBackend {
	case StorageDynamoDB:
		if cfg.DynamoDBTableName == "" {
			return nil, errors.New("DYNAMODB_TABLE_NAME environment variable is required")
		}
	case StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.ReportCacheTTL = 5 * time.Minute
	if raw := os.Getenv("REPORT_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REPORT_CACHE_TTL: %w", err)
		}
		cfg.ReportCacheTTL = ttl
	}

	cfg.DefaultBookID = os.Getenv("DEFAULT_BOOK_ID")

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}
