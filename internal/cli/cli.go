// Package cli implements the ledger command line: importing a ledger file into a book
// and printing balance reports from it.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hirosato/ledger-balance/backend/internal/common/config"
	"github.com/hirosato/ledger-balance/backend/internal/common/logger"
	"github.com/hirosato/ledger-balance/backend/internal/platform/store"
)

// Globals are the flags shared by every command
type Globals struct {
	EnvFile  string `help:"Read environment variables from this file." type:"path" placeholder:"FILE"`
	Backend  string `help:"Storage backend: dynamodb or sqlite. Defaults to STORAGE_BACKEND." placeholder:"NAME"`
	DB       string `help:"SQLite database path. Implies --backend=sqlite." type:"path" placeholder:"PATH"`
	Book     string `help:"Book to work on. Defaults to DEFAULT_BOOK_ID." short:"b"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn"`
}

// Commands lists the ledger subcommands
type Commands struct {
	Globals

	Import ImportCmd `cmd:"" help:"Load accounts and journal entries from a JSON ledger file into a book."`
	Report ReportCmd `cmd:"" help:"Print the balance report of a book."`
}

type session struct {
	cfg      *config.Config
	store    *store.Store
	services *store.Services
	bookID   string
	logger   *slog.Logger
}

func (g *Globals) open(ctx context.Context) (*session, error) {
	var envPath []string
	if g.EnvFile != "" {
		envPath = append(envPath, g.EnvFile)
	}
	switch {
	case g.DB != "":
		if err := os.Setenv("STORAGE_BACKEND", config.StorageSQLite); err != nil {
			return nil, err
		}
	case g.Backend != "":
		if err := os.Setenv("STORAGE_BACKEND", g.Backend); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadFromEnv(envPath...)
	if err != nil {
		return nil, err
	}
	if g.DB != "" {
		cfg.SQLitePath = g.DB
	}

	log := logger.NewWithWriter(os.Stderr, g.LogLevel)

	s, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	bookID := g.Book
	if bookID == "" {
		bookID = cfg.DefaultBookID
	}
	if bookID == "" {
		s.Close()
		return nil, fmt.Errorf("no book selected: pass --book or set DEFAULT_BOOK_ID")
	}

	return &session{
		cfg:      cfg,
		store:    s,
		services: s.NewServices(cfg, log),
		bookID:   bookID,
		logger:   log,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}
