package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/codepulse/internal/config"
	"github.com/blackwell-systems/codepulse/internal/query"
	"github.com/blackwell-systems/codepulse/internal/store"
)

// withQuery loads config, opens the local database, and hands a query
// service plus the resolved username to fn. The database is closed when fn
// returns.
func withQuery(fn func(ctx context.Context, q *query.Service, username string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	user, err := resolveUser(cfg)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return fn(context.Background(), query.New(db), user)
}

// openStore loads config and opens the local database directly, for
// commands that bypass the query layer.
func openStore() (*config.Config, *store.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
