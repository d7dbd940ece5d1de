package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"keystack/database"
)

// DefaultTokenName is the row name used when none is configured.
const DefaultTokenName = "default"

// SQLAdapter stores the token as a named row in the sdk_tokens table.
type SQLAdapter struct {
	db     database.Executor
	driver string
	name   string
	closer func() error
}

// NewSQLAdapter prepares the sdk_tokens table on db and returns an adapter for
// the row called name. The caller keeps ownership of db.
func NewSQLAdapter(ctx context.Context, db database.Executor, driver, name string) (*SQLAdapter, error) {
	if driver == "" {
		driver = database.DriverSQLite
	}
	if name == "" {
		name = DefaultTokenName
	}
	if err := database.CreateTables(ctx, db, driver); err != nil {
		return nil, err
	}
	return &SQLAdapter{db: db, driver: driver, name: name}, nil
}

// OpenSQLAdapter opens its own connection; Close releases it.
func OpenSQLAdapter(ctx context.Context, driver, dsn, name string) (*SQLAdapter, error) {
	db, err := database.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	a, err := NewSQLAdapter(ctx, db, driver, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closer = db.Close
	return a, nil
}

func (a *SQLAdapter) Store(ctx context.Context, token string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := a.db.ExecContext(ctx, database.UpsertTokenQuery(a.driver), a.name, token, now); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (a *SQLAdapter) Retrieve(ctx context.Context) (string, bool, error) {
	var token string
	err := a.db.QueryRowContext(ctx, "SELECT token FROM sdk_tokens WHERE name = ?", a.name).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query token: %w", err)
	}
	return token, token != "", nil
}

func (a *SQLAdapter) Clear(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM sdk_tokens WHERE name = ?", a.name); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Close closes the connection when the adapter opened it.
func (a *SQLAdapter) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

var _ TokenStorageAdapter = (*SQLAdapter)(nil)
