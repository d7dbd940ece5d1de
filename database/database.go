package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultSQLitePath is used when the sqlite driver is selected without a path.
const DefaultSQLitePath = "./keystack.db"

// Executor is the subset of *sql.DB the token tables need.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open 데이터베이스 연결
// driver: "sqlite" 또는 "mysql"
// dsn: SQLite 파일 경로 또는 MySQL DSN
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if dsn == "" {
		if driver != DriverSQLite {
			return nil, fmt.Errorf("dsn is required for driver %q", driver)
		}
		dsn = DefaultSQLitePath
	}

	if driver == DriverSQLite {
		if dir := sqliteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 연결 테스트
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single writer keeps sqlite from reporting SQLITE_BUSY.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// sqliteDir returns the directory holding a sqlite database file, or "" for
// in-memory databases.
func sqliteDir(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return filepath.Dir(path)
}

// CreateTables creates the token table for the given driver.
func CreateTables(ctx context.Context, db Executor, driver string) error {
	var stmt string
	switch driver {
	case DriverMySQL:
		stmt = `CREATE TABLE IF NOT EXISTS sdk_tokens (
			name VARCHAR(191) PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`
	default:
		stmt = `CREATE TABLE IF NOT EXISTS sdk_tokens (
			name VARCHAR(191) PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`
	}

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		// 이미 존재하는 테이블 오류 무시
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create sdk_tokens: %w", err)
		}
	}
	return nil
}

// UpsertTokenQuery returns the dialect-specific upsert for sdk_tokens.
func UpsertTokenQuery(driver string) string {
	if driver == DriverMySQL {
		return `INSERT INTO sdk_tokens (name, token, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE token = VALUES(token), updated_at = VALUES(updated_at)`
	}
	return `INSERT INTO sdk_tokens (name, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`
}
