// Package repomanager vends repositories bound to a dbx.DBTX for one storage
// backend and owns that backend's schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}

const sqliteScheme = "sqlite://"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the database named by dsn and picks the matching manager.
// "sqlite://<path>" selects SQLite (":memory:" is allowed); anything else is
// handed to the pgx driver. Migrations are not run.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	if path, ok := strings.CutPrefix(dsn, sqliteScheme); ok {
		db, err = openSQLite(path)
		m = NewSQLiteRepositoryManager()
	} else {
		db, err = sql.Open("pgx", dsn)
		m = NewPostgresRepositoryManager()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, m, nil
}
