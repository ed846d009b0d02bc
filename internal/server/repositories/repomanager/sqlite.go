package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/filex"
	"github.com/dmitrijs2005/gophtasks/internal/server/migrations"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded sqlite migrations with goose.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, migrations.SQLiteDir); err != nil {
		return err
	}
	return nil
}

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

func openSQLite(path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if path == ":memory:" {
		db, err := sql.Open("sqlite", ":memory:?"+sqlitePragmas)
		if err != nil {
			return nil, err
		}
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		return db, nil
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	dsn := "file:" + filepath.Clean(path) + "?" + sqlitePragmas + "&_pragma=journal_mode(WAL)"
	return sql.Open("sqlite", dsn)
}
