package tasks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	msqlite "modernc.org/sqlite"
)

// sqliteLower is a Unicode-aware replacement for the built-in LOWER, which
// only folds ASCII letters.
const sqliteLower = "utf8_lower"

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(sqliteLower, 1, utf8Lower)
}

func utf8Lower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteRepository stores timestamps as unix milliseconds and keeps
// insertion order through rowid.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const sqliteTaskColumns = `id, user_id, title, description, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var createdAt, updatedAt int64
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	task.CreatedAt = time.UnixMilli(createdAt).UTC()
	task.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return task, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	prepare(task, r.now)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, string(task.Status),
		task.CreatedAt.UnixMilli(), task.UpdatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE user_id = ?`)
	args := []any{userID}

	if filter.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Search != "" {
		pattern := dbx.ContainsPattern(filter.Search)
		like := sqliteLower + `(%s) LIKE ` + sqliteLower + `(?) ESCAPE '` + dbx.LikeEscape + `'`
		sb.WriteString(` AND (` + fmt.Sprintf(like, "title") + ` OR ` + fmt.Sprintf(like, "description") + `)`)
		args = append(args, pattern, pattern)
	}
	sb.WriteString(` ORDER BY rowid`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	task, err := scanSQLiteTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, task *models.Task) error {
	if !validID(task.ID) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title, task.Description, string(task.Status), task.UpdatedAt.UnixMilli(), task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}
