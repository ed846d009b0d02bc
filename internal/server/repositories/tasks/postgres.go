package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const pgTaskColumns = `id, user_id, title, description, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	prepare(task, r.now)

	query :=
		`INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, string(task.Status), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + pgTaskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, dbx.ContainsPattern(filter.Search))
		n := len(args)
		fmt.Fprintf(&sb,
			` AND (LOWER(title) LIKE LOWER($%d) ESCAPE '%s' OR LOWER(description) LIKE LOWER($%d) ESCAPE '%s')`,
			n, dbx.LikeEscape, n, dbx.LikeEscape)
	}
	sb.WriteString(` ORDER BY seq`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + pgTaskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	if !validID(task.ID) {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, string(task.Status), task.UpdatedAt, task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
