package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

// TaskService runs task operations on behalf of an authenticated user.
// userID always comes from the resolved account, never from request data.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewTaskService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger, m *metrics.Metrics) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: rm,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		s.metrics.ObserveTask("create", metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      models.TaskStatusOpen,
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	s.metrics.ObserveTask("create", metrics.ResultOK)
	return task, nil
}

// ListTasks returns the user's tasks, optionally narrowed by exact status and
// a case-insensitive substring of title or description.
func (s *TaskService) ListTasks(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		s.metrics.ObserveTask("list", metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, filter.Status)
	}

	tasks, err := s.repomanager.Tasks(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}

	s.metrics.ObserveTask("list", metrics.ResultOK)
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, id, userID)
	if err != nil {
		return nil, s.fail(ctx, "get", err)
	}

	s.metrics.ObserveTask("get", metrics.ResultOK)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id, userID); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.logger.Info(ctx, "task deleted", "task_id", id, "user_id", userID)
	s.metrics.ObserveTask("delete", metrics.ResultOK)
	return nil
}

// UpdateStatus sets the status of an owned task. The read and the write run
// in one transaction and both are scoped to userID.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, id string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		s.metrics.ObserveTask("update_status", metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	var updated *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.Get(ctx, id, userID)
		if err != nil {
			return err
		}

		task.Status = status
		task.UpdatedAt = s.now().UTC()
		if err := repo.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update_status", err)
	}

	s.metrics.ObserveTask("update_status", metrics.ResultOK)
	return updated, nil
}

// fail maps a store error onto the service taxonomy: NotFound passes
// through, everything else is logged and reported as ErrorInternal.
func (s *TaskService) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		s.metrics.ObserveTask(op, metrics.ResultNotFound)
		return common.ErrorNotFound
	}

	s.logger.Error(ctx, "task store failure", "op", op, "error", err)
	s.metrics.ObserveTask(op, metrics.ResultError)
	return common.ErrorInternal
}
