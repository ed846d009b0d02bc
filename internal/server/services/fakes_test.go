package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeTasksRepo struct {
	createErr error
	created   *models.Task

	listOut    []*models.Task
	listErr    error
	listFilter models.TaskFilter
	listUser   string

	getOut  *models.Task
	getErr  error
	getUser string

	updateErr error
	updated   *models.Task

	deleteErr  error
	deleteID   string
	deleteUser string
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	task.ID = "t-1"
	f.created = task
	return task, nil
}

func (f *fakeTasksRepo) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	f.listUser, f.listFilter = userID, filter
	return f.listOut, f.listErr
}

func (f *fakeTasksRepo) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	f.getUser = userID
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.getOut
	return &cp, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = task
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id, userID string) error {
	f.deleteID, f.deleteUser = id, userID
	return f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository          { return m.t }

// fakeHasher "hashes" by prefixing and counts Verify calls.
type fakeHasher struct {
	hashErr  error
	verified []string
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, record string) bool {
	h.verified = append(h.verified, record)
	return strings.TrimPrefix(record, "hashed:") == plain && strings.HasPrefix(record, "hashed:")
}

type fakeTokens struct {
	issueErr  error
	issuedFor string

	verifyOut string
	verifyErr error
}

func (f *fakeTokens) Issue(username string) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issuedFor = username
	return "token-for-" + username, nil
}

func (f *fakeTokens) Verify(token string) (string, error) {
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	if f.verifyOut == "" {
		return "", errors.New("no user")
	}
	return f.verifyOut, nil
}
