package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type mockAuth struct {
	signUpErr error
	signInErr error
	authErr   error

	signUpCalls int
}

func (m *mockAuth) SignUp(_ context.Context, _, _ string) error {
	m.signUpCalls++
	return m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, username, _ string) (string, error) {
	if m.signInErr != nil {
		return "", m.signInErr
	}
	return "token-for-" + username, nil
}

// Authenticate accepts only the token "good".
func (m *mockAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	if token != "good" {
		return nil, common.ErrorUnauthorized
	}
	return &models.User{ID: "u1", UserName: "alice"}, nil
}

type mockTasks struct {
	err error

	gotUserID string
	gotFilter models.TaskFilter
	gotStatus models.TaskStatus
}

func (m *mockTasks) task(id string) *models.Task {
	return &models.Task{
		ID:        id,
		Title:     "t",
		Status:    models.TaskStatusOpen,
		UserID:    m.gotUserID,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func (m *mockTasks) CreateTask(_ context.Context, userID, title, description string) (*models.Task, error) {
	m.gotUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	t := m.task("t1")
	t.Title, t.Description = title, description
	return t, nil
}

func (m *mockTasks) ListTasks(_ context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	m.gotUserID, m.gotFilter = userID, filter
	if m.err != nil {
		return nil, m.err
	}
	return []*models.Task{m.task("t1"), m.task("t2")}, nil
}

func (m *mockTasks) GetTask(_ context.Context, userID, id string) (*models.Task, error) {
	m.gotUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.task(id), nil
}

func (m *mockTasks) DeleteTask(_ context.Context, userID, _ string) error {
	m.gotUserID = userID
	return m.err
}

func (m *mockTasks) UpdateStatus(_ context.Context, userID, id string, st models.TaskStatus) (*models.Task, error) {
	m.gotUserID, m.gotStatus = userID, st
	if m.err != nil {
		return nil, m.err
	}
	t := m.task(id)
	t.Status = st
	return t, nil
}
