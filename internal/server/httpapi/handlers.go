package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"accessToken"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// taskResponse is the public view of a task; the owner is never exposed.
type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func newTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "OK"})
}

func signUp(auth AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if err := validation.Credentials(req.Username, req.Password); err != nil {
			return err
		}

		if err := auth.SignUp(c.Request().Context(), req.Username, req.Password); err != nil {
			return err
		}

		return c.NoContent(http.StatusCreated)
	}
}

// signIn does not validate the credentials: an account must stay reachable
// even if the signup rules change after it was created.
func signIn(auth AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return err
		}

		token, err := auth.SignIn(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, signInResponse{AccessToken: token})
	}
}

func listTasks(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := validation.StatusFilter(c.QueryParam("status"))
		if err != nil {
			return err
		}
		filter := models.TaskFilter{Status: status, Search: c.QueryParam("search")}

		list, err := tasks.ListTasks(c.Request().Context(), currentUser(c).ID, filter)
		if err != nil {
			return err
		}

		out := make([]taskResponse, 0, len(list))
		for _, t := range list {
			out = append(out, newTaskResponse(t))
		}
		return c.JSON(http.StatusOK, out)
	}
}

func createTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTaskRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if err := validation.Title(req.Title); err != nil {
			return err
		}

		task, err := tasks.CreateTask(c.Request().Context(), currentUser(c).ID, req.Title, req.Description)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, newTaskResponse(task))
	}
}

func getTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := tasks.GetTask(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newTaskResponse(task))
	}
}

func deleteTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := tasks.DeleteTask(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, statusResponse{Status: "OK"})
	}
}

func updateTaskStatus(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateStatusRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		status, err := validation.Status(req.Status)
		if err != nil {
			return err
		}

		task, err := tasks.UpdateStatus(c.Request().Context(), currentUser(c).ID, c.Param("id"), status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newTaskResponse(task))
	}
}
