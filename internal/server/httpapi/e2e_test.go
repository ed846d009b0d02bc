package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSQLiteHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	db, rm, err := repomanager.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, rm.RunMigrations(ctx, db))

	m := metrics.New()
	as := services.NewAuthService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewJWTIssuer([]byte("e2e-secret"), time.Hour), logging.Nop{}, m)
	ts := services.NewTaskService(db, rm, logging.Nop{}, m)

	return NewServer(":0", as, ts, logging.Nop{}, m).Handler()
}

func signUpAndIn(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	body := `{"username":"` + username + `","password":"Secret123"}`

	rec := do(t, h, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/signin", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func TestE2E_TaskLifecycleAndIsolation(t *testing.T) {
	h := newSQLiteHandler(t)

	alice := signUpAndIn(t, h, "alice")
	bob := signUpAndIn(t, h, "bob")

	rec := do(t, h, http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"Secret123"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"Wrong1234"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"Buy milk","description":"2 liters"}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "OPEN", task.Status)

	// bob cannot see, change or delete alice's task
	rec = do(t, h, http.MethodGet, "/api/tasks/"+task.ID, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"DONE"}`, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/tasks/"+task.ID, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/tasks", "", bob)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"IN_PROGRESS"}`, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/tasks?status=IN_PROGRESS&search=LITERS", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, task.ID, list[0].ID)

	rec = do(t, h, http.MethodGet, "/api/tasks/not-a-uuid", "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+task.ID, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/tasks/"+task.ID, "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestE2E_SignupSigninScenario(t *testing.T) {
	h := newSQLiteHandler(t)

	rec := do(t, h, http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"secret2"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var in signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &in))
	token := in.AccessToken

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "OPEN", task.Status)

	rec = do(t, h, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"DONE"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "DONE", updated.Status)

	other := signUpAndIn(t, h, "bob")
	rec = do(t, h, http.MethodGet, "/api/tasks/"+task.ID, "", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestE2E_MetricsEndpoint(t *testing.T) {
	h := newSQLiteHandler(t)
	signUpAndIn(t, h, "carol")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gophtasks_auth_attempts_total{op="signup",result="ok"} 1`)
}
