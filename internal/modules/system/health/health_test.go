package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkHealth(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.Router()
	h.RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	return w
}

func TestHealthOK(t *testing.T) {
	db, _ := testutil.MockDB(t)
	rdb, _ := testutil.Redis(t)

	w := checkHealth(t, NewHandler(db, rdb))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":true,"redis":true}`, w.Body.String())
}

func TestHealthRedisDown(t *testing.T) {
	db, _ := testutil.MockDB(t)
	rdb, mr := testutil.Redis(t)
	mr.Close()

	w := checkHealth(t, NewHandler(db, rdb))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","database":true,"redis":false}`, w.Body.String())
}

func TestHealthDatabaseClosed(t *testing.T) {
	db, _ := testutil.MockDB(t)
	rdb, _ := testutil.Redis(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	_ = sqlDB.Close()

	w := checkHealth(t, NewHandler(db, rdb))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":false`)
}
