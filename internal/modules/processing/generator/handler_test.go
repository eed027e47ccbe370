package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/ai"
	"github.com/leadforge/site/internal/modules/settings"
	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	s   settings.ContentSettings
	err error
}

func (s staticSettings) Get(context.Context) (settings.ContentSettings, error) { return s.s, s.err }

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, id)
		c.Next()
	}
}

type apiEnv struct {
	router *gin.Engine
	llm    *fakeLLM
	drafts *fakeDrafts
	runs   *Registry
}

func newAPI(t *testing.T, src SettingsSource) *apiEnv {
	t.Helper()
	env := &apiEnv{
		llm:    &fakeLLM{title: "Email deliverability guide", outline: "## One\n### a\n\n## Two\n### b"},
		drafts: &fakeDrafts{},
		runs:   NewRegistry(),
	}
	orch := NewOrchestrator(ai.NewGenerator(env.llm, nil), env.drafts, Options{}, nil)
	env.router = testutil.Router()
	NewHandler(orch, env.runs, src, nil).RegisterRoutes(env.router.Group("/api/v1"), asUser("author-1"))
	return env
}

func (e *apiEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestCreateRunUsesSettings(t *testing.T) {
	s := settings.Defaults()
	s.DefaultTone = models.ToneTechnical
	env := newAPI(t, staticSettings{s: s})

	w := env.do(http.MethodPost, "/api/v1/admin/generator/runs", "")
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, StageParameters, snap.Stage)
	assert.Equal(t, models.ToneTechnical, snap.Params.Tone)
}

func TestCreateRunFallsBackWhenSettingsFail(t *testing.T) {
	env := newAPI(t, staticSettings{err: errors.New("db down")})
	w := env.do(http.MethodPost, "/api/v1/admin/generator/runs", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.ToneProfessional, decodeSnapshot(t, w).Params.Tone)
}

func TestRunLifecycleOverHTTP(t *testing.T) {
	env := newAPI(t, staticSettings{s: settings.Defaults()})
	run := env.runs.Create("author-1", settings.Defaults())
	base := "/api/v1/admin/generator/runs/" + run.ID

	w := env.do(http.MethodPost, base+"/confirm", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, base+"/submit", `{"topic":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPost, base+"/submit", `{"topic":"Email Deliverability","primaryKeyword":"email deliverability","articleSize":"small"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, StageOutline, decodeSnapshot(t, w).Stage)

	w = env.do(http.MethodPut, base+"/outline", `{"outline":"## Only section"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "## Only section", decodeSnapshot(t, w).EditedOutline)

	w = env.do(http.MethodPost, base+"/confirm", "")
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool { return run.Snapshot().PostID != "" }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, env.llm.sectionCalls())

	w = env.do(http.MethodGet, base+"/events", "")
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `data: {"type":"done"`)
	assert.Contains(t, w.Body.String(), `"postId":"post-1"`)
}

func TestSubmitUpstreamFailureIs502(t *testing.T) {
	env := newAPI(t, staticSettings{s: settings.Defaults()})
	env.llm.outlineErr = errors.New("status 529 overloaded")
	run := env.runs.Create("author-1", settings.Defaults())

	w := env.do(http.MethodPost, "/api/v1/admin/generator/runs/"+run.ID+"/submit", `{"topic":"T","primaryKeyword":"k"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate outline")
	assert.NotContains(t, w.Body.String(), "529")
}

func TestRunsAreScopedToAuthor(t *testing.T) {
	env := newAPI(t, staticSettings{s: settings.Defaults()})
	other := env.runs.Create("someone-else", settings.Defaults())

	w := env.do(http.MethodGet, "/api/v1/admin/generator/runs/"+other.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodDelete, "/api/v1/admin/generator/runs/"+other.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	mine := env.runs.Create("author-1", settings.Defaults())
	w = env.do(http.MethodDelete, "/api/v1/admin/generator/runs/"+mine.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, env.runs.Len())
}
