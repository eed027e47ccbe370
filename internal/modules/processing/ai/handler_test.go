package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	appcfg "github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(c Completer, authMW ...gin.HandlerFunc) *gin.Engine {
	r := testutil.Router()
	cfg := appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "primary", Type: "OpenAI", DefaultModel: "gpt-4o-mini", Enabled: true},
		{ID: "backup", Type: "Anthropic", Enabled: false},
	}}
	NewHandler(NewGenerator(c, nil), cfg, nil).RegisterRoutes(r.Group("/api/v1"), authMW...)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateRoutesRejectNonPost(t *testing.T) {
	denyAll := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	r := newTestRouter(&recordingCompleter{response: "x"}, denyAll)

	for _, stage := range []string{"title", "outline", "section"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := doJSON(r, method, "/api/v1/ai/generate/"+stage, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method+" "+stage)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
			assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
		}
	}
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/api/v1/ai/generate/title", TitleRequest{Topic: "t", PrimaryKeyword: "k"}).Code)
}

func TestGenerateRoutesSuccess(t *testing.T) {
	rc := &recordingCompleter{response: "Generated"}
	r := newTestRouter(rc)

	w := doJSON(r, http.MethodPost, "/api/v1/ai/generate/title", TitleRequest{Topic: "Email Deliverability", PrimaryKeyword: "email deliverability"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Generated"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/ai/generate/outline", OutlineRequest{
		Title: "t", PrimaryKeyword: "k", Size: tiers["medium"],
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"outline":"Generated"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/ai/generate/section", SectionRequest{
		Title: "t", Section: "## s", SectionIndex: 0, TotalSections: 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"<p>Generated</p>"}`, w.Body.String())
}

func TestGenerateRoutesHideUpstreamErrors(t *testing.T) {
	secret := errors.New("401 invalid api key sk-live-123")
	r := newTestRouter(&recordingCompleter{err: &CompletionError{Provider: "openai", StatusCode: 401, Err: secret}})

	cases := map[string]interface{}{
		"title":   TitleRequest{Topic: "t", PrimaryKeyword: "k"},
		"outline": OutlineRequest{Title: "t", PrimaryKeyword: "k", Size: tiers["small"]},
		"section": SectionRequest{Title: "t", Section: "## s", TotalSections: 1},
	}
	for stage, body := range cases {
		w := doJSON(r, http.MethodPost, "/api/v1/ai/generate/"+stage, body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, stage)
		assert.JSONEq(t, `{"error":"Failed to generate `+stage+`"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "sk-live")
	}
}

func TestGenerateRoutesValidateBody(t *testing.T) {
	rc := &recordingCompleter{response: "x"}
	r := newTestRouter(rc)

	w := doJSON(r, http.MethodPost, "/api/v1/ai/generate/title", map[string]string{"topic": "only topic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodPost, "/api/v1/ai/generate/section", map[string]interface{}{"title": "t", "section": "s", "totalSections": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, rc.calls)
}

func TestGenerateRoutesRejectBadShapesWithoutCalling(t *testing.T) {
	rc := &recordingCompleter{response: "x"}
	r := newTestRouter(rc)

	w := doJSON(r, http.MethodPost, "/api/v1/ai/generate/outline", OutlineRequest{
		Title: "t", PrimaryKeyword: "k", Size: SizeSpec{Words: Range{Min: 800, Max: 1200}, Headings: Range{Min: 6, Max: 4}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid generation request")

	for _, idx := range []int{-1, 3, 7} {
		w = doJSON(r, http.MethodPost, "/api/v1/ai/generate/section", SectionRequest{
			Title: "t", Section: "## s", SectionIndex: idx, TotalSections: 3,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, idx)
		assert.Contains(t, w.Body.String(), "sectionIndex")
	}
	assert.Empty(t, rc.calls)
}

func TestListProvidersHidesKeys(t *testing.T) {
	r := newTestRouter(&recordingCompleter{})
	w := doJSON(r, http.MethodGet, "/api/v1/ai/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []providerInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.True(t, body.Data[0].Active)
	assert.False(t, body.Data[1].Active)
	assert.NotContains(t, w.Body.String(), "api_key")
}
