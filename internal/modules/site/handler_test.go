package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePosts struct {
	posts []models.PostModel
	err   error
	n     int
}

func (f *fakePosts) Latest(_ context.Context, n int) ([]models.PostModel, error) {
	f.n = n
	return f.posts, f.err
}

func get(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.Router()
	h.RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPricing(t *testing.T) {
	w := get(t, NewHandler(&fakePosts{}, nil), "/api/v1/site/pricing")
	require.Equal(t, http.StatusOK, w.Code)

	var got Pricing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Plans, 4)
	assert.NotEmpty(t, got.CreditCosts)
	highlighted := 0
	for _, p := range got.Plans {
		if p.Highlighted {
			highlighted++
		}
	}
	assert.Equal(t, 1, highlighted)
}

func TestLandingShowsLatestPosts(t *testing.T) {
	src := &fakePosts{posts: []models.PostModel{{Title: "A", Slug: "a"}, {Title: "B", Slug: "b"}}}
	w := get(t, NewHandler(src, nil), "/api/v1/site/landing")
	require.Equal(t, http.StatusOK, w.Code)

	var got Landing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, src.n)
	require.Len(t, got.LatestPosts, 2)
	assert.Equal(t, "a", got.LatestPosts[0].Slug)
	assert.NotEmpty(t, got.Headline)
}

func TestLandingSurvivesPostFailure(t *testing.T) {
	w := get(t, NewHandler(&fakePosts{err: errors.New("db down")}, nil), "/api/v1/site/landing")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"latestPosts":[]`)
}
