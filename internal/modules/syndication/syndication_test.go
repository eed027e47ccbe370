package syndication

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type stubPosts struct {
	posts []models.PostModel
	err   error
	asked int
}

func (s *stubPosts) Latest(_ context.Context, n int) ([]models.PostModel, error) {
	s.asked = n
	return s.posts, s.err
}

func serve(t *testing.T, src PostSource, path string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(src, config.SiteConfig{URL: "https://leadforge.io", Name: "LeadForge", Description: "B2B data"}, nil)
	h.now = func() time.Time { return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC) }
	r := testutil.Router()
	h.RegisterRoutes(&r.RouterGroup)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func samplePost() models.PostModel {
	published := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	p := models.PostModel{
		Title:       "Clean CRM data & you",
		Slug:        "clean-crm-data",
		Excerpt:     "Why decay matters.",
		Content:     "<p>Body</p>",
		PublishedAt: &published,
	}
	p.ID = "3f1c"
	p.UpdatedAt = time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	return p
}

func TestSitemapListsPagesAndPosts(t *testing.T) {
	src := &stubPosts{posts: []models.PostModel{samplePost()}}
	w := serve(t, src, "/sitemap.xml")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "<?xml"))
	assert.Contains(t, w.Body.String(), "<loc>https://leadforge.io/pricing</loc>")
	assert.Contains(t, w.Body.String(), "<loc>https://leadforge.io/blog/clean-crm-data</loc>")
	assert.Contains(t, w.Body.String(), "<lastmod>2025-04-20</lastmod>")
	assert.Equal(t, sitemapSize, src.asked)
}

func TestRSSEscapesTitles(t *testing.T) {
	w := serve(t, &stubPosts{posts: []models.PostModel{samplePost()}}, "/feed.xml")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, w.Body.String(), "<title>Clean CRM data &amp; you</title>")
	assert.Contains(t, w.Body.String(), "<pubDate>Wed, 02 Apr 2025 09:00:00 +0000</pubDate>")
}

func TestAtomCarriesHTMLContent(t *testing.T) {
	w := serve(t, &stubPosts{posts: []models.PostModel{samplePost()}}, "/atom.xml")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<content type="html">&lt;p&gt;Body&lt;/p&gt;</content>`)
	assert.Contains(t, w.Body.String(), "<id>urn:uuid:3f1c</id>")
}

func TestFeedStoreError(t *testing.T) {
	w := serve(t, &stubPosts{err: errors.New("db down")}, "/feed.xml")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
