package syndication

import (
	"encoding/xml"

	"github.com/gin-gonic/gin"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// staticPages are the marketing routes rendered by the frontend.
var staticPages = []struct {
	path     string
	freq     string
	priority float64
}{
	{"", "weekly", 1.0},
	{"/pricing", "monthly", 0.9},
	{"/blog", "daily", 0.8},
	{"/contact", "yearly", 0.6},
}

// sitemap GET /sitemap.xml
func (h *Handler) sitemap(c *gin.Context) {
	posts, ok := h.load(c, sitemapSize)
	if !ok {
		return
	}
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	today := h.now().Format("2006-01-02")
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.site.URL + p.path, LastMod: today, ChangeFreq: p.freq, Priority: p.priority})
	}
	for i := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.postURL(&posts[i]),
			LastMod:    posts[i].UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   0.7,
		})
	}
	writeXML(c, "application/xml; charset=utf-8", set)
}
