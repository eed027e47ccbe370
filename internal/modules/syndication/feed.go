package syndication

import (
	"encoding/xml"
	"time"

	"github.com/gin-gonic/gin"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Link     atomLink    `xml:"link"`
	Updated  string      `xml:"updated"`
	ID       string      `xml:"id"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Summary string      `xml:"summary,omitempty"`
	Content atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// rss GET /feed.xml
func (h *Handler) rss(c *gin.Context) {
	posts, ok := h.load(c, feedSize)
	if !ok {
		return
	}
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.site.Name,
			Link:          h.site.URL,
			Description:   h.site.Description,
			LastBuildDate: h.now().Format(time.RFC1123Z),
		},
	}
	for i := range posts {
		p := &posts[i]
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        h.postURL(p),
			GUID:        p.ID,
			PubDate:     publishedAt(p).Format(time.RFC1123Z),
			Description: p.Excerpt,
		})
	}
	writeXML(c, "application/rss+xml; charset=utf-8", doc)
}

// atom GET /atom.xml
func (h *Handler) atom(c *gin.Context) {
	posts, ok := h.load(c, feedSize)
	if !ok {
		return
	}
	feed := atomFeed{
		XMLNS:    "http://www.w3.org/2005/Atom",
		Title:    h.site.Name,
		Subtitle: h.site.Description,
		Link:     atomLink{Href: h.site.URL},
		Updated:  h.now().Format(time.RFC3339),
		ID:       h.site.URL + "/",
	}
	for i := range posts {
		p := &posts[i]
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   p.Title,
			Link:    atomLink{Href: h.postURL(p)},
			ID:      "urn:uuid:" + p.ID,
			Updated: p.UpdatedAt.Format(time.RFC3339),
			Summary: p.Excerpt,
			Content: atomContent{Type: "html", Body: p.Content},
		})
	}
	writeXML(c, "application/atom+xml; charset=utf-8", feed)
}
