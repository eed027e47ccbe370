// Package richtext holds the one HTML document abstraction used by the post
// editor, plus markdown import helpers.
package richtext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Document is an editable HTML body. Listeners registered with OnChange run
// after every SetHTML that changes the content.
type Document interface {
	HTML() string
	SetHTML(html string)
	OnChange(fn func(html string))
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "section")
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div", "figure")
	p.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	p.RequireNoFollowOnLinks(false)
	return p
}

// Sanitize strips scripts, event handlers and unknown elements from html.
func Sanitize(html string) string {
	return strings.TrimSpace(policy.Sanitize(html))
}

type document struct {
	mu        sync.Mutex
	html      string
	listeners []func(string)
}

// NewDocument returns a Document holding the sanitized form of html.
func NewDocument(html string) Document {
	return &document{html: Sanitize(html)}
}

func (d *document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.html
}

func (d *document) SetHTML(html string) {
	clean := Sanitize(html)
	d.mu.Lock()
	if clean == d.html {
		d.mu.Unlock()
		return
	}
	d.html = clean
	listeners := append([]func(string){}, d.listeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(clean)
	}
}

func (d *document) OnChange(fn func(html string)) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}
