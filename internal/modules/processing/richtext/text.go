package richtext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripAll = bluemonday.StrictPolicy()

// PlainText drops every tag from s and collapses whitespace.
func PlainText(s string) string {
	text := html.UnescapeString(stripAll.Sanitize(blockBreaks.Replace(s)))
	return strings.Join(strings.Fields(text), " ")
}

var blockBreaks = strings.NewReplacer("</p>", "</p> ", "</h2>", "</h2> ", "</h3>", "</h3> ", "</li>", "</li> ", "<br>", " ", "<br/>", " ")

// Excerpt returns at most max runes of s's plain text, cut on a word boundary.
func Excerpt(s string, max int) string {
	text := PlainText(s)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
