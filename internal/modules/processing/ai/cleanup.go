package ai

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

var (
	fencePattern     = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")
	h3Pattern        = regexp.MustCompile(`(?m)^[ \t]*###[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	h2Pattern        = regexp.MustCompile(`(?m)^[ \t]*##[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n\s*`)
	anyTagPattern    = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>`)
	prePattern       = regexp.MustCompile(`(?is)<pre[\s>].*?</pre>`)

	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "details": true,
	"div": true, "dl": true, "fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "ul": true,
}

var voidTags = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

// CleanupSection normalizes a section response into HTML. Text with no HTML
// tags at all is rendered as markdown. Otherwise stray ## and ### lines
// outside <pre> become <h2>/<h3>, and loose text between block elements is
// wrapped in <p>, one paragraph per blank-line separated run. Block elements
// are kept byte for byte, so clean HTML comes back unchanged.
func CleanupSection(raw string) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if s == "" {
		return ""
	}

	if !anyTagPattern.MatchString(s) {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(s), &buf); err == nil {
			return normalizeBlocks(buf.String())
		}
	}
	return normalizeBlocks(convertHeadings(s))
}

// convertHeadings rewrites markdown heading lines, leaving <pre> bodies alone.
func convertHeadings(s string) string {
	var b strings.Builder
	last := 0
	for _, loc := range prePattern.FindAllStringIndex(s, -1) {
		b.WriteString(headingLines(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(headingLines(s[last:]))
	return b.String()
}

func headingLines(s string) string {
	s = h3Pattern.ReplaceAllString(s, "<h3>$1</h3>")
	return h2Pattern.ReplaceAllString(s, "<h2>$1</h2>")
}

// blockWriter collects top-level blocks.
type blockWriter struct {
	out  []string
	para strings.Builder
}

func (w *blockWriter) emit(block string) {
	if block = strings.TrimSpace(block); block != "" {
		w.out = append(w.out, block)
	}
}

func (w *blockWriter) flush() {
	p := strings.TrimSpace(w.para.String())
	w.para.Reset()
	if p != "" {
		w.out = append(w.out, "<p>"+p+"</p>")
	}
}

// normalizeBlocks walks the top level of an HTML fragment. Each top-level
// block element is copied verbatim up to its matching close tag. Inline
// content between blocks becomes paragraphs; blank lines split paragraphs
// only when no inline element is open.
func normalizeBlocks(s string) string {
	var (
		w         blockWriter
		block     strings.Builder
		openName  string
		openDepth int
		inline    int
	)

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		var name string
		if tt == html.StartTagToken || tt == html.EndTagToken || tt == html.SelfClosingTagToken {
			n, _ := z.TagName()
			name = string(n)
		}

		if openDepth > 0 {
			block.WriteString(raw)
			switch {
			case tt == html.StartTagToken && name == openName:
				openDepth++
			case tt == html.EndTagToken && name == openName:
				openDepth--
			}
			if openDepth == 0 {
				w.emit(block.String())
				block.Reset()
			}
			continue
		}

		switch tt {
		case html.StartTagToken:
			switch {
			case blockTags[name] && voidTags[name]:
				w.flush()
				w.emit(raw)
			case blockTags[name]:
				w.flush()
				openName, openDepth = name, 1
				inline = 0
				block.WriteString(raw)
			default:
				if !voidTags[name] {
					inline++
				}
				w.para.WriteString(raw)
			}
		case html.SelfClosingTagToken:
			if blockTags[name] {
				w.flush()
				w.emit(raw)
			} else {
				w.para.WriteString(raw)
			}
		case html.EndTagToken:
			if blockTags[name] {
				// A closer with no opener at this level stays on its own line.
				w.flush()
				w.emit(raw)
				continue
			}
			if inline > 0 {
				inline--
			}
			w.para.WriteString(raw)
		case html.CommentToken, html.DoctypeToken:
			w.flush()
			w.emit(raw)
		case html.TextToken:
			if inline > 0 {
				w.para.WriteString(raw)
				continue
			}
			for i, piece := range blankLinePattern.Split(raw, -1) {
				if i > 0 {
					w.flush()
				}
				w.para.WriteString(piece)
			}
		}
	}
	if openDepth > 0 {
		w.emit(block.String())
	}
	w.flush()
	return strings.Join(w.out, "\n")
}
