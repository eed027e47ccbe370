package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSanitizesAndNotifies(t *testing.T) {
	doc := NewDocument(`<p onclick="x()">Hi</p><script>alert(1)</script>`)
	assert.Equal(t, "<p>Hi</p>", doc.HTML())

	var seen []string
	doc.OnChange(func(html string) { seen = append(seen, html) })

	doc.SetHTML("<p>Hi</p>")
	assert.Empty(t, seen, "unchanged content does not notify")

	doc.SetHTML(`<h2>Title</h2><p>Body <a href="https://example.com">link</a></p>`)
	require.Len(t, seen, 1)
	assert.Contains(t, seen[0], "<h2>Title</h2>")
	assert.Equal(t, seen[0], doc.HTML())
}

func TestPlainTextAndExcerpt(t *testing.T) {
	html := "<h2>Why it matters</h2><p>Bounce rates &amp; spam traps hurt sender reputation.</p>"
	assert.Equal(t, "Why it matters Bounce rates & spam traps hurt sender reputation.", PlainText(html))

	ex := Excerpt(html, 30)
	assert.True(t, strings.HasSuffix(ex, "…"))
	assert.LessOrEqual(t, len([]rune(ex)), 31)
	assert.Equal(t, "Short", Excerpt("<p>Short</p>", 30))
}

func TestParseMarkdownFile(t *testing.T) {
	src := "---\ntitle: Cold Email Benchmarks\nslug: cold-email-benchmarks\ntags: [email, outbound]\n---\n\nIntro paragraph.\n\n## Results\n"
	fm, body, err := ParseMarkdownFile(src)
	require.NoError(t, err)
	assert.Equal(t, "Cold Email Benchmarks", fm.Title)
	assert.Equal(t, "cold-email-benchmarks", fm.Slug)
	assert.Equal(t, []string{"email", "outbound"}, fm.Tags)
	assert.Equal(t, "Intro paragraph.\n\n## Results", body)

	fm, body, err = ParseMarkdownFile("# Heading Title\n\nText")
	require.NoError(t, err)
	assert.Equal(t, "Heading Title", fm.Title)
	assert.Equal(t, "Text", body)

	_, _, err = ParseMarkdownFile("just text")
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestFromMarkdown(t *testing.T) {
	html, err := FromMarkdown("## Results\n\nOpen rates **rose**.\n\n<script>x</script>")
	require.NoError(t, err)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<strong>rose</strong>")
	assert.NotContains(t, html, "script")
}
