package search

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// highlightPolicy keeps only the emphasis markup search engines emit.
var highlightPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("em", "mark", "b", "strong")
	return p
}()

// ExtractHighlight returns the engine-highlighted content snippet of a hit,
// truncated and stripped of any markup other than emphasis.
func ExtractHighlight(h Hit) string {
	if h.Formatted == nil || h.Formatted.ContentText == "" {
		return ""
	}
	return highlightPolicy.Sanitize(truncate(h.Formatted.ContentText, descriptionLimit))
}

// Highlight HTML-escapes text and wraps every case-insensitive occurrence of
// query in <mark class="search-highlight">. Matching runs on the raw text so
// a query never lands inside an entity. A blank query only escapes.
func Highlight(text, query string) string {
	if strings.TrimSpace(query) == "" {
		return html.EscapeString(text)
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))

	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString(`<mark class="search-highlight">`)
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString(`</mark>`)
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
