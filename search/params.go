package search

import (
	"net/url"
	"strings"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters.
type Params []Param

// Build assembles the query parameters for q and f in a fixed order:
// q, subject_id, type, mime_type, exact, category. Empty values, type "all"
// and exact=false are omitted; an empty q is a browse request.
func Build(q string, f Filters) Params {
	var p Params
	add := func(key, value string) {
		if value != "" {
			p = append(p, Param{Key: key, Value: value})
		}
	}

	add("q", q)
	add("subject_id", f.SubjectID)
	if f.Type != TypeAll {
		add("type", string(f.Type))
	}
	add("mime_type", f.MimeType)
	if f.Exact {
		add("exact", "true")
	}
	add("category", f.Category)
	return p
}

// Encode renders the parameters as a URL query string, preserving order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// Get returns the value for key, or "".
func (p Params) Get(key string) string {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}
