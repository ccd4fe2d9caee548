package search

// descriptionLimit caps descriptions and highlights, in characters.
const descriptionLimit = 200

// Response is the search endpoint payload.
type Response struct {
	Hits               []Hit  `json:"hits" yaml:"hits"`
	Query              string `json:"query" yaml:"query"`
	ProcessingTimeMs   int    `json:"processingTimeMs" yaml:"processing_time_ms"`
	EstimatedTotalHits int    `json:"estimatedTotalHits" yaml:"estimated_total_hits"`
	Limit              int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset             int    `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Results transforms every hit.
func (r Response) Results() []Result {
	out := make([]Result, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, Transform(h))
	}
	return out
}

// Hit is one raw search-engine document. Documents carry a mime type;
// subjects do not.
type Hit struct {
	ID            string        `json:"id"`
	SubjectID     string        `json:"subject_id,omitempty"`
	MimeType      string        `json:"mime_type,omitempty"`
	OriginalName  string        `json:"original_name,omitempty"`
	ContentText   string        `json:"content_text,omitempty"`
	FileSize      int64         `json:"file_size,omitempty"`
	NameEN        string        `json:"name_en,omitempty"`
	NameCS        string        `json:"name_cs,omitempty"`
	DescriptionEN string        `json:"description_en,omitempty"`
	DescriptionCS string        `json:"description_cs,omitempty"`
	Code          string        `json:"code,omitempty"`
	Credits       int           `json:"credits,omitempty"`
	CreatedAt     string        `json:"created_at,omitempty"`
	Formatted     *FormattedHit `json:"_formatted,omitempty"`
}

// FormattedHit holds engine-highlighted copies of hit fields.
type FormattedHit struct {
	ContentText string `json:"content_text,omitempty"`
}

// ResultType is the kind of entity a result points at.
type ResultType string

const (
	ResultDocument ResultType = "document"
	ResultSubject  ResultType = "subject"
)

// Result is a display-ready search hit.
type Result struct {
	Type        ResultType `json:"type" yaml:"type"`
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Highlight   string     `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Score       float64    `json:"score" yaml:"score"`
	SubjectID   string     `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
	MimeType    string     `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	FileSize    int64      `json:"file_size,omitempty" yaml:"file_size,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Code        string     `json:"code,omitempty" yaml:"code,omitempty"`
	Credits     int        `json:"credits,omitempty" yaml:"credits,omitempty"`
}

// Transform converts a raw hit into a Result.
func Transform(h Hit) Result {
	r := Result{
		ID:        h.ID,
		SubjectID: h.SubjectID,
		MimeType:  h.MimeType,
		FileSize:  h.FileSize,
		CreatedAt: h.CreatedAt,
		Code:      h.Code,
		Credits:   h.Credits,
		Highlight: ExtractHighlight(h),
	}

	if h.MimeType != "" {
		r.Type = ResultDocument
		r.Title = firstNonEmpty(h.OriginalName, "Unnamed Document")
		r.Description = firstNonEmpty(truncate(h.ContentText, descriptionLimit), "No description")
		return r
	}

	r.Type = ResultSubject
	r.Title = firstNonEmpty(h.NameEN, h.NameCS, "Unnamed Subject")
	r.Description = firstNonEmpty(h.DescriptionEN, h.DescriptionCS)
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
