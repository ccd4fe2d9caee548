package search

import "github.com/kbukum/studyhub/validation"

// Type restricts results to one entity kind.
type Type string

const (
	TypeAll       Type = "all"
	TypeDocuments Type = "documents"
	TypeSubjects  Type = "subjects"
)

// Filters narrows a search. Zero-valued fields are not sent.
type Filters struct {
	SubjectID string `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
	Type      Type   `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=all documents subjects"`
	MimeType  string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Exact     bool   `json:"exact,omitempty" yaml:"exact,omitempty"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Validate checks the filter values.
func (f Filters) Validate() error {
	return validation.Validate(f)
}
