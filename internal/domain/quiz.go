package domain

// QuestionKind selects how a submitted answer is compared to the key.
type QuestionKind string

const (
	// KindChoice accepts exactly one canonical value.
	KindChoice QuestionKind = "choice"
	// KindText accepts any of a fixed set of literals after trimming.
	KindText   QuestionKind = "text"
	// KindMulti accepts exactly the set of values in Accept.
	KindMulti  QuestionKind = "multi"
)

// Question is one entry of the answer key. Name is the form field name.
type Question struct {
	Name   string       `json:"name" koanf:"name"`
	Kind   QuestionKind `json:"kind" koanf:"kind"`
	Accept []string     `json:"accept" koanf:"accept"`
}
