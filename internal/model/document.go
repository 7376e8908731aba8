package model

// Label is the binary class of a news text
type Label int

const (
	LabelFake Label = 0 // Fabricated or misleading news
	LabelReal Label = 1 // Genuine news
)

func (l Label) String() string {
	switch l {
	case LabelFake:
		return "FAKE"
	case LabelReal:
		return "REAL"
	default:
		return "UNKNOWN"
	}
}

// Document is a raw news text with an optional label.
// Documents are created by the loader and never mutated afterwards.
type Document struct {
	Text     string `json:"text"`
	Label    Label  `json:"label"`
	HasLabel bool   `json:"has_label"`
	Source   string `json:"source,omitempty"` // File path or "csv:<row>"
}

// Labels returns the labels of the given documents as ints
func Labels(docs []Document) []int {
	labels := make([]int, len(docs))
	for i, d := range docs {
		labels[i] = int(d.Label)
	}
	return labels
}

// Texts returns the raw texts of the given documents
func Texts(docs []Document) []string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return texts
}
