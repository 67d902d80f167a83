package utils

// Detection sources recorded in Entity.Source
const (
	// SourceRecognizer marks entities produced by the learned named-entity recognizer
	SourceRecognizer = "recognizer"

	// SourcePattern marks entities produced by a regex pattern matcher
	SourcePattern = "pattern"
)

// Entity represents one detected sensitive span in a scanned text.
// Start and End are half-open byte offsets into the original text, so
// text[Start:End] == Text always holds.
type Entity struct {
	// The exact substring matched
	Text string `json:"text"`

	// Category label, e.g. "PERSON", "EMAIL", "CREDIT_CARD"
	Category string `json:"label"`

	// Half-open span offsets into the original text
	Start int `json:"start"`
	End   int `json:"end"`

	// Which detector produced the entity ("recognizer" or "pattern");
	// kept for diagnostics, redaction ignores it
	Source string `json:"source,omitempty"`

	// Language code used for detection ("en" or "fr")
	Language string `json:"language,omitempty"`
}

// Overlaps reports whether the spans of e and other share any byte position.
func (e Entity) Overlaps(other Entity) bool {
	return !(e.End <= other.Start || e.Start >= other.End)
}
