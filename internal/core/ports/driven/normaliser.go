package driven

// Normaliser turns raw note text into the text that is embedded and shown
// to the labeling oracle.
type Normaliser interface {
	// SupportedExtensions returns the file extensions handled, without a dot.
	SupportedExtensions() []string

	// Normalise returns the cleaned text.
	Normalise(content string) string
}
