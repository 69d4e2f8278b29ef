package gemini

import "errors"

// ErrEmptySubject is returned when a prompt is requested for an empty
// subject name.
var ErrEmptySubject = errors.New("subject name cannot be empty")

// promptData represents the data passed to the prompt template.
type promptData struct {
	SubjectName string
	Count       int
}

// ResponseSchema represents the expected structure of a response from the
// Gemini API.
type ResponseSchema struct {
	// Terms is the array of vocabulary entries generated for the subject.
	Terms []TermSchema `json:"terms"`
}

// TermSchema represents a single vocabulary entry in the API response.
type TermSchema struct {
	// Text is the word or phrase itself.
	Text string `json:"text"`

	// Definition is a learner-oriented explanation of the term.
	Definition string `json:"definition"`

	// Examples are optional usage sentences.
	Examples []string `json:"examples,omitempty"`

	// Confidence is the model's self-assessed fit of the term to the
	// subject, between 0 and 1.
	Confidence float64 `json:"confidence"`
}
