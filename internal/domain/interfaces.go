package domain

// Document is one entry of the restaurant knowledge base.
type Document struct {
	ID      string
	Content string
}

// Record is a document together with its document-mode embedding.
type Record struct {
	Document Document
	Vector   []float64
}

// SearchResult represents a matching document with a relevance score.
type SearchResult struct {
	Document Document
	Score    float64
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry of the visible conversation log.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Language is the session-scoped reply and speech language.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
)

// DefaultLanguage is used for new sessions.
const DefaultLanguage = English

// ParseLanguage accepts a language code or its display name.
func ParseLanguage(s string) (Language, bool) {
	switch s {
	case "en", "EN", "English", "english":
		return English, true
	case "hi", "HI", "Hindi", "hindi":
		return Hindi, true
	}
	return "", false
}

// Directive is prepended to every prompt so the model answers in the language.
func (l Language) Directive() string {
	if l == Hindi {
		return "कृपया हिन्दी में उत्तर दें। "
	}
	return ""
}

// RecognitionTag is the BCP-47 tag sent to speech recognition.
func (l Language) RecognitionTag() string {
	if l == Hindi {
		return "hi-IN"
	}
	return "en-US"
}

// SynthesisTag is the language code sent to speech synthesis.
func (l Language) SynthesisTag() string {
	if l == Hindi {
		return "hi"
	}
	return "en"
}

// DisplayName is the label shown by the language selector.
func (l Language) DisplayName() string {
	if l == Hindi {
		return "Hindi"
	}
	return "English"
}
