// Package session holds per-user conversation state between turns.
package session

import (
	"sync"

	"goldenspoon/internal/domain"
)

// State is one user's session: reply language, the visible conversation
// log and the pending inputs for the next cycle. It is safe for concurrent use.
type State struct {
	mu           sync.Mutex
	turn         sync.Mutex
	id           string
	language     domain.Language
	log          []domain.Turn
	pendingVoice string
	hasVoice     bool
	pendingTyped string
	hasTyped     bool
}

func NewState(id string) *State {
	return &State{id: id, language: domain.DefaultLanguage}
}

func (s *State) ID() string { return s.id }

// BeginTurn claims the session for one cycle. It reports false while another
// cycle holds it; a successful claim must be released with EndTurn.
func (s *State) BeginTurn() bool { return s.turn.TryLock() }

func (s *State) EndTurn() { s.turn.Unlock() }

func (s *State) Language() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *State) SetLanguage(l domain.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = l
}

// Log returns a copy of the conversation log.
func (s *State) Log() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Turn(nil), s.log...)
}

// Append adds a turn to the end of the log.
func (s *State) Append(t domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, t)
}

// ClearLog empties the visible log. Model memory is not affected.
func (s *State) ClearLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
}

// SubmitVoice stores a recognized utterance for the next cycle.
func (s *State) SubmitVoice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingVoice, s.hasVoice = text, true
}

// SubmitTyped stores typed input for the next cycle, replacing any earlier
// typed input that was not consumed yet.
func (s *State) SubmitTyped(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingTyped, s.hasTyped = text, true
}

// NextUtterance consumes exactly one pending input. A pending voice result
// wins over typed input, which then stays queued for the following cycle.
func (s *State) NextUtterance() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.hasVoice:
		text := s.pendingVoice
		s.pendingVoice, s.hasVoice = "", false
		return text, true
	case s.hasTyped:
		text := s.pendingTyped
		s.pendingTyped, s.hasTyped = "", false
		return text, true
	}
	return "", false
}

// HasPending reports whether any input is waiting.
func (s *State) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasVoice || s.hasTyped
}

// Snapshot is a serializable view of the state.
type Snapshot struct {
	ID       string          `json:"id"`
	Language domain.Language `json:"language"`
	Log      []domain.Turn   `json:"log"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := append([]domain.Turn(nil), s.log...)
	if log == nil {
		log = []domain.Turn{}
	}
	return Snapshot{ID: s.id, Language: s.language, Log: log}
}
