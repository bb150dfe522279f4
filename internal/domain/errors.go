package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is fatal at startup (missing credential, bad config).
	ErrConfiguration = errors.New("configuration error")
	// ErrRetrieval aborts a turn when the query could not be embedded or searched.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration aborts a turn when the completion stream fails.
	ErrGeneration = errors.New("generation failed")
	// ErrSynthesis is reported as a warning; the textual answer stays committed.
	ErrSynthesis = errors.New("speech synthesis failed")
	// ErrNoInput means no utterance was pending for this cycle.
	ErrNoInput = errors.New("no input")
	// ErrSessionNotFound is returned by session repositories.
	ErrSessionNotFound = errors.New("session not found")
)

// RecognitionKind classifies voice-input failures.
type RecognitionKind string

const (
	NoSpeech           RecognitionKind = "no-speech"
	Unintelligible     RecognitionKind = "unintelligible"
	ServiceUnreachable RecognitionKind = "service-unreachable"
	UnexpectedFailure  RecognitionKind = "unexpected"
)

// RecognitionError aborts the current voice-input attempt only.
type RecognitionError struct {
	Kind RecognitionKind
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("speech recognition: %s", e.Kind)
	}
	return fmt.Sprintf("speech recognition: %s: %v", e.Kind, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// NewRecognitionError wraps err with the given kind.
func NewRecognitionError(kind RecognitionKind, err error) *RecognitionError {
	return &RecognitionError{Kind: kind, Err: err}
}

// RecognitionKindOf reports the kind of a recognition failure, if err is one.
func RecognitionKindOf(err error) (RecognitionKind, bool) {
	var rerr *RecognitionError
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return "", false
}

// Notice converts an error into the message shown to the user.
func Notice(err error) string {
	if kind, ok := RecognitionKindOf(err); ok {
		switch kind {
		case NoSpeech:
			return "No speech detected. Please speak clearly."
		case Unintelligible:
			return "Sorry, I could not understand your audio. Please try again."
		case ServiceUnreachable:
			return "Could not reach the speech recognition service; check your internet connection."
		default:
			return "An unexpected error occurred with speech recognition. Please ensure your microphone is connected and permissions are granted."
		}
	}
	switch {
	case errors.Is(err, ErrRetrieval):
		return "Sorry, I could not look that up right now. Please try again."
	case errors.Is(err, ErrGeneration):
		return "Sorry, I could not generate an answer right now. Please try again."
	case errors.Is(err, ErrSynthesis):
		return "Speech output is unavailable; the answer is shown as text."
	}
	return "Error: " + err.Error()
}
