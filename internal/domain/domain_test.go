package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", English, true},
		{"English", English, true},
		{"hi", Hindi, true},
		{"Hindi", Hindi, true},
		{"fr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLanguageTags(t *testing.T) {
	assert.Equal(t, "", English.Directive())
	assert.Equal(t, "कृपया हिन्दी में उत्तर दें। ", Hindi.Directive())
	assert.Equal(t, "en-US", English.RecognitionTag())
	assert.Equal(t, "hi-IN", Hindi.RecognitionTag())
	assert.Equal(t, "en", English.SynthesisTag())
	assert.Equal(t, "hi", Hindi.SynthesisTag())
	assert.Equal(t, "Hindi", Hindi.DisplayName())
	assert.Equal(t, English, DefaultLanguage)
}

func TestRecognitionError(t *testing.T) {
	cause := errors.New("dial tcp")
	err := fmt.Errorf("listen: %w", NewRecognitionError(ServiceUnreachable, cause))

	kind, ok := RecognitionKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ServiceUnreachable, kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "speech recognition: no-speech", NewRecognitionError(NoSpeech, nil).Error())

	_, ok = RecognitionKindOf(cause)
	assert.False(t, ok)
}

func TestNotice(t *testing.T) {
	assert.Equal(t, "No speech detected. Please speak clearly.", Notice(NewRecognitionError(NoSpeech, nil)))
	assert.Contains(t, Notice(NewRecognitionError(Unintelligible, nil)), "could not understand")
	assert.Contains(t, Notice(NewRecognitionError(ServiceUnreachable, nil)), "internet connection")
	assert.Contains(t, Notice(NewRecognitionError(UnexpectedFailure, nil)), "microphone")
	assert.Contains(t, Notice(fmt.Errorf("%w: timeout", ErrRetrieval)), "look that up")
	assert.Contains(t, Notice(fmt.Errorf("%w: 429", ErrGeneration)), "generate an answer")
	assert.Contains(t, Notice(ErrSynthesis), "shown as text")
	assert.Equal(t, "Error: boom", Notice(errors.New("boom")))
}
