// Package speech captures microphone audio, turns it into text and speaks
// answers back.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goldenspoon/internal/domain"
)

// Listener records one utterance as 16 kHz mono LINEAR16 PCM.
type Listener interface {
	Listen(ctx context.Context) ([]byte, error)
}

// Recognizer transcribes PCM audio. languageTag is a BCP-47 tag such as "hi-IN".
type Recognizer interface {
	Recognize(ctx context.Context, pcm []byte, languageTag string) (string, error)
}

// Synthesizer renders text as MP3 audio. languageTag is a short code such as "hi".
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageTag string) ([]byte, error)
}

// Player plays encoded audio and returns once playback has been handed off.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Voice speaks answers.
type Voice struct {
	Synth  Synthesizer
	Player Player
}

// Speak synthesizes text in lang and plays it. Empty text is a no-op.
// Failures wrap domain.ErrSynthesis.
func (v *Voice) Speak(ctx context.Context, text string, lang domain.Language) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	audio, err := v.Synth.Synthesize(ctx, text, lang.SynthesisTag())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}
	if err := v.Player.Play(ctx, audio); err != nil {
		return fmt.Errorf("%w: play: %w", domain.ErrSynthesis, err)
	}
	return nil
}

// Ear turns one spoken utterance into text.
type Ear struct {
	Listener   Listener
	Recognizer Recognizer
}

// Hear listens for one utterance and transcribes it in lang. Every failure
// is a *domain.RecognitionError.
func (e *Ear) Hear(ctx context.Context, lang domain.Language) (string, error) {
	pcm, err := e.Listener.Listen(ctx)
	if err != nil {
		return "", classify(err, domain.UnexpectedFailure)
	}
	return e.Transcribe(ctx, pcm, lang)
}

// Transcribe recognizes already captured audio.
func (e *Ear) Transcribe(ctx context.Context, pcm []byte, lang domain.Language) (string, error) {
	if len(pcm) == 0 {
		return "", domain.NewRecognitionError(domain.NoSpeech, nil)
	}
	text, err := e.Recognizer.Recognize(ctx, pcm, lang.RecognitionTag())
	if err != nil {
		return "", classify(err, domain.ServiceUnreachable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewRecognitionError(domain.Unintelligible, nil)
	}
	return text, nil
}

func classify(err error, fallback domain.RecognitionKind) error {
	var rerr *domain.RecognitionError
	if errors.As(err, &rerr) {
		return err
	}
	return domain.NewRecognitionError(fallback, err)
}
