package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/speech"
)

const (
	DefaultTTSURL = "https://texttospeech.googleapis.com/v1"
	// MaxInputBytes stays under the 5000 byte request limit.
	MaxInputBytes = 4500
)

// locales maps short synthesis codes to the locale the API expects.
var locales = map[string]string{
	"en": "en-US",
	"hi": "hi-IN",
}

type TTSConfig struct {
	BaseURL string
	APIKey  string
	// Voices optionally pins a voice name per synthesis code, e.g. "hi": "hi-IN-Neural2-A".
	Voices        map[string]string
	MaxInputBytes int
	Timeout       time.Duration
}

type synthRequest struct {
	Input       synthInput       `json:"input"`
	Voice       synthVoice       `json:"voice"`
	AudioConfig synthAudioConfig `json:"audioConfig"`
}

type synthInput struct {
	Text string `json:"text"`
}

type synthVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
}

type synthAudioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type synthResponse struct {
	AudioContent string `json:"audioContent"` // base64-encoded
}

// Synthesizer implements speech.Synthesizer with text:synthesize, MP3 output.
type Synthesizer struct {
	baseURL  string
	apiKey   string
	voices   map[string]string
	maxBytes int
	client   *http.Client
}

var _ speech.Synthesizer = (*Synthesizer)(nil)

func NewSynthesizer(cfg TTSConfig) (*Synthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: google speech synthesis requires an API key", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTTSURL
	}
	if cfg.MaxInputBytes <= 0 || cfg.MaxInputBytes > MaxInputBytes {
		cfg.MaxInputBytes = MaxInputBytes
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Synthesizer{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		voices:   cfg.Voices,
		maxBytes: cfg.MaxInputBytes,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Synthesize renders text as one MP3 stream. Long text is sent in sentence
// aligned pieces and the MP3 frames are concatenated.
func (g *Synthesizer) Synthesize(ctx context.Context, text, languageTag string) ([]byte, error) {
	pieces := speech.SplitText(text, g.maxBytes)
	if len(pieces) == 0 {
		return nil, nil
	}
	locale, ok := locales[languageTag]
	if !ok {
		locale = languageTag
	}

	var audio bytes.Buffer
	for i, piece := range pieces {
		req := synthRequest{
			Input:       synthInput{Text: piece},
			Voice:       synthVoice{LanguageCode: locale, Name: g.voices[languageTag]},
			AudioConfig: synthAudioConfig{AudioEncoding: "MP3"},
		}
		var resp synthResponse
		if err := doJSON(ctx, g.client, g.baseURL+"/text:synthesize", g.apiKey, req, &resp); err != nil {
			return nil, fmt.Errorf("google TTS piece %d/%d: %w", i+1, len(pieces), err)
		}
		chunk, err := base64.StdEncoding.DecodeString(resp.AudioContent)
		if err != nil {
			return nil, fmt.Errorf("google TTS decode audio: %w", err)
		}
		audio.Write(chunk)
	}
	return audio.Bytes(), nil
}
