package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/speech"
)

const DefaultSpeechURL = "https://speech.googleapis.com/v1"

type ASRConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	SampleRate int
	Timeout    time.Duration
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
	Model           string `json:"model,omitempty"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float32 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Recognizer implements speech.Recognizer with speech:recognize.
type Recognizer struct {
	baseURL    string
	apiKey     string
	model      string
	sampleRate int
	client     *http.Client
}

var _ speech.Recognizer = (*Recognizer)(nil)

func NewRecognizer(cfg ASRConfig) (*Recognizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: google speech recognition requires an API key", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSpeechURL
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Recognizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		sampleRate: cfg.SampleRate,
		client:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Recognize returns the best transcript. An empty result is Unintelligible;
// a transport or HTTP failure is ServiceUnreachable.
func (g *Recognizer) Recognize(ctx context.Context, pcm []byte, languageTag string) (string, error) {
	req := recognizeRequest{
		Config: recognizeConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: g.sampleRate,
			LanguageCode:    languageTag,
			Model:           g.model,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(pcm)},
	}

	var resp recognizeResponse
	if err := doJSON(ctx, g.client, g.baseURL+"/speech:recognize", g.apiKey, req, &resp); err != nil {
		return "", domain.NewRecognitionError(domain.ServiceUnreachable, fmt.Errorf("google ASR: %w", err))
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", domain.NewRecognitionError(domain.Unintelligible, nil)
	}
	return strings.Join(parts, " "), nil
}
