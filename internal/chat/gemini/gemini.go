package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"sync"

	"goldenspoon/internal/chat"
	"goldenspoon/internal/domain"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"

	roleUser  = "user"
	roleModel = "model"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Temperature is sent when non-nil.
	Temperature *float64
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

type streamRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type streamChunk struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c streamChunk) text() string {
	if len(c.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Session streams replies from streamGenerateContent and keeps the
// conversation history in process. One Session is shared by every UI
// session. The lock only guards history: a send snapshots it when the
// request starts and commits its exchange when the stream completes.
type Session struct {
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
	client      *http.Client

	mu      sync.Mutex
	history []content
	// generation changes on Reset; streams started before it do not commit.
	generation uint64
}

var _ chat.Session = (*Session)(nil)

func NewSession(cfg Config) (*Session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini chat requires an API key", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Session{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       strings.TrimPrefix(cfg.Model, "models/"),
		temperature: cfg.Temperature,
		// streams are bounded by the caller's context, not a client timeout
		client: &http.Client{},
	}, nil
}

// HistoryLen reports how many contents the model currently remembers.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset forgets the conversation. A stream in flight keeps running but its
// exchange is not remembered.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.generation++
}

func (s *Session) Send(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		userTurn := content{Role: roleUser, Parts: []part{{Text: prompt}}}
		s.mu.Lock()
		contents := append(cloneContents(s.history), userTurn)
		generation := s.generation
		s.mu.Unlock()

		body, err := s.openStream(ctx, contents)
		if err != nil {
			yield("", err)
			return
		}
		defer body.Close()

		var reply strings.Builder
		finish := ""
		sc := bufio.NewScanner(body)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" {
				continue
			}
			var chunk streamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				yield("", fmt.Errorf("decode stream event: %w", err))
				return
			}
			if chunk.Error != nil {
				yield("", fmt.Errorf("gemini stream error %d %s: %s", chunk.Error.Code, chunk.Error.Status, chunk.Error.Message))
				return
			}
			if chunk.PromptFeedback != nil && chunk.PromptFeedback.BlockReason != "" {
				yield("", fmt.Errorf("prompt blocked: %s", chunk.PromptFeedback.BlockReason))
				return
			}
			if len(chunk.Candidates) > 0 && chunk.Candidates[0].FinishReason != "" {
				finish = chunk.Candidates[0].FinishReason
			}
			text := chunk.text()
			if text == "" {
				continue
			}
			reply.WriteString(text)
			if !yield(text, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", fmt.Errorf("read stream: %w", err))
			return
		}
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		if reply.Len() == 0 {
			yield("", fmt.Errorf("model returned no text (finish reason %q)", finish))
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == generation {
			s.history = append(s.history, userTurn, content{Role: roleModel, Parts: []part{{Text: reply.String()}}})
		}
	}
}

func (s *Session) openStream(ctx context.Context, contents []content) (io.ReadCloser, error) {
	reqBody := streamRequest{Contents: contents}
	if s.temperature != nil {
		reqBody.GenerationConfig = &generationConfig{Temperature: s.temperature}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	return resp.Body, nil
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini chat: status %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func cloneContents(in []content) []content {
	out := make([]content, len(in), len(in)+1)
	copy(out, in)
	return out
}
