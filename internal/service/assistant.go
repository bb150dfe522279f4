package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldenspoon/internal/chat"
	"goldenspoon/internal/domain"
	"goldenspoon/internal/logger"
	"goldenspoon/internal/prompt"
	"goldenspoon/internal/session"
)

// Stage is the position of a turn in its lifecycle.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageAwaitingInput Stage = "awaiting-input"
	StageRetrieving    Stage = "retrieving"
	StageGenerating    Stage = "generating"
	StageVoicing       Stage = "voicing"
)

// Retriever finds the knowledge base text most relevant to a question.
type Retriever interface {
	BestMatch(ctx context.Context, text string) (string, error)
}

// Speaker voices an answer.
type Speaker interface {
	Speak(ctx context.Context, text string, lang domain.Language) error
}

// Transcriber turns voice input into text. Failures are *domain.RecognitionError.
type Transcriber interface {
	Hear(ctx context.Context, lang domain.Language) (string, error)
	Transcribe(ctx context.Context, pcm []byte, lang domain.Language) (string, error)
}

// TurnHooks receive progress while a turn runs. Nil hooks are skipped.
type TurnHooks struct {
	OnStage func(Stage)
	// OnPartial receives the accumulated answer after every fragment.
	OnPartial func(buffer string)
}

func (h TurnHooks) stage(s Stage) {
	if h.OnStage != nil {
		h.OnStage(s)
	}
}

func (h TurnHooks) partial(buffer string) {
	if h.OnPartial != nil {
		h.OnPartial(buffer)
	}
}

// TurnResult describes a completed turn.
type TurnResult struct {
	Utterance string
	Context   string
	Prompt    string
	Answer    string
	// VoiceErr is set when the answer could not be spoken. The turn still counts.
	VoiceErr error
}

type Config struct {
	Retriever Retriever
	Chat      chat.Session
	// Voice and Ears are optional.
	Voice   Speaker
	Ears    Transcriber
	Metrics *Metrics
	Logger  logger.Logger

	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	VoiceTimeout      time.Duration
	ListenTimeout     time.Duration
}

// Assistant runs conversation turns against shared, process-scoped
// components. Per-user data lives in the session.State passed to each call.
type Assistant struct {
	retriever Retriever
	chat      chat.Session
	voice     Speaker
	ears      Transcriber
	metrics   *Metrics
	logger    logger.Logger

	retrievalTimeout  time.Duration
	generationTimeout time.Duration
	voiceTimeout      time.Duration
	listenTimeout     time.Duration
}

func NewAssistant(cfg Config) (*Assistant, error) {
	if cfg.Retriever == nil {
		return nil, errors.New("assistant requires a retriever")
	}
	if cfg.Chat == nil {
		return nil, errors.New("assistant requires a chat session")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &Assistant{
		retriever:         cfg.Retriever,
		chat:              cfg.Chat,
		voice:             cfg.Voice,
		ears:              cfg.Ears,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger,
		retrievalTimeout:  cfg.RetrievalTimeout,
		generationTimeout: cfg.GenerationTimeout,
		voiceTimeout:      cfg.VoiceTimeout,
		listenTimeout:     cfg.ListenTimeout,
	}, nil
}

// VoiceEnabled reports whether answers are spoken.
func (a *Assistant) VoiceEnabled() bool { return a.voice != nil }

// ListenEnabled reports whether voice input is available.
func (a *Assistant) ListenEnabled() bool { return a.ears != nil }

// Cycle consumes one pending utterance from state and answers it.
// It returns domain.ErrNoInput when nothing is pending.
func (a *Assistant) Cycle(ctx context.Context, state *session.State, hooks TurnHooks) (TurnResult, error) {
	hooks.stage(StageAwaitingInput)
	utterance, ok := state.NextUtterance()
	if !ok {
		hooks.stage(StageIdle)
		return TurnResult{}, domain.ErrNoInput
	}
	return a.HandleTurn(ctx, state, utterance, hooks)
}

// HandleTurn answers utterance and records both turns in state. Retrieval
// and generation failures leave only the user turn in the log.
func (a *Assistant) HandleTurn(ctx context.Context, state *session.State, utterance string, hooks TurnHooks) (TurnResult, error) {
	res := TurnResult{Utterance: utterance}
	if strings.TrimSpace(utterance) == "" {
		hooks.stage(StageIdle)
		return res, domain.ErrNoInput
	}
	defer hooks.stage(StageIdle)

	lang := state.Language()
	state.Append(domain.Turn{Role: domain.RoleUser, Text: utterance})

	hooks.stage(StageRetrieving)
	started := time.Now()
	rctx, cancel := withTimeout(ctx, a.retrievalTimeout)
	retrieved, err := a.retriever.BestMatch(rctx, utterance)
	cancel()
	a.metrics.stage(StageRetrieving, started)
	if err != nil {
		if !errors.Is(err, domain.ErrRetrieval) {
			err = fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
		}
		a.metrics.turn(OutcomeRetrievalFailed)
		a.logger.Error("service", "retrieval failed", map[string]interface{}{"session": state.ID(), "error": err})
		return res, err
	}
	res.Context = retrieved
	res.Prompt = prompt.Build(utterance, retrieved, lang.Directive())

	hooks.stage(StageGenerating)
	started = time.Now()
	gctx, cancel := withTimeout(ctx, a.generationTimeout)
	var (
		buffer    strings.Builder
		streamErr error
	)
	for fragment, err := range a.chat.Send(gctx, res.Prompt) {
		if err != nil {
			streamErr = err
			break
		}
		buffer.WriteString(fragment)
		buffer.WriteByte(' ')
		hooks.partial(buffer.String())
	}
	cancel()
	a.metrics.stage(StageGenerating, started)
	if streamErr != nil {
		err := fmt.Errorf("%w: %w", domain.ErrGeneration, streamErr)
		a.metrics.turn(OutcomeGenerationFailed)
		a.logger.Error("service", "generation failed", map[string]interface{}{"session": state.ID(), "error": err})
		return res, err
	}

	res.Answer = strings.TrimSpace(buffer.String())
	state.Append(domain.Turn{Role: domain.RoleAssistant, Text: res.Answer})
	a.metrics.turn(OutcomeAnswered)
	a.logger.Info("service", "turn answered", map[string]interface{}{
		"session":  state.ID(),
		"language": string(lang),
		"context":  retrieved != "",
		"chars":    len(res.Answer),
	})

	if a.voice != nil && res.Answer != "" {
		hooks.stage(StageVoicing)
		started = time.Now()
		vctx, cancel := withTimeout(ctx, a.voiceTimeout)
		if err := a.voice.Speak(vctx, res.Answer, lang); err != nil {
			if !errors.Is(err, domain.ErrSynthesis) {
				err = fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
			}
			res.VoiceErr = err
			a.metrics.voiceFailure()
			a.logger.Warn("service", "could not speak answer", map[string]interface{}{"session": state.ID(), "error": err.Error()})
		}
		cancel()
		a.metrics.stage(StageVoicing, started)
	}
	return res, nil
}

// Listen records one spoken utterance and queues it as pending voice input.
// Recognition failures leave the state untouched.
func (a *Assistant) Listen(ctx context.Context, state *session.State) (string, error) {
	if a.ears == nil {
		return "", domain.NewRecognitionError(domain.UnexpectedFailure, errors.New("voice input is not configured"))
	}
	lctx, cancel := withTimeout(ctx, a.listenTimeout)
	defer cancel()
	text, err := a.ears.Hear(lctx, state.Language())
	return a.queueVoice(state, text, err)
}

// SubmitAudio recognizes captured PCM and queues it as pending voice input.
func (a *Assistant) SubmitAudio(ctx context.Context, state *session.State, pcm []byte) (string, error) {
	if a.ears == nil {
		return "", domain.NewRecognitionError(domain.UnexpectedFailure, errors.New("voice input is not configured"))
	}
	text, err := a.ears.Transcribe(ctx, pcm, state.Language())
	return a.queueVoice(state, text, err)
}

func (a *Assistant) queueVoice(state *session.State, text string, err error) (string, error) {
	if err != nil {
		kind, ok := domain.RecognitionKindOf(err)
		if !ok {
			kind = domain.UnexpectedFailure
			err = domain.NewRecognitionError(kind, err)
		}
		a.metrics.recognitionFailure(kind)
		a.logger.Warn("service", "voice input failed", map[string]interface{}{"session": state.ID(), "kind": string(kind), "error": err.Error()})
		return "", err
	}
	state.SubmitVoice(text)
	return text, nil
}

// ClearMemory makes the model forget the conversation. Visible logs are
// cleared separately through session.State.ClearLog.
func (a *Assistant) ClearMemory() {
	a.chat.Reset()
	a.logger.Info("service", "model memory cleared", nil)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
