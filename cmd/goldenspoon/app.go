package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"goldenspoon/internal/chat/gemini"
	"goldenspoon/internal/config"
	"goldenspoon/internal/domain"
	"goldenspoon/internal/embedding"
	embgemini "goldenspoon/internal/embedding/gemini"
	"goldenspoon/internal/embedding/openai"
	"goldenspoon/internal/embedding/tfidf"
	"goldenspoon/internal/knowledge"
	"goldenspoon/internal/logger"
	"goldenspoon/internal/service"
	"goldenspoon/internal/speech"
	"goldenspoon/internal/speech/google"
	"goldenspoon/internal/vectorstore"
	"goldenspoon/internal/vectorstore/memory"
	"goldenspoon/internal/vectorstore/qdrant"
)

// devices says which local audio devices a command may use.
type devices struct {
	microphone bool
	speakers   bool
	consoleLog bool
}

// app is the assembled assistant shared by every command.
type app struct {
	cfg       *config.AppConfig
	log       logger.Logger
	assistant *service.Assistant
	synth     speech.Synthesizer
	registry  *prometheus.Registry
	language  domain.Language
	summary   string
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func buildApp(ctx context.Context, cfgPath string, dev devices) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewZapLogger(cfg.Log.Path, cfg.Log.Level, dev.consoleLog)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	lang, _ := domain.ParseLanguage(cfg.Assistant.Language)

	emb, err := newEmbedder(cfg.Embedder, apiKey)
	if err != nil {
		return nil, err
	}
	st, err := newStorage(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	coll := vectorstore.NewCollection(emb, st, log)
	docs := knowledge.Documents()
	if err := coll.Index(ctx, docs); err != nil {
		return nil, fmt.Errorf("index knowledge base: %w", err)
	}

	session, err := gemini.NewSession(gemini.Config{
		BaseURL:     cfg.Chat.BaseURL,
		APIKey:      apiKey,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, language: lang, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sc := cfg.Speech
	svcCfg := service.Config{
		Retriever:         coll,
		Chat:              session,
		Metrics:           service.NewMetrics(a.registry),
		Logger:            log,
		RetrievalTimeout:  config.Seconds(cfg.Assistant.RetrievalTimeoutSecs),
		GenerationTimeout: config.Seconds(cfg.Assistant.GenerationTimeoutSecs),
		VoiceTimeout:      config.Seconds(cfg.Assistant.VoiceTimeoutSecs),
	}
	if sc.Output {
		synth, err := google.NewSynthesizer(google.TTSConfig{
			BaseURL: sc.SynthesizerURL,
			APIKey:  apiKey,
			Voices:  sc.Voices,
			Timeout: config.Seconds(sc.TimeoutSecs),
		})
		if err != nil {
			return nil, err
		}
		a.synth = synth
		if dev.speakers {
			player := speech.NewCommandPlayer(sc.PlayerCommand, sc.PlayerArgs, config.Millis(sc.GraceMillis))
			svcCfg.Voice = &speech.Voice{Synth: synth, Player: player}
		}
	}
	if sc.Input {
		rec, err := google.NewRecognizer(google.ASRConfig{
			BaseURL: sc.RecognizerURL,
			APIKey:  apiKey,
			Model:   sc.RecognizerModel,
			Timeout: config.Seconds(sc.TimeoutSecs),
		})
		if err != nil {
			return nil, err
		}
		ear := &speech.Ear{Recognizer: rec, Listener: unavailableListener{}}
		if dev.microphone {
			listen := speech.DefaultListenConfig()
			listen.Calibration = config.Millis(sc.CalibrationMillis)
			listen.Timeout = config.Seconds(sc.ListenTimeoutSecs)
			listen.PhraseLimit = config.Seconds(sc.PhraseLimitSecs)
			ear.Listener = speech.NewCommandListener(sc.RecorderCommand, sc.RecorderArgs, listen)
			svcCfg.ListenTimeout = listen.Calibration + listen.Timeout + listen.PhraseLimit + config.Seconds(sc.TimeoutSecs)
		}
		svcCfg.Ears = ear
	}

	a.assistant, err = service.NewAssistant(svcCfg)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	a.summary = knowledge.Summarize(strings.Join(contents, "\n\n"), cfg.Assistant.SummarySentences)

	log.Info("main", "assistant ready", map[string]interface{}{
		"embedder":     emb.Name(),
		"vector_store": cfg.VectorStore.Type,
		"chat_model":   cfg.Chat.Model,
		"voice_input":  a.assistant.ListenEnabled(),
		"voice_output": a.assistant.VoiceEnabled(),
	})
	return a, nil
}

func newEmbedder(cfg config.EmbedderConfig, apiKey string) (embedding.Embedder, error) {
	switch cfg.Type {
	case "gemini":
		c := cfg.Gemini
		return embgemini.NewClient(embgemini.Config{
			BaseURL:    c.BaseURL,
			APIKey:     apiKey,
			Model:      c.Model,
			Timeout:    config.Seconds(c.TimeoutSecs),
			BatchSize:  c.BatchSize,
			MaxRetries: c.MaxRetries,
		})
	case "openai":
		c := cfg.OpenAI
		return openai.NewClient(openai.Config{
			BaseURL:        c.BaseURL,
			APIKey:         os.Getenv(c.APIKeyEnv),
			Model:          c.Model,
			DocumentPrefix: c.DocumentPrefix,
			QueryPrefix:    c.QueryPrefix,
			Timeout:        config.Seconds(c.TimeoutSecs),
			BatchSize:      c.BatchSize,
			MaxRetries:     c.MaxRetries,
		})
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	}
	return nil, fmt.Errorf("%w: unknown embedder: %s", domain.ErrConfiguration, cfg.Type)
}

func newStorage(cfg config.VectorStoreConfig) (vectorstore.Storage, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("%w: qdrant config missing", domain.ErrConfiguration)
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    config.Seconds(cfg.Qdrant.TimeoutSecs),
		})
	}
	return nil, fmt.Errorf("%w: unknown vector store: %s", domain.ErrConfiguration, cfg.Type)
}

// unavailableListener stands in for the microphone in commands that only
// accept uploaded audio.
type unavailableListener struct{}

func (unavailableListener) Listen(context.Context) ([]byte, error) {
	return nil, errors.New("no microphone in this mode")
}
