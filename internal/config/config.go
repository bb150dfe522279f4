package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/knowledge"
)

// GeminiEmbedderConfig configures the Gemini embeddings client.
type GeminiEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	DocumentPrefix string `yaml:"document_prefix"`
	QueryPrefix    string `yaml:"query_prefix"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
	BatchSize      int    `yaml:"batch_size"`
	MaxRetries     int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Gemini *GeminiEmbedderConfig `yaml:"gemini,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChatConfig configures the streamed generation session.
type ChatConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// SpeechConfig configures voice input and output.
type SpeechConfig struct {
	Input             bool              `yaml:"input"`
	Output            bool              `yaml:"output"`
	RecognizerURL     string            `yaml:"recognizer_url"`
	RecognizerModel   string            `yaml:"recognizer_model"`
	SynthesizerURL    string            `yaml:"synthesizer_url"`
	Voices            map[string]string `yaml:"voices,omitempty"`
	RecorderCommand   string            `yaml:"recorder_command"`
	RecorderArgs      []string          `yaml:"recorder_args,omitempty"`
	PlayerCommand     string            `yaml:"player_command"`
	PlayerArgs        []string          `yaml:"player_args,omitempty"`
	GraceMillis       int               `yaml:"grace_ms"`
	CalibrationMillis int               `yaml:"calibration_ms"`
	ListenTimeoutSecs int               `yaml:"listen_timeout_secs"`
	PhraseLimitSecs   int               `yaml:"phrase_limit_secs"`
	TimeoutSecs       int               `yaml:"timeout_secs"`
}

// AssistantConfig configures the turn orchestrator.
type AssistantConfig struct {
	Language              string `yaml:"language"`
	RetrievalTimeoutSecs  int    `yaml:"retrieval_timeout_secs"`
	GenerationTimeoutSecs int    `yaml:"generation_timeout_secs"`
	VoiceTimeoutSecs      int    `yaml:"voice_timeout_secs"`
	SummarySentences      int    `yaml:"summary_sentences"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	SessionTTLMins int    `yaml:"session_ttl_mins"`
}

// CredentialsConfig says where the Google API key comes from.
type CredentialsConfig struct {
	SecretsFile string `yaml:"secrets_file"`
	SecretsKey  string `yaml:"secrets_key"`
	APIKeyEnv   string `yaml:"api_key_env"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Chat        ChatConfig        `yaml:"chat"`
	Speech      SpeechConfig      `yaml:"speech"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	cfg := baseConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/goldenspoon/config.yaml.
// If neither exists, it writes defaults to ~/.config/goldenspoon/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown implementation names and languages.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "gemini", "openai", "tfidf":
	default:
		return fmt.Errorf("%w: unknown embedder type %q", domain.ErrConfiguration, c.Embedder.Type)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return fmt.Errorf("%w: vector_store.qdrant.url is required", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown vector store type %q", domain.ErrConfiguration, c.VectorStore.Type)
	}
	if _, ok := domain.ParseLanguage(c.Assistant.Language); !ok {
		return fmt.Errorf("%w: unsupported language %q", domain.ErrConfiguration, c.Assistant.Language)
	}
	return nil
}

// Seconds converts a *_secs field to a duration.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Millis converts a *_ms field to a duration.
func Millis(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// ResolveAPIKey returns the Google API key from the deployment secrets file,
// falling back to the environment. Missing in both is a configuration error.
func (c *AppConfig) ResolveAPIKey() (string, error) {
	creds := c.Credentials
	if creds.SecretsFile != "" {
		key, err := readSecret(creds.SecretsFile, creds.SecretsKey)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	if key := strings.TrimSpace(os.Getenv(creds.APIKeyEnv)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: API key not found; set %s in %s or the environment",
		domain.ErrConfiguration, creds.SecretsKey, creds.SecretsFile)
}

func readSecret(path, key string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: read secrets file: %v", domain.ErrConfiguration, err)
	}
	var secrets map[string]string
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("%w: parse secrets file %s: %v", domain.ErrConfiguration, path, err)
	}
	return strings.TrimSpace(secrets[key]), nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "goldenspoon", "config.yaml"), nil
}

// baseConfig holds the values a config file overrides. Fields derived from
// them are filled by applyConfigDefaults afterwards.
func baseConfig() *AppConfig {
	return &AppConfig{
		Embedder:    EmbedderConfig{Type: "gemini"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Speech:      SpeechConfig{Input: true, Output: true},
	}
}

func defaultConfig() *AppConfig {
	cfg := baseConfig()
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "gemini" {
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &GeminiEmbedderConfig{}
		}
		if cfg.Embedder.Gemini.Model == "" {
			cfg.Embedder.Gemini.Model = "text-embedding-004"
		}
		if cfg.Embedder.Gemini.TimeoutSecs == 0 {
			cfg.Embedder.Gemini.TimeoutSecs = 30
		}
		if cfg.Embedder.Gemini.BatchSize == 0 {
			cfg.Embedder.Gemini.BatchSize = 100
		}
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = knowledge.CollectionName
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gemini-1.5-flash"
	}
	if cfg.Speech.RecorderCommand == "" {
		cfg.Speech.RecorderCommand = "arecord"
		if cfg.Speech.RecorderArgs == nil {
			cfg.Speech.RecorderArgs = []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}
		}
	}
	if cfg.Speech.PlayerCommand == "" {
		cfg.Speech.PlayerCommand = "mpv"
		if cfg.Speech.PlayerArgs == nil {
			cfg.Speech.PlayerArgs = []string{"--no-video", "--really-quiet"}
		}
	}
	if cfg.Speech.GraceMillis == 0 {
		cfg.Speech.GraceMillis = 500
	}
	if cfg.Speech.CalibrationMillis == 0 {
		cfg.Speech.CalibrationMillis = 1000
	}
	if cfg.Speech.ListenTimeoutSecs == 0 {
		cfg.Speech.ListenTimeoutSecs = 5
	}
	if cfg.Speech.PhraseLimitSecs == 0 {
		cfg.Speech.PhraseLimitSecs = 15
	}
	if cfg.Speech.TimeoutSecs == 0 {
		cfg.Speech.TimeoutSecs = 30
	}
	if cfg.Assistant.Language == "" {
		cfg.Assistant.Language = string(domain.DefaultLanguage)
	}
	if cfg.Assistant.SummarySentences == 0 {
		cfg.Assistant.SummarySentences = 2
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = filepath.Join(os.TempDir(), "goldenspoon", "goldenspoon.log")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.SessionTTLMins == 0 {
		cfg.Server.SessionTTLMins = 60
	}
	if cfg.Credentials.SecretsFile == "" {
		cfg.Credentials.SecretsFile = ".secrets.yaml"
	}
	if cfg.Credentials.SecretsKey == "" {
		cfg.Credentials.SecretsKey = "GOOGLE_API_KEY"
	}
	if cfg.Credentials.APIKeyEnv == "" {
		cfg.Credentials.APIKeyEnv = "GOOGLE_API_KEY"
	}
}
