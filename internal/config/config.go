package config

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// HFAPIKey is the raw credential as read from the environment. Use APIKey()
	// for the value sent upstream.
	HFAPIKey string `env:"HF_API_KEY"`

	InferenceBaseURL   string        `env:"INFERENCE_BASE_URL" envDefault:"https://router.huggingface.co"`
	ChatModel          string        `env:"CHAT_MODEL" envDefault:"Qwen/Qwen2.5-7B-Instruct"`
	SummarizationModel string        `env:"SUMMARIZATION_MODEL" envDefault:"facebook/bart-large-cnn"`
	ASRModel           string        `env:"ASR_MODEL" envDefault:"openai/whisper-large-v3-turbo"`
	RemoteTimeout      time.Duration `env:"REMOTE_TIMEOUT" envDefault:"120s"`

	FFmpegPath     string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	UploadDir      string `env:"UPLOAD_DIR"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"524288000"`

	Port         string        `env:"PORT" envDefault:"5000"`
	HTTPAddr     string        `env:"HTTP_ADDR"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:","`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10m"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile   string
	HTTPAddr  string
	LogLevel  string
	UploadDir string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.UploadDir != "" {
		cfg.UploadDir = overrides.UploadDir
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = net.JoinHostPort("", cfg.Port)
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(os.TempDir(), "summarease")
	}

	return cfg, nil
}

// APIKey returns the credential with surrounding whitespace and quotes removed.
// Values pasted into hosting dashboards frequently arrive wrapped in quotes.
func (c *Config) APIKey() string {
	return SanitizeKey(c.HFAPIKey)
}

// SanitizeKey trims whitespace, then drops at most one leading and one
// trailing quote character.
func SanitizeKey(raw string) string {
	k := strings.TrimSpace(raw)
	if k != "" && (k[0] == '"' || k[0] == '\'') {
		k = k[1:]
	}
	if k != "" && (k[len(k)-1] == '"' || k[len(k)-1] == '\'') {
		k = k[:len(k)-1]
	}
	return k
}
