package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment-driven knobs for the pipeline. Credentials
// (station token, station ID, OpenAI key) come from the settings file, not
// the environment; see LoadSettings.
type Config struct {
	// Weather service configuration
	WeatherBaseURL string        `envconfig:"SKALD_WEATHER_BASE_URL" default:"https://swd.weatherflow.com/swd/rest"`
	HTTPTimeout    time.Duration `envconfig:"SKALD_HTTP_TIMEOUT" default:"30s"`

	// Language model configuration
	ChatModel string `envconfig:"SKALD_CHAT_MODEL" default:"gpt-4"`

	// Hosted speech synthesis configuration
	SpeechModel string `envconfig:"SKALD_SPEECH_MODEL" default:"tts-1"`
	SpeechVoice string `envconfig:"SKALD_SPEECH_VOICE" default:"onyx"`

	// Local voice-cloning engine configuration
	EngineBin        string        `envconfig:"SKALD_ENGINE_BIN" default:"tts"`                                            // Coqui TTS CLI
	EngineModel      string        `envconfig:"SKALD_ENGINE_MODEL" default:"tts_models/multilingual/multi-dataset/xtts_v2"` // multilingual voice-cloning model
	Language         string        `envconfig:"SKALD_LANGUAGE" default:"en"`                                               // target language code
	Device           string        `envconfig:"SKALD_DEVICE" default:""`                                                   // "cuda" or "cpu"; empty probes the host
	SynthesisTimeout time.Duration `envconfig:"SKALD_SYNTHESIS_TIMEOUT" default:"10m"`

	// Retry configuration. One attempt means no internal retries: the first
	// failure at any stage surfaces immediately.
	RetryMaxAttempts    int `envconfig:"SKALD_RETRY_MAX_ATTEMPTS" default:"1"`
	RetryInitialBackoff int `envconfig:"SKALD_RETRY_INITIAL_BACKOFF" default:"250"` // milliseconds

	// Observability configuration
	LogLevel  string `envconfig:"SKALD_LOG_LEVEL" default:"info"`   // Log level: debug, info, warn, error
	LogPretty bool   `envconfig:"SKALD_LOG_PRETTY" default:"false"` // Pretty print logs (for development)
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for tests and containers).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("SKALD_RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.RetryInitialBackoff < 0 {
		return fmt.Errorf("SKALD_RETRY_INITIAL_BACKOFF must not be negative, got %d", c.RetryInitialBackoff)
	}
	switch c.Device {
	case "", "cuda", "cpu":
	default:
		return fmt.Errorf("SKALD_DEVICE must be \"cuda\", \"cpu\", or empty, got %q", c.Device)
	}
	return nil
}
