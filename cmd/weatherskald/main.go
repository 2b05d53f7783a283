package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/skaldlabs/weatherskald/internal/config"
	"github.com/skaldlabs/weatherskald/internal/narrator"
	"github.com/skaldlabs/weatherskald/internal/observability"
	"github.com/skaldlabs/weatherskald/internal/poem"
	"github.com/skaldlabs/weatherskald/internal/resilience"
	"github.com/skaldlabs/weatherskald/internal/tts"
	"github.com/skaldlabs/weatherskald/internal/weather"
)

type options struct {
	settingsPath string
	outputBase   string
	backend      string
	speakerWAV   string
	checkOnly    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.settingsPath, "config", "weatherskald.cfg", "path to the settings file")
	flag.StringVar(&opts.outputBase, "output", "skaldic_weather", "output path, written without its extension")
	flag.StringVar(&opts.backend, "backend", "hosted", "synthesis backend: hosted or local")
	flag.StringVar(&opts.speakerWAV, "speaker", "weatherskald_default.wav", "speaker sample for the local backend")
	flag.BoolVar(&opts.checkOnly, "check", false, "validate configuration and backend prerequisites, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before the logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.WithRunID(observability.NewRunID())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error().Err(err).Msg("WeatherSkald failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) error {
	settings, err := config.LoadSettings(opts.settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger.Info().
		Str("settings", opts.settingsPath).
		Str("station_id", settings.WeatherflowStationID()).
		Str("backend", opts.backend).
		Str("log_level", cfg.LogLevel).
		Msg("WeatherSkald starting")

	aiClient := openai.NewClient(settings.OpenAIKey())

	backend, err := buildBackend(cfg, aiClient, opts, logger)
	if err != nil {
		return err
	}

	if opts.checkOnly {
		return check(backend, logger)
	}

	fetcher := weather.NewClient(weather.ClientConfig{
		BaseURL:    cfg.WeatherBaseURL,
		StationID:  settings.WeatherflowStationID(),
		Token:      settings.WeatherflowToken(),
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Retry:      resilience.FromAttempts(cfg.RetryMaxAttempts, time.Duration(cfg.RetryInitialBackoff)*time.Millisecond),
		Logger:     logger,
	})
	generator := poem.NewGenerator(aiClient, cfg.ChatModel, logger)

	skald := narrator.New(fetcher, generator, logger)
	path, err := skald.Narrate(ctx, backend)
	if err != nil {
		return err
	}

	// The confirmation line is the program's only stdout output; logs go
	// to stderr.
	fmt.Println("WeatherSkald output saved to " + path)
	return nil
}

// buildBackend selects the synthesis backend named on the command line.
func buildBackend(cfg *config.Config, aiClient *openai.Client, opts options, logger zerolog.Logger) (tts.Synthesizer, error) {
	switch opts.backend {
	case "hosted":
		return tts.NewHosted(aiClient, cfg.SpeechModel, cfg.SpeechVoice, opts.outputBase, logger), nil
	case "local":
		return tts.NewLocal(tts.LocalConfig{
			Bin:        cfg.EngineBin,
			Model:      cfg.EngineModel,
			SpeakerWAV: opts.speakerWAV,
			Language:   cfg.Language,
			Device:     cfg.Device,
			OutputBase: opts.outputBase,
			Timeout:    cfg.SynthesisTimeout,
			Logger:     logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q, want hosted or local", opts.backend)
	}
}

// check verifies what can be verified without spending API calls: the
// settings and environment are already loaded at this point, so only the
// backend's own prerequisites remain.
func check(backend tts.Synthesizer, logger zerolog.Logger) error {
	if checker, ok := backend.(tts.Checker); ok {
		if err := checker.Check(); err != nil {
			return fmt.Errorf("backend check: %w", err)
		}
	}
	logger.Info().Msg("Configuration check passed")
	fmt.Println("WeatherSkald configuration OK")
	return nil
}
