package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/summarease/summarease"
	"github.com/summarease/summarease/internal/api"
	"github.com/summarease/summarease/internal/config"
	"github.com/summarease/summarease/internal/inference"
	"github.com/summarease/summarease/internal/media"
	"github.com/summarease/summarease/internal/metrics"
	"github.com/summarease/summarease/internal/table"
	"github.com/summarease/summarease/internal/textsum"
	"github.com/summarease/summarease/internal/video"
)

var version = "dev"

var overrides config.Overrides

var rootCmd = &cobra.Command{
	Use:   "summarease",
	Short: "Summarize videos and text, and turn text into tables",
	Long: `summarease serves a small web UI and JSON API backed by hosted models:

  - POST /api/upload-video    transcribe and summarize an uploaded video
  - POST /api/summarize-text  short or detailed Markdown summary of text
  - POST /api/generate-table  extract a uniform table from free text

Configuration comes from the environment (and an optional .env file);
flags override it.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file (default .env)")
	f.StringVar(&overrides.HTTPAddr, "listen", "", "listen address (overrides HTTP_ADDR and PORT)")
	f.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&overrides.UploadDir, "upload-dir", "", "directory for per-request workspaces")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("summarease failed")
	}
}

func run(ctx context.Context) error {
	startTime := time.Now()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("summarease starting")

	if cfg.APIKey() == "" {
		log.Warn().Msg("HF_API_KEY is not set; remote calls will fail until it is configured")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o700); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	// Remote models
	clients := inference.New(inference.Options{
		APIKey: cfg.APIKey(),
		Endpoints: inference.Endpoints{
			BaseURL:       cfg.InferenceBaseURL,
			Chat:          cfg.ChatModel,
			Summarization: cfg.SummarizationModel,
			ASR:           cfg.ASRModel,
		},
		Timeout: cfg.RemoteTimeout,
		Log:     log,
	})
	log.Info().
		Str("chat", cfg.ChatModel).
		Str("summarization", cfg.SummarizationModel).
		Str("asr", cfg.ASRModel).
		Dur("timeout", cfg.RemoteTimeout).
		Msg("inference configured")

	// Media
	extractor := media.NewExtractor(media.WithFFmpegPath(cfg.FFmpegPath))
	if err := extractor.VerifyInstalled(ctx); err != nil {
		log.Warn().Err(err).Str("ffmpeg", cfg.FFmpegPath).Msg("ffmpeg not usable; video uploads will fail")
	}

	// Task adapters
	proc := video.NewProcessor(video.ProcessorOptions{
		WorkDir:     cfg.UploadDir,
		Extractor:   extractor,
		Transcriber: clients.ASR,
		Summarizer:  clients.Summarization,
		Log:         log,
	})
	prometheus.MustRegister(metrics.NewCollector(proc))

	web, err := fs.Sub(summarease.WebFiles, "web")
	if err != nil {
		return fmt.Errorf("web assets: %w", err)
	}

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, api.Deps{
		Video:   proc,
		Text:    textsum.New(clients.Chat, log),
		Table:   table.New(clients.Chat, log),
		Web:     web,
		OpenAPI: summarease.OpenAPISpec,
	}, version, startTime, httpLog)

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("summarease stopped")
	return nil
}
