// Command probe checks whether the configured models answer on the
// inference provider with the current credential.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/summarease/summarease/internal/config"
	"github.com/summarease/summarease/internal/inference"
)

// silentWAV is a 44-byte PCM WAV header with an empty data chunk.
var silentWAV = []byte{
	0x52, 0x49, 0x46, 0x46, 0x24, 0x00, 0x00, 0x00,
	0x57, 0x41, 0x56, 0x45, 0x66, 0x6d, 0x74, 0x20,
	0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x44, 0xac, 0x00, 0x00, 0x88, 0x58, 0x01, 0x00,
	0x02, 0x00, 0x10, 0x00, 0x64, 0x61, 0x74, 0x61,
	0x00, 0x00, 0x00, 0x00,
}

var (
	envFile string
	timeout time.Duration
	verbose bool
	models  []string
)

var rootCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check which inference models answer with the configured key",
	Long: `probe sends one minimal request per model and reports the outcome:

  ALIVE         the model answered (or rejected the probe input itself)
  UNAVAILABLE   the provider does not serve the model
  PAID          the account has no credit for the model
  UNAUTHORIZED  the key is missing or rejected

Example:
  probe all
  probe asr --model openai/whisper-tiny.en --model openai/whisper-small.en`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to .env file (default .env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "bound for each probe request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each request")

	for _, task := range []inference.Task{inference.TaskChat, inference.TaskSummarization, inference.TaskASR} {
		cmd := &cobra.Command{
			Use:   string(task),
			Short: fmt.Sprintf("Probe %s models (default: the configured one)", task),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runProbe(cmd.Context(), cmd.OutOrStdout(), []inference.Task{task}, models)
			},
		}
		cmd.Flags().StringSliceVar(&models, "model", nil, "model id to probe; repeatable")
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Probe the configured model for every task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), cmd.OutOrStdout(),
				[]inference.Task{inference.TaskChat, inference.TaskSummarization, inference.TaskASR}, nil)
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProbe(ctx context.Context, out io.Writer, tasks []inference.Task, override []string) error {
	cfg, err := config.Load(config.Overrides{EnvFile: envFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := zerolog.Nop()
	if verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	base := inference.Endpoints{
		BaseURL:       cfg.InferenceBaseURL,
		Chat:          cfg.ChatModel,
		Summarization: cfg.SummarizationModel,
		ASR:           cfg.ASRModel,
	}

	if cfg.APIKey() == "" {
		fmt.Fprintln(out, "warning: HF_API_KEY is not set")
	}

	for _, task := range tasks {
		candidates := override
		if len(candidates) == 0 {
			candidates = []string{base.Model(task)}
		}
		for _, model := range candidates {
			ep := withModel(base, task, model)
			clients := inference.New(inference.Options{
				APIKey:    cfg.APIKey(),
				Endpoints: ep,
				Timeout:   timeout,
				Log:       log,
			})
			start := time.Now()
			err := probeOnce(ctx, clients, task)
			fmt.Fprintf(out, "%-14s %-45s %-13s %s\n", task, model, verdict(err), time.Since(start).Round(time.Millisecond))
			if err != nil && verbose {
				fmt.Fprintf(out, "  %v\n", err)
			}
		}
	}
	return nil
}

func withModel(ep inference.Endpoints, task inference.Task, model string) inference.Endpoints {
	switch task {
	case inference.TaskChat:
		ep.Chat = model
	case inference.TaskSummarization:
		ep.Summarization = model
	case inference.TaskASR:
		ep.ASR = model
	}
	return ep
}

func probeOnce(ctx context.Context, c *inference.Clients, task inference.Task) error {
	var err error
	switch task {
	case inference.TaskChat:
		_, err = c.Chat.Complete(ctx, inference.ChatRequest{User: "Hello", MaxTokens: 5})
	case inference.TaskSummarization:
		_, err = c.Summarization.Summarize(ctx, "Hello")
	case inference.TaskASR:
		_, err = c.ASR.Transcribe(ctx, silentWAV)
	default:
		err = fmt.Errorf("unknown task %q", task)
	}
	return err
}

// verdict maps a probe outcome to a one-word status. A model that rejects
// the probe input is still reachable.
func verdict(err error) string {
	if err == nil {
		return "ALIVE"
	}
	switch inference.KindOf(err) {
	case inference.KindMalformedInput:
		return "ALIVE"
	case inference.KindModelUnavailable:
		return "UNAVAILABLE"
	case inference.KindQuotaExceeded:
		return "PAID"
	case inference.KindUnauthorized:
		return "UNAUTHORIZED"
	case inference.KindTimeout:
		return "TIMEOUT"
	case inference.KindTransient:
		return "BUSY"
	}
	return "ERROR"
}
