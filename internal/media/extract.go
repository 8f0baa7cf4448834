package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner runs external commands. Swapped out in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the os/exec implementation. Run reports the tail of
// stderr in its error so transcoder failures are diagnosable from logs.
type ExecCommandRunner struct{}

func (ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if tail := stderrTail(stderr.String(), 5); tail != "" {
			return fmt.Errorf("%s failed: %w: %s", name, err, tail)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

func (ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// stderrTail returns the last n non-empty lines of s joined with " | ".
// ffmpeg prints its banner first and the actual error last.
func stderrTail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

// Extractor converts a video into the audio format the ASR endpoint expects.
type Extractor struct {
	ffmpegPath string
	runner     CommandRunner
}

// ExtractorOption is a functional option for configuring Extractor.
type ExtractorOption func(*Extractor)

// WithFFmpegPath sets a custom ffmpeg executable path.
func WithFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// NewExtractor creates an ffmpeg-based audio extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		runner:     ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractAudio writes a mono 16 kHz 16-bit PCM WAV of inputPath's audio
// track to outputPath.
func (e *Extractor) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outputPath,
	}
	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		// Clean up partial output
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

// VerifyInstalled checks that ffmpeg can be executed.
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	if _, err := e.runner.Output(ctx, e.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}
