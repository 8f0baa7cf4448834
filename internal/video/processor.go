// Package video runs the upload → audio extraction → transcription →
// summarization pipeline for a single uploaded video.
package video

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/media"
	"github.com/summarease/summarease/internal/metrics"
)

// AudioExtractor produces mono 16 kHz WAV from a video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, inputPath, outputPath string) error
}

// Transcriber turns WAV bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Summarizer condenses a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Result is what a successful pipeline run returns.
type Result struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	WorkDir     string // root for per-request workspaces
	Extractor   AudioExtractor
	Transcriber Transcriber
	Summarizer  Summarizer
	Log         zerolog.Logger
}

// Processor drives the video pipeline. Safe for concurrent use: each call
// works in its own workspace and shares nothing but counters.
type Processor struct {
	opts ProcessorOptions
	log  zerolog.Logger

	inFlight  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewProcessor creates a video pipeline processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	return &Processor{
		opts: opts,
		log:  opts.Log.With().Str("component", "video").Logger(),
	}
}

// InFlight returns the number of pipelines currently running.
func (p *Processor) InFlight() int64 { return p.inFlight.Load() }

// Processed returns the number of pipelines that completed successfully.
func (p *Processor) Processed() int64 { return p.processed.Load() }

// Failed returns the number of pipelines that returned an error.
func (p *Processor) Failed() int64 { return p.failed.Load() }

// Process runs the pipeline on upload. Every file it creates is removed
// before it returns, whichever stage fails.
func (p *Processor) Process(ctx context.Context, upload io.Reader, filename string) (res *Result, err error) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		if err != nil {
			p.failed.Add(1)
		} else {
			p.processed.Add(1)
		}
	}()

	ws, err := media.NewWorkspace(p.opts.WorkDir)
	if err != nil {
		return nil, apperr.Wrap(apperr.MediaProcessing, err, "failed to create workspace")
	}
	log := p.log.With().Str("upload_id", ws.ID()).Logger()
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("workspace cleanup failed")
		}
	}()

	start := time.Now()
	videoPath, err := ws.Save("upload"+uploadExt(filename), upload)
	metrics.ObserveStage("upload", start, err)
	if err != nil {
		return nil, apperr.Wrap(apperr.MediaProcessing, err, "failed to store upload")
	}

	// 1. Audio extraction
	start = time.Now()
	audioPath := ws.Path("audio.wav")
	err = p.opts.Extractor.ExtractAudio(ctx, videoPath, audioPath)
	metrics.ObserveStage("extract", start, err)
	if err != nil {
		log.Warn().Err(err).Msg("audio extraction failed")
		return nil, apperr.Wrap(apperr.MediaProcessing, err, "failed to extract audio")
	}

	// 2. Transcription
	start = time.Now()
	transcript, err := p.transcribe(ctx, audioPath)
	metrics.ObserveStage("transcribe", start, err)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed")
		return nil, err
	}
	log.Debug().Int("chars", len(transcript)).Msg("transcript received")

	// 3. Summarization
	start = time.Now()
	summary, err := p.opts.Summarizer.Summarize(ctx, transcript)
	metrics.ObserveStage("summarize", start, err)
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed")
		return nil, apperr.Wrap(apperr.Summarization, err, "failed to summarize transcript")
	}

	log.Info().
		Int("transcript_chars", len(transcript)).
		Int("summary_chars", len(summary)).
		Msg("video processed")

	return &Result{Transcript: transcript, Summary: summary}, nil
}

func (p *Processor) transcribe(ctx context.Context, audioPath string) (string, error) {
	wav, err := os.ReadFile(audioPath)
	if err != nil {
		return "", apperr.Wrap(apperr.MediaProcessing, err, "failed to read extracted audio")
	}

	text, err := p.opts.Transcriber.Transcribe(ctx, wav)
	if err != nil {
		return "", apperr.Wrap(apperr.Transcription, err, "failed to transcribe audio")
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.Transcription, "transcription yielded an empty result")
	}
	return text, nil
}

// uploadExt keeps a short, plain extension from the client's filename so
// ffmpeg can use it as a format hint. Anything else is dropped.
func uploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
