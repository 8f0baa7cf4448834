package api

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/config"
	"github.com/summarease/summarease/internal/metrics"
)

// maxJSONBytes caps the text and table request bodies.
const maxJSONBytes = 10 << 20

// Deps are the task adapters the routes dispatch to.
type Deps struct {
	Video VideoProcessor
	Text  TextSummarizer
	Table TableGenerator

	// Web holds the static UI served at "/". Nil disables it.
	Web fs.FS
	// OpenAPI is served as-is at /api/openapi.yaml when set.
	OpenAPI []byte
}

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps, version string, startTime time.Time, log zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer)
	r.Use(CORSWithOrigins(cfg.CORSOrigins))
	r.Use(metrics.InstrumentHandler)

	health := NewHealthHandler(cfg, version, startTime)
	upload := NewUploadHandler(deps.Video, log)
	text := NewTextHandler(deps.Text, log)
	tbl := NewTableHandler(deps.Table, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.ServeHTTP)
		r.With(MaxBytes(cfg.MaxUploadBytes)).Post("/upload-video", upload.Upload)
		r.With(MaxBytes(maxJSONBytes)).Post("/summarize-text", text.Summarize)
		r.With(MaxBytes(maxJSONBytes)).Post("/generate-table", tbl.Generate)
		if deps.OpenAPI != nil {
			r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/yaml")
				w.Write(deps.OpenAPI)
			})
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	if deps.Web != nil {
		r.Handle("/*", http.FileServer(http.FS(deps.Web)))
	}

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
