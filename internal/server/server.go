// Package server exposes the extraction service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"mediafetch/internal/model"
	"mediafetch/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Extractor produces one artifact per call. *pipeline.Service implements it.
type Extractor interface {
	DownloadAudio(ctx context.Context, url string, mode model.AudioMode) (model.DownloadResult, error)
	DownloadVideo(ctx context.Context, url string, quality model.VideoQuality) (model.DownloadResult, error)
}

// Options tunes the HTTP layer.
type Options struct {
	RateLimit         float64 // requests per second on /api/ routes; 0 disables
	RateBurst         int
	ReadHeaderTimeout time.Duration
}

// Server routes requests to the extractor and serves stored artifacts.
type Server struct {
	ext     Extractor
	store   storage.Store
	opts    Options
	limiter *rate.Limiter
	handler http.Handler
}

// New builds a Server. The store must be the one the extractor writes into.
func New(ext Extractor, store storage.Store, opts Options) *Server {
	s := &Server{ext: ext, store: store, opts: opts}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.Handle("GET /api/health", s.rateLimit(http.HandlerFunc(s.handleHealth)))
	mux.Handle("POST /api/audio", s.rateLimit(http.HandlerFunc(s.handleAudio)))
	mux.Handle("POST /api/video", s.rateLimit(http.HandlerFunc(s.handleVideo)))
	mux.HandleFunc("GET /files/{kind}/{filename}", s.handleFile)
	mux.HandleFunc("GET /files/", s.handleFileNotFound)

	return requestID(accessLog(recoverer(mux)))
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Request contexts derive from ctx, so cancelling it also stops running
// extractions.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().
		Str("op", "server/serve").
		Str("addr", ln.Addr().String()).
		Str("storage_root", s.store.Root).
		Msg("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Str("op", "server/serve").Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
