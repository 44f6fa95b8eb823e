// Package pipeline implements the extraction wrapper: look up the URL for a
// title, run yt-dlp with a format derived from the requested mode or
// quality, and report the artifact yt-dlp produced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"mediafetch/internal/downloader"
	"mediafetch/internal/model"
	"mediafetch/internal/progress"
	"mediafetch/internal/storage"
	"mediafetch/internal/util"
	"mediafetch/internal/util/format"
)

// ErrArtifactNotFound is returned when yt-dlp does not leave a usable file
// inside the expected storage directory.
var ErrArtifactNotFound = errors.New("artifact not found")

// Service runs the metadata -> download -> locate workflow.
type Service struct {
	dlPath     string
	ffmpegPath string
	store      storage.Store
	verbose    bool
	runner     util.CmdRunner
	reporter   progress.Reporter
	jobID      string
}

// Option configures a Service.
type Option func(*Service)

// WithDownloaderPath sets the downloader (yt-dlp/youtube-dl) binary path.
func WithDownloaderPath(p string) Option {
	return func(s *Service) {
		s.dlPath = p
	}
}

// WithFFmpegPath sets the ffmpeg location passed to yt-dlp.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithStore sets the storage root artifacts are written to.
func WithStore(st storage.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithVerbose logs every subprocess line at debug level.
func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by the terminal UI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// NewService constructs a Service. The default runner executes real
// subprocesses.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	return s
}

// Store returns the storage root the service writes into.
func (s *Service) Store() storage.Store {
	return s.store
}

// DownloadAudio extracts the audio of url. AudioMP3 transcodes through
// ffmpeg, AudioFast keeps the best source audio stream.
func (s *Service) DownloadAudio(ctx context.Context, url string, mode model.AudioMode) (model.DownloadResult, error) {
	if mode != model.AudioMP3 && mode != model.AudioFast {
		return model.DownloadResult{}, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
	return s.run(ctx, model.KindAudio, url, downloader.AudioArgs(mode))
}

// DownloadVideo downloads url as a single mp4 with video capped at the
// requested height (or the best available).
func (s *Service) DownloadVideo(ctx context.Context, url string, quality model.VideoQuality) (model.DownloadResult, error) {
	if quality.MaxHeight < 0 || quality.MaxHeight > model.MaxVideoHeight {
		return model.DownloadResult{}, fmt.Errorf("%w: %d", model.ErrInvalidQuality, quality.MaxHeight)
	}
	return s.run(ctx, model.KindVideo, url, downloader.VideoArgs(quality))
}

func (s *Service) run(ctx context.Context, kind model.MediaKind, rawURL string, formatArgs []string) (model.DownloadResult, error) {
	res := model.DownloadResult{Kind: kind, URL: rawURL}

	if s.dlPath == "" {
		return res, s.fail(fmt.Errorf("downloader path is required"))
	}
	if s.store.Root == "" {
		return res, s.fail(fmt.Errorf("storage root is required"))
	}
	url, err := util.NormalizeMediaURL(rawURL)
	if err != nil {
		return res, s.fail(err)
	}
	res.URL = url
	dir := s.store.Dir(kind)
	if err := util.EnsureDir(dir); err != nil {
		return res, s.fail(fmt.Errorf("ensure %s dir: %w", kind, err))
	}

	// Step 1: metadata
	s.emit(progress.StageMetadata, -1, "Fetching metadata")
	dlOpts := s.downloaderOptions()
	info, err := downloader.Inspect(ctx, url, dlOpts)
	if err != nil {
		return res, s.fail(err)
	}
	res.Title = info.Title
	if res.Title == "" {
		res.Title = strings.TrimSpace(rawURL)
	}
	res.ID = info.ID
	res.Uploader = info.Uploader
	res.Duration = info.Duration

	// Step 2: download (+ transcode/merge)
	s.emit(progress.StageDownloading, 0, "Downloading")
	path, err := downloader.Fetch(ctx, downloader.Request{
		URL:        url,
		FormatArgs: formatArgs,
		OutputDir:  dir,
	}, dlOpts)
	if err != nil {
		if errors.Is(err, downloader.ErrNoOutputPath) {
			err = fmt.Errorf("%w: %v", ErrArtifactNotFound, err)
		}
		return res, s.fail(err)
	}

	// Step 3: verify and stat the reported artifact
	if !s.store.Contains(kind, path) {
		return res, s.fail(fmt.Errorf("%w: %s is outside %s", ErrArtifactNotFound, path, dir))
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return res, s.fail(fmt.Errorf("%w: %s", ErrArtifactNotFound, filepath.Base(path)))
	}
	res.Path = path
	res.Size = fi.Size()

	log.Info().
		Str("op", "pipeline/"+string(kind)).
		Str("title", res.Title).
		Str("file", filepath.Base(path)).
		Str("size", format.HumanSize(res.Size)).
		Msg("artifact ready")
	s.emitSaved(res)
	return res, nil
}

func (s *Service) downloaderOptions() downloader.Options {
	return downloader.Options{
		DownloaderPath: s.dlPath,
		FFmpegPath:     s.ffmpegPath,
		Verbose:        s.verbose,
		Runner:         s.runner,
		Reporter:       s.reporter,
		JobID:          s.jobID,
	}
}

func (s *Service) emit(stage progress.Stage, pct float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{JobID: s.jobID, Stage: stage, Percent: pct, Message: msg})
}

// emitSaved sends the final "saved" update and result for the terminal UI.
func (s *Service) emitSaved(res model.DownloadResult) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Saved: %s (%s)", filepath.Base(res.Path), format.HumanSize(res.Size)),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		Title:      res.Title,
		OutputPath: res.Path,
		Bytes:      res.Size,
	})
}

// fail reports err to the reporter, if any, and returns it unchanged.
func (s *Service) fail(err error) error {
	if s.reporter != nil {
		s.reporter.Update(progress.Update{JobID: s.jobID, Stage: progress.StageError, Percent: -1, Message: err.Error()})
		s.reporter.Result(progress.Result{JobID: s.jobID, Err: err})
	}
	return err
}
