package cmd

import (
	"fmt"

	"mediafetch/internal/model"
	"mediafetch/internal/pipeline"
	"mediafetch/internal/storage"
	"mediafetch/internal/util/deps"
)

// runtimeDeps are the resolved binaries and storage shared by serve and the
// one-shot commands.
type runtimeDeps struct {
	downloader string
	ffmpeg     string
	store      storage.Store
	verbose    bool
}

func resolveRuntime(opts model.ServerOptions) (runtimeDeps, error) {
	dl, err := deps.FindDownloader(opts.DLBinary)
	if err != nil {
		return runtimeDeps{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	ff, err := deps.FindFFmpeg(opts.FFmpegBinary)
	if err != nil {
		return runtimeDeps{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	st, err := storage.New(opts.StorageRoot)
	if err != nil {
		return runtimeDeps{}, &ExitError{Code: ExitCLIError, Err: err}
	}
	if err := st.Ensure(); err != nil {
		return runtimeDeps{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create storage dirs: %w", err)}
	}
	return runtimeDeps{downloader: dl, ffmpeg: ff, store: st, verbose: opts.Verbose}, nil
}

func (rt runtimeDeps) service(extra ...pipeline.Option) *pipeline.Service {
	opts := append([]pipeline.Option{
		pipeline.WithDownloaderPath(rt.downloader),
		pipeline.WithFFmpegPath(rt.ffmpeg),
		pipeline.WithStore(rt.store),
		pipeline.WithVerbose(rt.verbose),
	}, extra...)
	return pipeline.NewService(opts...)
}
