package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mediafetch/internal/config"
	"mediafetch/internal/logging"
	"mediafetch/internal/model"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingDep    = 2
	ExitDownloadError = 3
	ExitServerError   = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mediafetch",
		Short: "HTTP facade over yt-dlp for audio and video extraction",
		Long: "mediafetch downloads the audio or video behind a media page URL with yt-dlp, " +
			"stores the result under a storage root and serves it back over HTTP. " +
			"Run 'mediafetch serve' for the API or 'mediafetch audio|video <url>' for a one-shot download.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			opts, err := config.Load()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			logging.Init(opts.LogLevel, opts.Verbose)
			return nil
		},
	}

	// Persistent flags available to all subcommands
	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default: <config dir>/mediafetch/config.yaml)")
	pf.String("storage-root", "", "Directory holding audios/ and videos/ (default: <data dir>/mediafetch)")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	pf.String("ffmpeg-binary", "", "Path to ffmpeg")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	pf.BoolP("verbose", "v", false, "Log full subprocess commands/output")

	root.AddCommand(newServeCmd())
	root.AddCommand(newAudioCmd())
	root.AddCommand(newVideoCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

func loadOptions() (model.ServerOptions, error) {
	opts, err := config.Load()
	if err != nil {
		return opts, &ExitError{Code: ExitCLIError, Err: err}
	}
	return opts, nil
}
