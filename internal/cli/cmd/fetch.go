package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mediafetch/internal/model"
	"mediafetch/internal/pipeline"
	"mediafetch/internal/progress"
	"mediafetch/internal/ui"
	"mediafetch/internal/util/format"
)

type extractFunc func(ctx context.Context, svc *pipeline.Service, url string) (model.DownloadResult, error)

func newAudioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio <url>",
		Short: "Download the audio of a media URL into the storage root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("mode")
			mode, err := model.ParseAudioMode(raw)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return runFetch(cmd, model.KindAudio, args[0], func(ctx context.Context, svc *pipeline.Service, url string) (model.DownloadResult, error) {
				return svc.DownloadAudio(ctx, url, mode)
			})
		},
	}
	cmd.Flags().String("mode", string(model.DefaultAudioMode), "Audio mode: mp3 (transcode, 192 kbps) or fast (source stream)")
	cmd.Flags().Bool("no-ui", false, "Disable TUI; use plain textual output")
	return cmd
}

func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Download a media URL as mp4 into the storage root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("quality")
			q, err := model.ParseVideoQuality(raw)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return runFetch(cmd, model.KindVideo, args[0], func(ctx context.Context, svc *pipeline.Service, url string) (model.DownloadResult, error) {
				return svc.DownloadVideo(ctx, url, q)
			})
		},
	}
	cmd.Flags().String("quality", "best", "Video quality: best or a maximum height such as 1080, 720, 480")
	cmd.Flags().Bool("no-ui", false, "Disable TUI; use plain textual output")
	return cmd
}

func runFetch(cmd *cobra.Command, kind model.MediaKind, url string, extract extractFunc) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	rt, err := resolveRuntime(opts)
	if err != nil {
		return err
	}

	noUI, _ := cmd.Flags().GetBool("no-ui")
	var res model.DownloadResult
	if !noUI && isTerminal() {
		jobID := uuid.NewString()
		res, err = ui.Run(cmd.Context(), fmt.Sprintf("%s %s", kind, url), func(ctx context.Context, rep progress.Reporter) (model.DownloadResult, error) {
			svc := rt.service(pipeline.WithReporter(rep), pipeline.WithJobID(jobID))
			return extract(ctx, svc, url)
		})
	} else {
		res, err = extract(cmd.Context(), rt.service(), url)
	}
	if err != nil {
		return &ExitError{Code: ExitDownloadError, Err: err}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", res.Title)
	fmt.Fprintf(out, "Saved: %s (%s)\n", res.Path, format.HumanSize(res.Size))
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
