package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mediafetch/internal/storage"
	"mediafetch/internal/util/deps"
	"mediafetch/internal/util/format"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg) and the storage root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var problems []string

			dl, derr := deps.FindDownloader(opts.DLBinary)
			ff, ferr := deps.FindFFmpeg(opts.FFmpegBinary)
			fmt.Fprintf(out, "Downloader: %s\n", check(dl, derr, &problems))
			fmt.Fprintf(out, "FFmpeg:     %s\n", check(ff, ferr, &problems))

			st, serr := storage.New(opts.StorageRoot)
			if serr == nil {
				serr = st.Ensure()
			}
			fmt.Fprintf(out, "Storage:    %s\n", check(st.Root, serr, &problems))
			if serr == nil {
				if u, uerr := st.Usage(); uerr == nil {
					fmt.Fprintf(out, "Disk free:  %s\n", format.HumanSize(int64(u.Free)))
				}
			}

			if len(problems) > 0 {
				return &ExitError{Code: ExitMissingDep, Err: fmt.Errorf("doctor found problems:\n%s", strings.Join(problems, "\n"))}
			}
			return nil
		},
	}
}

func check(value string, err error, problems *[]string) string {
	if err != nil {
		*problems = append(*problems, "- "+err.Error())
		return failStyle.Render("✗ " + err.Error())
	}
	return okStyle.Render("✓ " + value)
}
