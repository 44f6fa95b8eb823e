package downloader

import (
	"fmt"
	"path/filepath"

	"mediafetch/internal/model"
)

const (
	// OutputTemplate names artifacts after the title and the site id.
	OutputTemplate = "%(title)s [%(id)s].%(ext)s"

	mp3Bitrate     = "192K"
	videoContainer = "mp4"
)

// AudioFormatSpec is the yt-dlp format selector for audio requests.
func AudioFormatSpec(model.AudioMode) string {
	return "bestaudio/best"
}

// VideoFormatSpec is the yt-dlp format selector for a video quality.
func VideoFormatSpec(q model.VideoQuality) string {
	if q.IsBest() {
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best/best", q.MaxHeight)
}

// AudioArgs returns the selection and postprocessing arguments for mode.
// Only AudioMP3 adds the ffmpeg extract-audio step.
func AudioArgs(mode model.AudioMode) []string {
	args := []string{"-f", AudioFormatSpec(mode)}
	if mode == model.AudioMP3 {
		args = append(args,
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", mp3Bitrate,
		)
	}
	return args
}

// VideoArgs returns the selection and muxing arguments for q. Output is
// always merged into a single mp4 container.
func VideoArgs(q model.VideoQuality) []string {
	return []string{
		"-f", VideoFormatSpec(q),
		"--merge-output-format", videoContainer,
	}
}

// OutputPattern joins dir with OutputTemplate.
func OutputPattern(dir string) string {
	return filepath.Join(dir, OutputTemplate)
}
