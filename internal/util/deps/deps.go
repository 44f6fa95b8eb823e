package deps

import (
	"fmt"
	"os/exec"

	"mediafetch/internal/util"
)

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		return lookup(customPath)
	}
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	if p, err := exec.LookPath("youtube-dl"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find yt-dlp or youtube-dl in PATH, please install yt-dlp")
}

// FindFFmpeg returns the path to ffmpeg, honoring an explicit customPath.
func FindFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		return lookup(customPath)
	}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffmpeg in PATH, please install ffmpeg")
}

func lookup(p string) (string, error) {
	if util.IsRegularFile(p) {
		return p, nil
	}
	if found, err := exec.LookPath(p); err == nil {
		return found, nil
	}
	return "", fmt.Errorf("could not find executable at %q", p)
}
