package downloader

import (
	"path/filepath"
	"strings"
	"testing"

	"mediafetch/internal/model"
)

func TestAudioArgs(t *testing.T) {
	tests := []struct {
		name            string
		mode            model.AudioMode
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:         "mp3 transcodes",
			mode:         model.AudioMP3,
			wantContains: []string{"-f", "bestaudio/best", "--extract-audio", "--audio-format", "mp3", "--audio-quality", "192K"},
		},
		{
			name:            "fast keeps source stream",
			mode:            model.AudioFast,
			wantContains:    []string{"-f", "bestaudio/best"},
			wantNotContains: []string{"--extract-audio", "--audio-format", "--audio-quality"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := AudioArgs(tt.mode)
			joined := strings.Join(args, " ")
			for _, want := range tt.wantContains {
				if !contains(args, want) {
					t.Errorf("AudioArgs(%q) missing %q: %s", tt.mode, want, joined)
				}
			}
			for _, bad := range tt.wantNotContains {
				if contains(args, bad) {
					t.Errorf("AudioArgs(%q) should not contain %q: %s", tt.mode, bad, joined)
				}
			}
		})
	}
}

func TestVideoFormatSpec(t *testing.T) {
	tests := []struct {
		quality string
		want    string
	}{
		{quality: "best", want: "bestvideo+bestaudio/best"},
		{quality: "1080", want: "bestvideo[height<=1080]+bestaudio/best/best"},
		{quality: "480p", want: "bestvideo[height<=480]+bestaudio/best/best"},
	}
	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			q, err := model.ParseVideoQuality(tt.quality)
			if err != nil {
				t.Fatalf("ParseVideoQuality(%q): %v", tt.quality, err)
			}
			if got := VideoFormatSpec(q); got != tt.want {
				t.Errorf("VideoFormatSpec(%q) = %q, want %q", tt.quality, got, tt.want)
			}
			args := VideoArgs(q)
			if !contains(args, "--merge-output-format") || !contains(args, "mp4") {
				t.Errorf("VideoArgs(%q) does not merge into mp4: %v", tt.quality, args)
			}
		})
	}
}

func TestOutputPattern(t *testing.T) {
	got := OutputPattern("/data/audios")
	want := filepath.Join("/data/audios", "%(title)s [%(id)s].%(ext)s")
	if got != want {
		t.Errorf("OutputPattern = %q, want %q", got, want)
	}
}

func contains(ss []string, q string) bool {
	for _, s := range ss {
		if s == q {
			return true
		}
	}
	return false
}
