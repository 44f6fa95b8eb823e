package downloader

import (
	"testing"
	"time"

	"mediafetch/internal/progress"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantOk      bool
		wantStage   progress.Stage
		wantPercent float64
		wantTotal   string
		wantSpeed   string
		wantETA     *time.Duration
	}{
		{
			name:        "typical download progress",
			line:        "[download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04",
			wantOk:      true,
			wantStage:   progress.StageDownloading,
			wantPercent: 45.2,
			wantTotal:   "10.00MiB",
			wantSpeed:   "1.50MiB/s",
			wantETA:     durationPtr(4 * time.Second),
		},
		{
			name:        "estimated size",
			line:        "[download]  12.0% of ~ 80.50MiB at  3.00MiB/s ETA 01:23:45",
			wantOk:      true,
			wantStage:   progress.StageDownloading,
			wantPercent: 12.0,
			wantTotal:   "80.50MiB",
			wantSpeed:   "3.00MiB/s",
			wantETA:     durationPtr(1*time.Hour + 23*time.Minute + 45*time.Second),
		},
		{
			name:        "finished line",
			line:        "[download] 100% of 3.20MiB in 00:00:02 at 1.60MiB/s",
			wantOk:      true,
			wantStage:   progress.StageDownloading,
			wantPercent: 100,
			wantTotal:   "3.20MiB",
			wantSpeed:   "1.60MiB/s",
		},
		{
			name:        "extract audio postprocessor",
			line:        "[ExtractAudio] Destination: /data/audios/Song [abc].mp3",
			wantOk:      true,
			wantStage:   progress.StagePostprocessing,
			wantPercent: -1,
		},
		{
			name:        "merger postprocessor",
			line:        `[Merger] Merging formats into "/data/videos/Clip [xyz].mp4"`,
			wantOk:      true,
			wantStage:   progress.StagePostprocessing,
			wantPercent: -1,
		},
		{name: "destination line", line: "[download] Destination: /tmp/x.webm", wantOk: false},
		{name: "error line", line: "ERROR: [generic] Unable to download webpage", wantOk: false},
		{name: "empty line", line: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := ParseProgress(tt.line, "job1")
			if ok != tt.wantOk {
				t.Fatalf("ParseProgress() ok = %v, want %v", ok, tt.wantOk)
			}
			if !tt.wantOk {
				return
			}
			if u.JobID != "job1" {
				t.Errorf("JobID = %q", u.JobID)
			}
			if u.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", u.Stage, tt.wantStage)
			}
			if u.Percent != tt.wantPercent {
				t.Errorf("Percent = %v, want %v", u.Percent, tt.wantPercent)
			}
			if tt.wantTotal != "" && (u.Total == nil || *u.Total != tt.wantTotal) {
				t.Errorf("Total = %v, want %q", strPtr(u.Total), tt.wantTotal)
			}
			if tt.wantSpeed != "" && (u.Speed == nil || *u.Speed != tt.wantSpeed) {
				t.Errorf("Speed = %v, want %q", strPtr(u.Speed), tt.wantSpeed)
			}
			if tt.wantETA != nil && (u.ETA == nil || *u.ETA != *tt.wantETA) {
				t.Errorf("ETA = %v, want %v", u.ETA, *tt.wantETA)
			}
		})
	}
}

func TestParseETA(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    time.Duration
		wantErr bool
	}{
		{name: "MM:SS format", s: "04:30", want: 4*time.Minute + 30*time.Second},
		{name: "HH:MM:SS format", s: "01:23:45", want: 1*time.Hour + 23*time.Minute + 45*time.Second},
		{name: "seconds only", s: "45", want: 45 * time.Second},
		{name: "zero", s: "00:00", want: 0},
		{name: "invalid format", s: "invalid", wantErr: true},
		{name: "unknown eta", s: "Unknown", wantErr: true},
		{name: "too many colons", s: "1:2:3:4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseETA(tt.s)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseETA(%q) expected error, got nil", tt.s)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseETA(%q) unexpected error: %v", tt.s, err)
			}
			if got != tt.want {
				t.Errorf("parseETA(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func strPtr(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
