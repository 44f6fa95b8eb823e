package downloader

import (
	"strconv"
	"strings"
	"time"

	"mediafetch/internal/progress"
)

// postprocessors whose log prefix marks the transcode/mux phase.
var postprocessors = []string{"[ExtractAudio]", "[Merger]", "[VideoConvertor]", "[FixupM4a]", "[FixupM3u8]"}

// ParseProgress parses one yt-dlp output line.
// Download lines look like: [download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04
// Postprocessor lines switch the stage to postprocessing with unknown percent.
func ParseProgress(line, jobID string) (u progress.Update, ok bool) {
	line = strings.TrimSpace(line)
	for _, pp := range postprocessors {
		if strings.HasPrefix(line, pp) {
			return progress.Update{
				JobID:   jobID,
				Stage:   progress.StagePostprocessing,
				Percent: -1,
				Message: strings.Trim(pp, "[]"),
			}, true
		}
	}
	if !strings.HasPrefix(line, "[download]") {
		return progress.Update{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "[download]"))

	// "[download] Destination: ..." and similar carry no percentage.
	idx := strings.Index(rest, "%")
	if idx == -1 {
		return progress.Update{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil {
		return progress.Update{}, false
	}

	u = progress.Update{
		JobID:   jobID,
		Stage:   progress.StageDownloading,
		Percent: percent,
		Message: "Downloading",
	}
	if v, found := fieldAfter(rest, " of "); found {
		v = strings.TrimPrefix(v, "~")
		if v == "" {
			v, _ = fieldAfter(rest, " of ~")
		}
		if v != "" {
			u.Total = &v
		}
	}
	if v, found := fieldAfter(rest, " at "); found && v != "" {
		u.Speed = &v
	}
	if v, found := fieldAfter(rest, "ETA "); found {
		if d, err := parseETA(v); err == nil {
			u.ETA = &d
		}
	}
	return u, true
}

// fieldAfter returns the first whitespace-delimited token following marker.
func fieldAfter(s, marker string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx == -1 {
		return "", false
	}
	fields := strings.Fields(s[idx+len(marker):])
	if len(fields) == 0 {
		return "", true
	}
	return fields[0], true
}

// parseETA parses duration strings like "45", "00:04" or "01:23:45".
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		_, err := strconv.Atoi(s)
		return 0, err
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, nil
}
