package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"mediafetch/internal/progress"
	"mediafetch/internal/util"
)

// Options controls downloader behavior.
type Options struct {
	DownloaderPath string // Path to yt-dlp or youtube-dl
	FFmpegPath     string // Passed as --ffmpeg-location when set
	Verbose        bool
	Runner         util.CmdRunner
	Reporter       progress.Reporter
	JobID          string
}

// Request describes one download into OutputDir.
type Request struct {
	URL        string
	FormatArgs []string // from AudioArgs or VideoArgs
	OutputDir  string
}

// ToolError carries the most useful line yt-dlp printed before failing.
type ToolError struct {
	Msg  string
	Code int
	Err  error
}

func (e *ToolError) Error() string {
	return e.Msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ErrNoOutputPath is returned when yt-dlp exits cleanly without printing the
// final file path.
var ErrNoOutputPath = errors.New("downloader did not report an output file")

var baseArgs = []string{"--no-playlist", "--no-warnings", "--ignore-config"}

// Inspect fetches metadata without downloading media.
func Inspect(ctx context.Context, url string, opts Options) (YTDLPInfo, error) {
	if opts.DownloaderPath == "" {
		return YTDLPInfo{}, errors.New("downloader path is required")
	}
	args := append([]string{"--dump-json", "--skip-download"}, baseArgs...)
	args = append(args, url)

	res, runErr := runner(opts).Run(ctx, util.CmdSpec{
		Path:    opts.DownloaderPath,
		Args:    args,
		Verbose: opts.Verbose,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return YTDLPInfo{}, toolError("metadata fetch failed", res, runErr)
	}
	return parseInfo(res.Stdout)
}

// Fetch downloads (and, depending on FormatArgs, transcodes or merges) the
// media of req.URL into req.OutputDir and returns the final file path as
// reported by yt-dlp after all postprocessors ran.
func Fetch(ctx context.Context, req Request, opts Options) (string, error) {
	if opts.DownloaderPath == "" {
		return "", errors.New("downloader path is required")
	}
	if req.OutputDir == "" {
		return "", errors.New("output dir is required")
	}

	args := append([]string{}, req.FormatArgs...)
	args = append(args, "-o", OutputPattern(req.OutputDir))
	args = append(args, baseArgs...)
	args = append(args,
		"--newline",
		"--progress",
		"--no-simulate",
		"--print", "after_move:filepath",
	)
	if opts.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", opts.FFmpegPath)
	}
	args = append(args, req.URL)

	var mu sync.Mutex
	var printed []string
	onLine := func(stream progress.LogStream) func(string) {
		return func(line string) {
			if stream == progress.StreamStdout {
				if p := strings.TrimSpace(line); filepath.IsAbs(p) {
					mu.Lock()
					printed = append(printed, p)
					mu.Unlock()
				}
			}
			if opts.Reporter == nil {
				return
			}
			if u, ok := ParseProgress(line, opts.JobID); ok {
				opts.Reporter.Update(u)
				return
			}
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: stream, Line: line})
		}
	}

	res, runErr := runner(opts).Run(ctx, util.CmdSpec{
		Path:       opts.DownloaderPath,
		Args:       args,
		Verbose:    opts.Verbose,
		StdoutLine: onLine(progress.StreamStdout),
		StderrLine: onLine(progress.StreamStderr),
	})
	if runErr != nil {
		return "", toolError("download failed", res, runErr)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(printed) == 0 {
		return "", ErrNoOutputPath
	}
	return printed[len(printed)-1], nil
}

func runner(opts Options) util.CmdRunner {
	if opts.Runner != nil {
		return opts.Runner
	}
	return util.NewDefaultRunner()
}

func parseInfo(stdout []byte) (YTDLPInfo, error) {
	data := strings.TrimSpace(string(stdout))
	var info YTDLPInfo
	if err := json.Unmarshal([]byte(data), &info); err == nil {
		return info, nil
	}
	// Several JSON objects (one per line) or stray text: take the last object.
	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var tmp YTDLPInfo
		if json.Unmarshal([]byte(line), &tmp) == nil {
			return tmp, nil
		}
	}
	return YTDLPInfo{}, errors.New("parse metadata JSON: no JSON object in downloader output")
}

// toolError builds a ToolError from the last ERROR line on stderr, falling
// back to the last stderr line, then to the exec error.
func toolError(prefix string, res util.CmdResult, err error) error {
	msg := lastErrorLine(res.Stderr)
	if msg == "" {
		msg = err.Error()
	}
	return &ToolError{
		Msg:  fmt.Sprintf("%s: %s", prefix, msg),
		Code: res.Code,
		Err:  err,
	}
}

func lastErrorLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
		if last == "" {
			last = line
		}
	}
	return last
}
