package progress

import "time"

// Stage identifies a high-level step of one extraction.
type Stage string

const (
	StageMetadata       Stage = "metadata"
	StageDownloading    Stage = "downloading"
	StagePostprocessing Stage = "postprocessing"
	StageCompleted      Stage = "completed"
	StageError          Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; a negative value means unknown.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64

	ETA     *time.Duration // optional
	Total   *string        // optional, e.g. "10.00MiB"
	Speed   *string        // optional, e.g. "2.5MiB/s"
	Message string         // short human-friendly status line
}

// Log is a raw output line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID      string
	Title      string
	OutputPath string
	Bytes      int64
	Err        error // nil on success
}

// Reporter is implemented by the terminal UI or any observer interested in
// progress events. Implementations must be safe for use from the goroutines
// reading subprocess output.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
