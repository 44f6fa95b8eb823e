package model

// DownloadResult describes one produced artifact.
type DownloadResult struct {
	Kind     MediaKind
	Title    string // metadata title, or the request URL when there is none
	Path     string // absolute path reported by the extractor
	Size     int64  // bytes, from the filesystem
	ID       string
	Uploader string
	Duration float64 // seconds; 0 if unknown
	URL      string
}

// ServerOptions is the typed view of the runtime configuration.
type ServerOptions struct {
	StorageRoot       string  `yaml:"storage_root"`
	Listen            string  `yaml:"listen"`
	DLBinary          string  `yaml:"dl_binary"`
	FFmpegBinary      string  `yaml:"ffmpeg_binary"`
	LogLevel          string  `yaml:"log_level"`
	Verbose           bool    `yaml:"verbose"`
	RateLimit         float64 `yaml:"rate_limit"` // requests per second on /api; 0 disables
	RateBurst         int     `yaml:"rate_burst"`
	ReadHeaderTimeout string  `yaml:"read_header_timeout"`
}
