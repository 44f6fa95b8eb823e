package downloader

// YTDLPInfo mirrors fields from yt-dlp --dump-json output that we care about.
type YTDLPInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	Ext        string  `json:"ext"`
	WebpageURL string  `json:"webpage_url"`
	Extractor  string  `json:"extractor"`
}
