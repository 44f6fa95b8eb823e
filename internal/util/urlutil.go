package util

import (
	"fmt"
	"net/url"
	"strings"

	"mediafetch/internal/model"
)

// NormalizeMediaURL parses a user supplied media URL. A bare host such as
// "youtu.be/abc" is retried with an https scheme. Only http and https URLs
// with a host are accepted; site support is left to the extractor.
func NormalizeMediaURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", model.ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u == nil || u.Host == "" {
		return "", fmt.Errorf("%w %q", model.ErrInvalidURL, raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w %q: scheme must be http or https", model.ErrInvalidURL, raw)
	}
	return u.String(), nil
}
