package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidQuality = errors.New("invalid quality")
	ErrInvalidKind    = errors.New("invalid media kind")
	ErrInvalidURL     = errors.New("invalid URL")
)

// MediaKind selects the storage directory and file route of an artifact.
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// ParseMediaKind accepts "audio" or "video".
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAudio:
		return KindAudio, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: audio|video)", ErrInvalidKind, s)
	}
}

// AudioMode controls whether extracted audio is transcoded.
type AudioMode string

const (
	AudioMP3  AudioMode = "mp3"  // transcode to MP3
	AudioFast AudioMode = "fast" // keep the source stream (m4a/webm/opus)
)

// DefaultAudioMode is used when a request omits the mode.
const DefaultAudioMode = AudioMP3

// ParseAudioMode maps user input to an AudioMode. Empty input yields the
// default; anything outside {mp3, fast} is rejected.
func ParseAudioMode(s string) (AudioMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch AudioMode(s) {
	case "":
		return DefaultAudioMode, nil
	case AudioMP3, AudioFast:
		return AudioMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q (valid: mp3|fast)", ErrInvalidMode, s)
	}
}

// MaxVideoHeight bounds explicit quality requests (8K).
const MaxVideoHeight = 8640

// VideoQuality is either "best" (MaxHeight == 0) or a cap on the vertical
// resolution of the selected video stream.
type VideoQuality struct {
	MaxHeight int
}

// BestQuality requests the best available video and audio.
var BestQuality = VideoQuality{}

// IsBest reports whether no height cap applies.
func (q VideoQuality) IsBest() bool {
	return q.MaxHeight == 0
}

func (q VideoQuality) String() string {
	if q.IsBest() {
		return "best"
	}
	return strconv.Itoa(q.MaxHeight)
}

// ParseVideoQuality accepts "best", a positive height ("720") or a height
// with a trailing "p" ("720p"). Empty input yields BestQuality.
func ParseVideoQuality(s string) (VideoQuality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "best" {
		return BestQuality, nil
	}
	h, err := strconv.Atoi(strings.TrimSuffix(s, "p"))
	if err != nil || h <= 0 || h > MaxVideoHeight {
		return VideoQuality{}, fmt.Errorf("%w: %q (valid: best or a height such as 1080, 720, 480)", ErrInvalidQuality, s)
	}
	return VideoQuality{MaxHeight: h}, nil
}
