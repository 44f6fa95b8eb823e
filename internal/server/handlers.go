package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mediafetch/internal/model"
	"mediafetch/internal/storage"
	"mediafetch/internal/util/format"
)

const maxBodyBytes = 1 << 20

type audioRequest struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

type videoRequest struct {
	URL     string     `json:"url"`
	Quality flexString `json:"quality"`
}

// flexString accepts a JSON string or number, so {"quality": 720} works.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("quality must be a string or a number")
	}
	*f = flexString(n.String())
	return nil
}

type downloadResponse struct {
	Title       string `json:"title"`
	SizeBytes   int64  `json:"size_bytes"`
	SizeHuman   string `json:"size_human"`
	DownloadURL string `json:"download_url"`
}

type healthResponse struct {
	Status        string `json:"status"`
	StorageRoot   string `json:"storage_root"`
	DiskFreeBytes uint64 `json:"disk_free_bytes"`
	DiskFreeHuman string `json:"disk_free_human"`
	AudioDir      string `json:"audio_dir"`
	VideoDir      string `json:"video_dir"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "mediafetch API",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.Usage()
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("op", "server/health").Msg("disk usage")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:        "ok",
		StorageRoot:   s.store.Root,
		DiskFreeBytes: u.Free,
		DiskFreeHuman: format.HumanSize(int64(u.Free)),
		AudioDir:      s.store.Dir(model.KindAudio),
		VideoDir:      s.store.Dir(model.KindVideo),
	})
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := model.ParseAudioMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.ext.DownloadAudio(r.Context(), req.URL, mode)
	s.respondDownload(w, r, model.KindAudio, res, err)
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	q, err := model.ParseVideoQuality(string(req.Quality))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.ext.DownloadVideo(r.Context(), req.URL, q)
	s.respondDownload(w, r, model.KindVideo, res, err)
}

func (s *Server) respondDownload(w http.ResponseWriter, r *http.Request, kind model.MediaKind, res model.DownloadResult, err error) {
	l := zerolog.Ctx(r.Context())
	if err != nil {
		l.Warn().Err(err).Str("op", "server/"+string(kind)).Msg("extraction failed")
		detail := err.Error()
		if detail == "" {
			detail = "extraction failed"
		}
		writeError(w, r, http.StatusBadRequest, detail)
		return
	}
	name := filepath.Base(res.Path)
	writeJSON(w, r, http.StatusOK, downloadResponse{
		Title:       res.Title,
		SizeBytes:   res.Size,
		SizeHuman:   format.HumanSize(res.Size),
		DownloadURL: fileURL(kind, name),
	})
}

// fileURL is the route under which handleFile serves name.
func fileURL(kind model.MediaKind, name string) string {
	return "/files/" + string(kind) + "/" + url.PathEscape(name)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseMediaKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	name := r.PathValue("filename")
	path, fi, err := s.store.Lookup(kind, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			writeError(w, r, http.StatusNotFound, "file not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("op", "server/files").Msg("lookup")
		writeError(w, r, http.StatusInternalServerError, "could not read file")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", attachment(name))
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

// handleFileNotFound answers paths under /files/ that name no single file.
func (s *Server) handleFileNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "file not found")
}

func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %s", strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}
