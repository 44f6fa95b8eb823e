package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediafetch/internal/pipeline"
	"mediafetch/internal/storage"
	"mediafetch/internal/util"
)

// namedYTDLP answers the metadata request and, for the download, writes name
// into the -o directory and prints its path like --print after_move:filepath.
type namedYTDLP struct {
	name string
	size int
}

func (f *namedYTDLP) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	for _, a := range spec.Args {
		if a == "--dump-json" {
			return util.CmdResult{Stdout: []byte(`{"id":"x","title":"Some Title"}` + "\n")}, nil
		}
	}
	var tmpl string
	for i, a := range spec.Args {
		if a == "-o" && i+1 < len(spec.Args) {
			tmpl = spec.Args[i+1]
		}
	}
	if tmpl == "" {
		return util.CmdResult{Code: 2}, fmt.Errorf("no -o argument in %v", spec.Args)
	}
	out := filepath.Join(filepath.Dir(tmpl), f.name)
	if err := os.WriteFile(out, []byte(strings.Repeat("z", f.size)), 0o644); err != nil {
		return util.CmdResult{Code: 1}, err
	}
	if spec.StdoutLine != nil {
		spec.StdoutLine(out)
	}
	return util.CmdResult{Stdout: []byte(out + "\n")}, nil
}

func TestRoundTrip_PipelineFileNames(t *testing.T) {
	names := []string{
		"100% pure [a1].webm",
		"C# tutorial #1 [b2].webm",
		"what? why [c3].webm",
		"a;b,c [d4].webm",
		"日本語の曲 [e5].webm",
		"..leading dots [f6].webm",
		"plus+and&amp [g7].webm",
	}
	for i, name := range names {
		t.Run(name, func(t *testing.T) {
			st, err := storage.New(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			if err := st.Ensure(); err != nil {
				t.Fatal(err)
			}
			runner := &namedYTDLP{name: name, size: 1000 + i}
			svc := pipeline.NewService(
				pipeline.WithDownloaderPath("/bin/yt-dlp"),
				pipeline.WithFFmpegPath("/bin/ffmpeg"),
				pipeline.WithStore(st),
				pipeline.WithRunner(runner),
			)
			srv := httptest.NewServer(New(svc, st, Options{}).Handler())
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/audio", "application/json",
				strings.NewReader(`{"url":"https://example.com/watch?v=x","mode":"fast"}`))
			if err != nil {
				t.Fatal(err)
			}
			var got downloadResponse
			err = json.NewDecoder(resp.Body).Decode(&got)
			resp.Body.Close()
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("POST status = %d", resp.StatusCode)
			}
			if got.Title != "Some Title" || got.SizeBytes != int64(runner.size) {
				t.Errorf("response = %+v", got)
			}
			if !strings.HasPrefix(got.DownloadURL, "/files/audio/") {
				t.Fatalf("download_url = %q", got.DownloadURL)
			}

			fileResp, err := http.Get(srv.URL + got.DownloadURL)
			if err != nil {
				t.Fatal(err)
			}
			defer fileResp.Body.Close()
			if fileResp.StatusCode != http.StatusOK {
				t.Fatalf("GET %s status = %d", got.DownloadURL, fileResp.StatusCode)
			}
			data, err := io.ReadAll(fileResp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if int64(len(data)) != got.SizeBytes {
				t.Errorf("file length = %d, want %d", len(data), got.SizeBytes)
			}
		})
	}
}
