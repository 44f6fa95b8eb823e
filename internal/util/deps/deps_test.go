package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindDownloader_CustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	got, err := FindDownloader(bin)
	if err != nil {
		t.Fatalf("FindDownloader(%q) error: %v", bin, err)
	}
	if got != bin {
		t.Errorf("FindDownloader(%q) = %q", bin, got)
	}

	if _, err := FindDownloader(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing custom path")
	}
	if _, err := FindFFmpeg(dir); err == nil {
		t.Error("expected error when custom path is a directory")
	}
}
