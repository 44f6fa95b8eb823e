// Package storage owns the on-disk layout of produced artifacts: one
// directory per media kind under a configurable root.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"

	"mediafetch/internal/model"
	"mediafetch/internal/util"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

const (
	audioDirName = "audios"
	videoDirName = "videos"
)

// Store is the storage root shared by the extraction service and the router.
type Store struct {
	Root string
}

// New returns a Store rooted at the absolute form of root.
func New(root string) (Store, error) {
	if strings.TrimSpace(root) == "" {
		return Store{}, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Store{}, fmt.Errorf("resolve storage root: %w", err)
	}
	return Store{Root: abs}, nil
}

// Dir returns the directory holding artifacts of the given kind.
func (s Store) Dir(kind model.MediaKind) string {
	switch kind {
	case model.KindAudio:
		return filepath.Join(s.Root, audioDirName)
	default:
		return filepath.Join(s.Root, videoDirName)
	}
}

// Ensure creates the root and both kind directories.
func (s Store) Ensure() error {
	for _, k := range []model.MediaKind{model.KindAudio, model.KindVideo} {
		if err := util.EnsureDir(s.Dir(k)); err != nil {
			return fmt.Errorf("ensure %s dir: %w", k, err)
		}
	}
	return nil
}

// Contains reports whether path is located inside the kind's directory.
func (s Store) Contains(kind model.MediaKind, path string) bool {
	return util.WithinDir(s.Dir(kind), path)
}

// Lookup resolves a bare file name inside the kind's directory. Names with
// separators or parent references are rejected, and only regular files are
// returned.
func (s Store) Lookup(kind model.MediaKind, name string) (string, os.FileInfo, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	p := filepath.Join(s.Dir(kind), name)
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", nil, err
	}
	if !fi.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, fi, nil
}

// Usage reports filesystem usage for the volume holding the root.
func (s Store) Usage() (*disk.UsageStat, error) {
	u, err := disk.Usage(s.Root)
	if err != nil {
		return nil, fmt.Errorf("disk usage for %s: %w", s.Root, err)
	}
	return u, nil
}
