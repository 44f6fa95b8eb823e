package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestXDGOverrides(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables only apply on linux")
	}
	cfg := t.TempDir()
	data := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)
	t.Setenv("XDG_DATA_HOME", data)

	got, err := ConfigDir()
	if err != nil || got != filepath.Join(cfg, "mediafetch") {
		t.Errorf("ConfigDir() = %q, %v", got, err)
	}
	got, err = DataDir()
	if err != nil || got != filepath.Join(data, "mediafetch") {
		t.Errorf("DataDir() = %q, %v", got, err)
	}
	got, err = DefaultStorageRoot()
	if err != nil || got != filepath.Join(data, "mediafetch") {
		t.Errorf("DefaultStorageRoot() = %q, %v", got, err)
	}
}
