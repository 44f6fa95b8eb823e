package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	fs := cmd.Flags()
	fs.String("config", "", "")
	fs.String("storage-root", "", "")
	fs.String("listen", DefaultListen, "")
	fs.String("log-level", DefaultLogLevel, "")
	fs.Bool("verbose", false, "")
	fs.Float64("rate-limit", 0, "")
	return cmd
}

func setup(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	setup(t)
	if err := Init(newCmd()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	opts, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Listen != ":8000" || opts.LogLevel != "info" || opts.RateLimit != 0 || opts.RateBurst != DefaultRateBurst {
		t.Errorf("defaults = %+v", opts)
	}
	if !strings.HasSuffix(opts.StorageRoot, "mediafetch") {
		t.Errorf("storage root = %q", opts.StorageRoot)
	}
	if d, _ := ReadHeaderTimeout(opts); d != 10*time.Second {
		t.Errorf("read header timeout = %v", d)
	}
}

func TestLoad_Precedence(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	body := "listen: \":9000\"\nlog_level: debug\nrate_limit: 2.5\nstorage_root: /from/file\n"
	if err := os.WriteFile(cfgFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MEDIAFETCH_LOG_LEVEL", "warn")

	cmd := newCmd()
	if err := cmd.Flags().Set("config", cfgFile); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("storage-root", "/from/flag"); err != nil {
		t.Fatal(err)
	}
	if err := Init(cmd); err != nil {
		t.Fatalf("Init: %v", err)
	}
	opts, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Listen != ":9000" {
		t.Errorf("listen = %q, want value from file", opts.Listen)
	}
	if opts.LogLevel != "warn" {
		t.Errorf("log level = %q, want env override", opts.LogLevel)
	}
	if opts.StorageRoot != "/from/flag" {
		t.Errorf("storage root = %q, want flag override", opts.StorageRoot)
	}
	if opts.RateLimit != 2.5 {
		t.Errorf("rate limit = %v", opts.RateLimit)
	}
}

func TestInit_BrokenConfigFile(t *testing.T) {
	setup(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("listen: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := newCmd()
	_ = cmd.Flags().Set("config", cfgFile)
	if err := Init(cmd); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"MEDIAFETCH_READ_HEADER_TIMEOUT", "soon"},
		{"MEDIAFETCH_RATE_LIMIT", "-1"},
		{"MEDIAFETCH_RATE_BURST", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setup(t)
			t.Setenv(tt.key, tt.val)
			if err := Init(newCmd()); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s: expected error", tt.key, tt.val)
			}
		})
	}
}
