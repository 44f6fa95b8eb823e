package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mediafetch/internal/dirs"
	"mediafetch/internal/model"
)

// Viper keys. Flags use the same names with '-' instead of '_'.
const (
	KeyStorageRoot       = "storage_root"
	KeyListen            = "listen"
	KeyDLBinary          = "dl_binary"
	KeyFFmpegBinary      = "ffmpeg_binary"
	KeyLogLevel          = "log_level"
	KeyVerbose           = "verbose"
	KeyRateLimit         = "rate_limit"
	KeyRateBurst         = "rate_burst"
	KeyReadHeaderTimeout = "read_header_timeout"
)

const (
	DefaultListen            = ":8000"
	DefaultLogLevel          = "info"
	DefaultRateBurst         = 5
	DefaultReadHeaderTimeout = "10s"
)

var keys = []string{
	KeyStorageRoot, KeyListen, KeyDLBinary, KeyFFmpegBinary, KeyLogLevel,
	KeyVerbose, KeyRateLimit, KeyRateBurst, KeyReadHeaderTimeout,
}

// Init wires Viper with defaults, env, the config file and the flags of cmd.
// A missing config file is not an error; a broken one is.
func Init(cmd *cobra.Command) error {
	viper.SetDefault(KeyListen, DefaultListen)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyRateLimit, 0.0)
	viper.SetDefault(KeyRateBurst, DefaultRateBurst)
	viper.SetDefault(KeyReadHeaderTimeout, DefaultReadHeaderTimeout)

	// Environment variables: MEDIAFETCH_*
	viper.SetEnvPrefix("MEDIAFETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	BindFlags(cmd.Flags())

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			viper.AddConfigPath(cfgDir)
		}
		viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}
	}
	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// BindFlags binds every flag in fs whose name maps to a known key.
func BindFlags(fs *pflag.FlagSet) {
	for _, k := range keys {
		if f := fs.Lookup(strings.ReplaceAll(k, "_", "-")); f != nil {
			_ = viper.BindPFlag(k, f)
		}
	}
}

// Load returns the effective configuration, filling in the default storage
// root and validating numeric settings.
func Load() (model.ServerOptions, error) {
	opts := model.ServerOptions{
		StorageRoot:       strings.TrimSpace(viper.GetString(KeyStorageRoot)),
		Listen:            viper.GetString(KeyListen),
		DLBinary:          viper.GetString(KeyDLBinary),
		FFmpegBinary:      viper.GetString(KeyFFmpegBinary),
		LogLevel:          viper.GetString(KeyLogLevel),
		Verbose:           viper.GetBool(KeyVerbose),
		RateLimit:         viper.GetFloat64(KeyRateLimit),
		RateBurst:         viper.GetInt(KeyRateBurst),
		ReadHeaderTimeout: viper.GetString(KeyReadHeaderTimeout),
	}
	if opts.StorageRoot == "" {
		root, err := dirs.DefaultStorageRoot()
		if err != nil {
			return opts, fmt.Errorf("resolve default storage root: %w", err)
		}
		opts.StorageRoot = root
	}
	if opts.RateLimit < 0 {
		return opts, fmt.Errorf("invalid %s %v: must be >= 0", KeyRateLimit, opts.RateLimit)
	}
	if opts.RateBurst < 0 {
		return opts, fmt.Errorf("invalid %s %d: must be >= 0", KeyRateBurst, opts.RateBurst)
	}
	if _, err := ReadHeaderTimeout(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// ReadHeaderTimeout parses the configured read-header timeout. Empty means none.
func ReadHeaderTimeout(opts model.ServerOptions) (time.Duration, error) {
	if strings.TrimSpace(opts.ReadHeaderTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(opts.ReadHeaderTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a duration such as 10s", KeyReadHeaderTimeout, opts.ReadHeaderTimeout)
	}
	return d, nil
}
