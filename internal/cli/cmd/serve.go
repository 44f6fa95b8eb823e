package cmd

import (
	"github.com/spf13/cobra"

	"mediafetch/internal/config"
	"mediafetch/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			rt, err := resolveRuntime(opts)
			if err != nil {
				return err
			}
			rht, err := config.ReadHeaderTimeout(opts)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			srv := server.New(rt.service(), rt.store, server.Options{
				RateLimit:         opts.RateLimit,
				RateBurst:         opts.RateBurst,
				ReadHeaderTimeout: rht,
			})
			if err := srv.Run(cmd.Context(), opts.Listen); err != nil {
				return &ExitError{Code: ExitServerError, Err: err}
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.String("listen", config.DefaultListen, "Listen address")
	fs.Float64("rate-limit", 0, "Requests per second allowed on /api/ routes (0 disables)")
	fs.Int("rate-burst", config.DefaultRateBurst, "Burst size for --rate-limit")
	fs.String("read-header-timeout", config.DefaultReadHeaderTimeout, "Maximum time to read request headers")
	return cmd
}
