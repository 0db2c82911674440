package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/csheth/pdfask/internal/config"
	"github.com/csheth/pdfask/internal/server"
)

func serveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(*opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, server.Options{
				Addr:         cfg.Addr,
				AllowOrigins: cfg.AllowOrigins,
				Controller:   newController(cfg),
			})
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	return cmd
}
