package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"astrogen/internal/api"
	"astrogen/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sector builds over HTTP with Server-Sent Events progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			builder, client, cleanup, err := ctx.newBuilder(builderOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			bind := cfg.Server.Bind
			if strings.TrimSpace(bindFlag) != "" {
				bind = bindFlag
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(builder, client,
				api.WithKeepalive(cfg.Keepalive()),
				api.WithLogger(logger),
			)
			if err := server.Start(runCtx, bind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", server.Addr())

			<-runCtx.Done()
			server.Stop()
			logger.Info("astrogen server shutting down", logging.String("address", server.Addr()))
			return nil
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (default from config)")
	return cmd
}
