package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abraxas-365/mockup2html/api"
	"github.com/Abraxas-365/mockup2html/app"
	"github.com/Abraxas-365/mockup2html/logx"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if port != 0 {
				settings.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := app.Build(ctx, settings)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := c.Close(shutdownCtx); err != nil {
					logx.Warn("shutdown: %v", err)
				}
			}()

			if ok, err := c.Service.Restore(ctx); err != nil {
				logx.Warn("session not restored: %v", err)
			} else if ok {
				logx.Info("Restored cached session image")
			}

			server := api.New(c.Service, api.Config{BodyLimit: settings.Server.BodyLimit})

			errCh := make(chan error, 1)
			go func() {
				addr := fmt.Sprintf(":%d", settings.Server.Port)
				logx.Info("Listening on %s (store=%s cache=%s events=%s)", addr,
					settings.Store.Driver, settings.Cache.Driver, settings.Events.Driver)
				errCh <- server.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logx.Info("Shutting down")
				return server.ShutdownWithTimeout(10 * time.Second)
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}
