package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitecam/internal/httpapi"
	"sitecam/internal/platform/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.SeedDemo {
			if err := a.seedDemo(cmd.Context(), time.Now()); err != nil {
				a.log.Warn("demo seeding failed", logger.Err(err))
			}
		}

		h := httpapi.NewRouter(httpapi.Deps{
			Device:    a.cfg.Device,
			Log:       a.log,
			Metrics:   a.metrics,
			Clips:     a.clips,
			Artifacts: a.artifacts,
			Shares:    a.shares,
		})

		srv := &http.Server{
			Addr:         ":" + a.cfg.HTTP.Port,
			Handler:      h,
			ReadTimeout:  a.cfg.HTTP.ReadTimeout,
			WriteTimeout: a.cfg.HTTP.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		a.log.Info("server starting",
			slog.String("port", a.cfg.HTTP.Port),
			slog.String("env", a.cfg.Env),
			slog.String("store", a.cfg.Store.Driver),
			slog.String("device", a.cfg.Device.ID),
			slog.Int("playlist_window", a.cfg.Video.PlaylistWindow),
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			a.log.Error("server error", logger.Err(err))
			return err
		case <-sigCh:
		}

		a.log.Info("shutdown signal received, draining connections")

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("shutdown error", logger.Err(err))
			return err
		}

		a.log.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
