package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/transport/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inspection HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		if !skipMigrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "initialize schema")
			}
		}

		cfg := httpapi.ServerConfig{
			Addr:         app.Config.HTTP.Addr,
			ReadTimeout:  app.Config.HTTP.ReadTimeout,
			WriteTimeout: app.Config.HTTP.WriteTimeout,
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		server := httpapi.NewServer(cfg, svc.HTTP.Routes())

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "inspection api started", slog.String("addr", server.Addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "inspection api failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve inspection api")
			}
			return nil
		case <-sigCtx.Done():
		}

		grace, _ := cmd.Flags().GetDuration("shutdown-timeout")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		logging.Info(ctx, "inspection api shutting down", slog.Duration("grace", grace))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown inspection api")
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(err, "serve inspection api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().Bool("skip-migrate", false, "Do not apply pending migrations on startup")
	serveCmd.Flags().Duration("shutdown-timeout", 15*time.Second, "Graceful shutdown timeout")
}
