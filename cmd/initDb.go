/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/persistence/relational/migrations"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Apply pending database migrations",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "start init-db")

		rollback, _ := cmd.Flags().GetBool("rollback-last")
		if rollback {
			if err := migrations.RollbackLast(ctx, app.DB); err != nil {
				logging.Error(ctx, "rollback migration failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "rollback migration")
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "last migration rolled back"); err != nil {
				return errs.Wrap(err, "write init-db output")
			}
			return nil
		}

		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		logging.Info(ctx, "init-db finished", slog.String("database_driver", app.Config.Database.Driver))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized: %s\n", app.Config.Database.Driver); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
	initDbCmd.Flags().Bool("rollback-last", false, "Roll back the most recent migration instead of migrating up")
}
