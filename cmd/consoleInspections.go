package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/usecase/fieldconsole"
)

var consoleInspectionsCmd = &cobra.Command{
	Use:   "inspections",
	Short: "Start the inspection queue console",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		operator, _ := cmd.Flags().GetString("operator")
		status, _ := cmd.Flags().GetString("status")
		exportDir, _ := cmd.Flags().GetString("export-dir")
		limit, _ := cmd.Flags().GetInt("limit")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := fieldconsole.NewQueueModel(ctx, svc.Inspections, fieldconsole.QueueOptions{
			Operator:        operator,
			StatusFilter:    status,
			ExportDir:       exportDir,
			Limit:           limit,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run inspection console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleInspectionsCmd)
	consoleInspectionsCmd.Flags().String("operator", "office", "Name recorded in the audit log")
	consoleInspectionsCmd.Flags().String("status", "", "Optional status filter (scheduled|in_progress|completed)")
	consoleInspectionsCmd.Flags().String("export-dir", "reports", "Directory for exported workbooks")
	consoleInspectionsCmd.Flags().Int("limit", 50, "Maximum inspections shown")
	consoleInspectionsCmd.Flags().Duration("refresh-interval", 10*time.Second, "Auto refresh interval")
}
