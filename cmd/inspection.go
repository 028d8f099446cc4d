package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	"mrcfield/internal/errs"
	"mrcfield/internal/usecase/inspection"
)

var inspectionCmd = &cobra.Command{
	Use:   "inspection",
	Short: "Inspection workflow commands",
}

var inspectionConvertCmd = &cobra.Command{
	Use:   "convert <lead-id>",
	Short: "Book a scheduled inspection for a lead",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		technician, _ := cmd.Flags().GetString("technician")
		input := inspection.ConvertLeadInput{LeadID: cmd.Flags().Arg(0), TechnicianID: technician}
		if raw, _ := cmd.Flags().GetString("scheduled-at"); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return errs.Wrap(err, "parse --scheduled-at")
			}
			at = at.UTC()
			input.ScheduledAt = &at
		}

		insp, err := svc.Inspections.ConvertLead(ctx, input)
		if err != nil {
			return errs.Wrap(err, "convert lead")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "inspection scheduled id=%s version=%d\n", insp.ID, insp.Version)
		return errs.Wrap(err, "write inspection output")
	}),
}

var inspectionStartCmd = &cobra.Command{
	Use:   "start <inspection-id>",
	Short: "Start a scheduled inspection and assign its job number",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		version, _ := cmd.Flags().GetInt64("expected-version")
		insp, err := svc.Inspections.Start(cmd.Context(), inspection.Ref{
			InspectionID:    cmd.Flags().Arg(0),
			ExpectedVersion: version,
		})
		if err != nil {
			return errs.Wrap(err, "start inspection")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "inspection started id=%s job=%s version=%d\n", insp.ID, insp.JobNumber, insp.Version)
		return errs.Wrap(err, "write inspection output")
	}),
}

var inspectionShowCmd = &cobra.Command{
	Use:   "show <inspection-id>",
	Short: "Print an inspection as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		insp, err := svc.Inspections.Get(cmd.Context(), cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "get inspection")
		}
		return writeJSON(cmd.OutOrStdout(), insp)
	}),
}

var inspectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inspections, most recently updated first",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.Inspections.List(cmd.Context(), inspection.ListInput{Status: status, Limit: limit})
		if err != nil {
			return errs.Wrap(err, "list inspections")
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			_, err := fmt.Fprintln(out, "no inspections")
			return errs.Wrap(err, "write inspection output")
		}
		for _, item := range items {
			job := item.JobNumber
			if job == "" {
				job = "-"
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\tv%d\t%s\n",
				item.ID, item.Status, job, item.Version, item.UpdatedAt.UTC().Format(time.RFC3339),
			); err != nil {
				return errs.Wrap(err, "write inspection output")
			}
		}
		return nil
	}),
}

var inspectionCompleteCmd = &cobra.Command{
	Use:   "complete <inspection-id>",
	Short: "Price, lock and complete an in-progress inspection",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		version, _ := cmd.Flags().GetInt64("expected-version")
		input := inspection.CompleteInput{InspectionID: cmd.Flags().Arg(0), ExpectedVersion: version}
		if raw, _ := cmd.Flags().GetString("final-cost"); raw != "" {
			final, err := decimal.NewFromString(raw)
			if err != nil {
				return errs.Wrap(err, "parse --final-cost")
			}
			input.FinalCostOverride = &final
		}

		result, err := svc.Inspections.Complete(ctx, input)
		if err != nil {
			return errs.Wrap(err, "complete inspection")
		}
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "inspection completed id=%s job=%s version=%d\n",
			result.Inspection.ID, result.Inspection.JobNumber, result.Inspection.Version,
		); err != nil {
			return errs.Wrap(err, "write inspection output")
		}
		if _, err := fmt.Fprint(out, renderBreakdown(result.Breakdown)); err != nil {
			return errs.Wrap(err, "write inspection output")
		}
		if _, err := fmt.Fprintf(out, "final cost: %s\n", costing.FormatAUD(result.Inspection.Cost.FinalCost)); err != nil {
			return errs.Wrap(err, "write inspection output")
		}
		if result.LeadUpdateError != nil {
			logging.Warn(ctx, "lead status was not updated", slog.Any("err", errs.Loggable(result.LeadUpdateError)))
		}
		if result.EventError != nil {
			logging.Warn(ctx, "completion event was not published", slog.Any("err", errs.Loggable(result.EventError)))
		}
		return nil
	}),
}

var inspectionExportCmd = &cobra.Command{
	Use:   "export <inspection-id>",
	Short: "Write the inspection report workbook",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) (err error) {
		id := cmd.Flags().Arg(0)
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = "inspection-" + id + ".xlsx"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errs.Wrap(err, "create report directory")
		}

		file, err := os.Create(path)
		if err != nil {
			return errs.Wrap(err, "create report file")
		}
		defer func() {
			if closeErr := file.Close(); err == nil && closeErr != nil {
				err = errs.Wrap(closeErr, "close report file")
			}
		}()

		if err := svc.Inspections.ExportReport(cmd.Context(), id, file); err != nil {
			return errs.Wrap(err, "export report")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\n", path)
		return errs.Wrap(err, "write inspection output")
	}),
}

func init() {
	rootCmd.AddCommand(inspectionCmd)
	inspectionCmd.AddCommand(
		inspectionConvertCmd,
		inspectionStartCmd,
		inspectionShowCmd,
		inspectionListCmd,
		inspectionCompleteCmd,
		inspectionExportCmd,
	)

	inspectionConvertCmd.Flags().String("technician", "", "Assigned technician id")
	inspectionConvertCmd.Flags().String("scheduled-at", "", "Booking time (RFC3339)")
	inspectionStartCmd.Flags().Int64("expected-version", 0, "Fail unless the stored version matches (0 skips the check)")
	inspectionListCmd.Flags().String("status", "", "Status filter (scheduled|in_progress|completed)")
	inspectionListCmd.Flags().Int("limit", 50, "Maximum rows")
	inspectionCompleteCmd.Flags().Int64("expected-version", 0, "Fail unless the stored version matches (0 skips the check)")
	inspectionCompleteCmd.Flags().String("final-cost", "", "Final cost override including GST")
	inspectionExportCmd.Flags().String("out", "", "Output path (default inspection-<id>.xlsx)")
}
