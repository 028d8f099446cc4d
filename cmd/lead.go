package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/usecase/lead"
)

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Lead intake commands",
}

var leadCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new enquiry",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := lead.CreateLeadInput{}
		input.FirstName, _ = cmd.Flags().GetString("first-name")
		input.LastName, _ = cmd.Flags().GetString("last-name")
		input.Email, _ = cmd.Flags().GetString("email")
		input.Phone, _ = cmd.Flags().GetString("phone")
		input.Address, _ = cmd.Flags().GetString("address")
		input.Suburb, _ = cmd.Flags().GetString("suburb")
		input.Postcode, _ = cmd.Flags().GetString("postcode")
		input.ServiceType, _ = cmd.Flags().GetString("service-type")
		input.Notes, _ = cmd.Flags().GetString("notes")

		created, err := svc.Leads.CreateLead(ctx, input)
		if err != nil {
			return errs.Wrap(err, "create lead")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "lead created id=%s status=%s\n", created.ID, created.Status); err != nil {
			return errs.Wrap(err, "write lead output")
		}
		return nil
	}),
}

var leadShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Print a lead as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		found, err := svc.Leads.GetLead(cmd.Context(), cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "get lead")
		}
		return writeJSON(cmd.OutOrStdout(), found)
	}),
}

func init() {
	rootCmd.AddCommand(leadCmd)
	leadCmd.AddCommand(leadCreateCmd)
	leadCmd.AddCommand(leadShowCmd)

	leadCreateCmd.Flags().String("first-name", "", "Customer first name")
	leadCreateCmd.Flags().String("last-name", "", "Customer last name")
	leadCreateCmd.Flags().String("email", "", "Customer email")
	leadCreateCmd.Flags().String("phone", "", "Customer phone")
	leadCreateCmd.Flags().String("address", "", "Street address")
	leadCreateCmd.Flags().String("suburb", "", "Suburb")
	leadCreateCmd.Flags().String("postcode", "", "Postcode")
	leadCreateCmd.Flags().String("service-type", "mould inspection", "Requested service")
	leadCreateCmd.Flags().String("notes", "", "Free-form notes")
}
