package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mrcfield/internal/bootstrap"
	"mrcfield/internal/domain/costing"
	"mrcfield/internal/errs"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Price a job from flags or a YAML/JSON input file",
	Long: "Price a job without touching any inspection.\n\n" +
		"Areas are given as --area name:jobMinutes[:demolitionMinutes]; --input reads a\n" +
		"YAML or JSON document with the same fields the HTTP calculate-cost endpoint accepts.",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		input, err := costInputFromFlags(cmd)
		if err != nil {
			return err
		}

		breakdown, err := svc.Inspections.PreviewCost(cmd.Context(), input)
		if err != nil {
			return errs.Wrap(err, "price job")
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), breakdown)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), renderBreakdown(breakdown))
		return errs.Wrap(err, "write cost output")
	}),
}

func costInputFromFlags(cmd *cobra.Command) (costing.CostInput, error) {
	var input costing.CostInput
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return costing.CostInput{}, errs.Wrap(err, "read cost input")
		}
		if err := yaml.Unmarshal(raw, &input); err != nil {
			return costing.CostInput{}, errs.Wrapf(err, "parse cost input %s", path)
		}
	}

	areas, _ := cmd.Flags().GetStringArray("area")
	for _, raw := range areas {
		area, err := parseAreaFlag(raw)
		if err != nil {
			return costing.CostInput{}, err
		}
		input.Areas = append(input.Areas, area)
	}

	flags := cmd.Flags()
	if flags.Changed("subfloor-minutes") {
		input.SubfloorTreatmentMinutes, _ = flags.GetInt("subfloor-minutes")
		input.SubfloorEnabled = input.SubfloorTreatmentMinutes > 0
	}
	if flags.Changed("dwelling") {
		input.DwellingType, _ = flags.GetString("dwelling")
	}
	if flags.Changed("dehumidifiers") {
		input.DehumidifierQty, _ = flags.GetInt("dehumidifiers")
	}
	if flags.Changed("air-movers") {
		input.AirMoverQty, _ = flags.GetInt("air-movers")
	}
	if flags.Changed("rcd-boxes") {
		input.RCDBoxQty, _ = flags.GetInt("rcd-boxes")
	}
	if flags.Changed("drying-days") {
		input.DryingDays, _ = flags.GetInt("drying-days")
	}
	return input, nil
}

// parseAreaFlag reads "name:jobMinutes[:demolitionMinutes]".
func parseAreaFlag(raw string) (costing.AreaInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return costing.AreaInput{}, fmt.Errorf("%w: area %q must be name:jobMinutes[:demolitionMinutes]", costing.ErrInvalidCostInput, raw)
	}
	jobMinutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return costing.AreaInput{}, fmt.Errorf("%w: area %q job minutes: %v", costing.ErrInvalidCostInput, raw, err)
	}
	area := costing.AreaInput{Name: strings.TrimSpace(parts[0]), JobTimeMinutes: jobMinutes}
	if len(parts) == 3 {
		demo, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return costing.AreaInput{}, fmt.Errorf("%w: area %q demolition minutes: %v", costing.ErrInvalidCostInput, raw, err)
		}
		area.DemolitionRequired = demo > 0
		area.DemolitionTimeMinutes = demo
	}
	return area, nil
}

func renderBreakdown(b costing.Breakdown) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	areas := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Area", "Job", "Demolition", "Total").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, area := range b.Areas {
		areas.Row(area.Name, minutes(area.JobTimeMinutes), minutes(area.DemolitionTimeMinutes), minutes(area.TotalMinutes))
	}

	equipment := b.Equipment
	totals := table.New().
		Border(lipgloss.NormalBorder()).
		Rows(
			[]string{"Work type", string(b.WorkType)},
			[]string{"Hours", b.TotalHours.StringFixed(2) + " at " + costing.FormatAUD(b.HourlyRate)},
			[]string{"Discount", costing.FormatPercent(b.DiscountPercent)},
			[]string{"Dehumidifiers", equipmentLine(equipment.Dehumidifiers)},
			[]string{"Air movers", equipmentLine(equipment.AirMovers)},
			[]string{"RCD boxes", equipmentLine(equipment.RCDBoxes)},
			[]string{"Labour", costing.FormatAUD(b.LabourCost)},
			[]string{"Equipment", costing.FormatAUD(b.EquipmentCost)},
			[]string{"Subtotal", costing.FormatAUD(b.Subtotal)},
			[]string{"GST", costing.FormatAUD(b.GST)},
			[]string{"Total", costing.FormatAUD(b.TotalCost)},
		)

	return areas.Render() + "\n" + totals.Render() + "\n"
}

func minutes(m int) string {
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func equipmentLine(line costing.EquipmentLine) string {
	if line.Qty == 0 {
		return "-"
	}
	return fmt.Sprintf("%d x %d days = %s", line.Qty, line.Days, costing.FormatAUD(line.Cost))
}

func init() {
	rootCmd.AddCommand(costCmd)
	registerCostFlags(costCmd)
}

func registerCostFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "YAML or JSON cost input file")
	cmd.Flags().StringArray("area", nil, "Area as name:jobMinutes[:demolitionMinutes] (repeatable)")
	cmd.Flags().Int("subfloor-minutes", 0, "Subfloor treatment minutes")
	cmd.Flags().String("dwelling", "", "Dwelling type")
	cmd.Flags().Int("dehumidifiers", 0, "Dehumidifier quantity")
	cmd.Flags().Int("air-movers", 0, "Air mover quantity")
	cmd.Flags().Int("rcd-boxes", 0, "RCD box quantity")
	cmd.Flags().Int("drying-days", 0, "Equipment hire days (0 derives from job time)")
	cmd.Flags().Bool("json", false, "Print the breakdown as JSON")
}
