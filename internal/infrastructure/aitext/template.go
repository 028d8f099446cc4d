package aitext

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

// TemplateGenerator writes fixed prose from the readings. It is used when no
// model is configured and as the fallback when the model call fails.
type TemplateGenerator struct{}

var _ ports.TextGenerator = TemplateGenerator{}

func NewTemplateGenerator() TemplateGenerator {
	return TemplateGenerator{}
}

func (TemplateGenerator) AreaComments(ctx context.Context, in ports.AreaTextInput) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	locations := "no visible mould"
	if len(in.MouldVisibility) > 0 {
		locations = strings.Join(in.MouldVisibility, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inspection of the %s revealed mould growth on %s. ", areaLabel(in.AreaName), locations)
	fmt.Fprintf(&b, "Environmental readings show temperature at %s°C with %s%% relative humidity, ", formatReading(in.Temperature), formatReading(in.Humidity))
	fmt.Fprintf(&b, "resulting in a dew point of %s°C. ", formatReading(in.DewPoint))
	if len(in.Readings) > 0 {
		fmt.Fprintf(&b, "Moisture readings were taken at %s. ", strings.Join(in.Readings, ", "))
	}
	b.WriteString("These conditions are conducive to mould development. Professional remediation and moisture control measures are recommended.")
	return b.String(), nil
}

func (TemplateGenerator) DemolitionDescription(ctx context.Context, in ports.AreaTextInput) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Demolition Work Order - %s\n\n", areaLabel(in.AreaName))
	fmt.Fprintf(&b, "Estimated Time: %d minutes\n\n", in.DemolitionTime)
	b.WriteString("Tasks:\n")
	if len(in.MouldVisibility) == 0 {
		b.WriteString("• Assess and remove affected materials\n")
	}
	for _, location := range in.MouldVisibility {
		fmt.Fprintf(&b, "• Remove and dispose of affected %s\n", strings.ToLower(location))
	}
	b.WriteString("• Contain work area with plastic sheeting\n")
	b.WriteString("• Use HEPA filtration during removal\n")
	b.WriteString("• Double-bag all contaminated materials\n")
	b.WriteString("• Clean and sanitize exposed surfaces")
	return b.String(), nil
}

func (TemplateGenerator) CauseOfMould(ctx context.Context, in ports.InspectionTextInput) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the inspection findings across %d areas, the primary cause of mould growth appears to be elevated moisture levels combined with inadequate ventilation. ", len(in.Areas))
	fmt.Fprintf(&b, "Outdoor conditions (%s°C, %s%% humidity) indicate a high dew point, contributing to condensation on cooler surfaces. ", formatReading(in.OutdoorTemperature), formatReading(in.OutdoorHumidity))
	if strings.TrimSpace(in.Observations) != "" {
		b.WriteString("Subfloor inspection revealed additional moisture sources that require attention. ")
	}
	b.WriteString("Immediate remediation and improved ventilation are recommended to prevent recurrence.")
	return b.String(), nil
}

func (TemplateGenerator) SubfloorComments(ctx context.Context, in ports.InspectionTextInput) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	observations := strings.TrimSpace(in.Observations)
	if observations == "" {
		observations = "Standard observations noted"
	}
	landscape := strings.ToLower(strings.TrimSpace(in.Landscape))
	if landscape == "" {
		landscape = "level"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subfloor inspection findings: %s. ", observations)
	fmt.Fprintf(&b, "The subfloor landscape is %s. ", landscape)
	if len(in.ReadingValues) > 0 {
		fmt.Fprintf(&b, "Moisture readings peaked at %s%%. ", strconv.FormatFloat(maxValue(in.ReadingValues), 'f', 1, 64))
	}
	if in.Sanitation {
		b.WriteString("Sanitation treatment is required due to organic contamination. ")
	}
	if in.Racking {
		b.WriteString("Racking installation is recommended for improved ventilation. ")
	}
	b.WriteString("Overall, the subfloor requires attention to prevent moisture accumulation and maintain structural integrity.")
	return b.String(), nil
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}

func areaLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "area"
	}
	return name
}

func formatReading(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func maxValue(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}
