package aitext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

const (
	DefaultModel = "gpt-4o"

	systemPrompt = "You are a professional mould inspector with extensive experience in moisture analysis and building science. Write clear, professional reports for property owners."
	maxTokens    = 300
	temperature  = 0.7
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type chatCompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIGenerator asks a chat model for prose and falls back to the
// template text when the call fails or returns nothing.
type OpenAIGenerator struct {
	chat     chatCompletions
	model    string
	fallback ports.TextGenerator
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(cfg Config, fallback ports.TextGenerator) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if fallback == nil {
		fallback = NewTemplateGenerator()
	}

	return &OpenAIGenerator{chat: &client.Chat.Completions, model: model, fallback: fallback}, nil
}

// New picks the OpenAI generator when a key is configured and the template
// generator otherwise.
func New(ctx context.Context, cfg Config) (ports.TextGenerator, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "infrastructure.aitext"))
	if strings.TrimSpace(cfg.APIKey) == "" {
		logging.Info(logCtx, "no openai api key configured, using template text")
		return NewTemplateGenerator(), nil
	}

	gen, err := NewOpenAIGenerator(cfg, NewTemplateGenerator())
	if err != nil {
		return nil, err
	}
	logging.Info(logCtx, "openai text generator enabled", slog.String("model", gen.model))
	return gen, nil
}

func (g *OpenAIGenerator) AreaComments(ctx context.Context, in ports.AreaTextInput) (string, error) {
	prompt := fmt.Sprintf(`As a professional mould inspector, write a short comment for the %s.

Mould visible on: %s
Temperature: %s°C
Relative humidity: %s%%
Dew point: %s°C
Moisture readings: %s

Provide one professional paragraph describing the findings and the recommended remediation.`,
		areaLabel(in.AreaName), joinOr(in.MouldVisibility, "no visible mould"),
		formatReading(in.Temperature), formatReading(in.Humidity), formatReading(in.DewPoint),
		joinOr(in.Readings, "none taken"))

	return g.complete(ctx, "area_comments", prompt, func(ctx context.Context) (string, error) {
		return g.fallback.AreaComments(ctx, in)
	})
}

func (g *OpenAIGenerator) DemolitionDescription(ctx context.Context, in ports.AreaTextInput) (string, error) {
	prompt := fmt.Sprintf(`As a professional mould remediation supervisor, write a demolition work order for the %s.

Affected materials: %s
Estimated demolition time: %d minutes

List the tasks as bullet points, including containment, HEPA filtration and disposal.`,
		areaLabel(in.AreaName), joinOr(in.MouldVisibility, "not specified"), in.DemolitionTime)

	return g.complete(ctx, "demolition_description", prompt, func(ctx context.Context) (string, error) {
		return g.fallback.DemolitionDescription(ctx, in)
	})
}

func (g *OpenAIGenerator) CauseOfMould(ctx context.Context, in ports.InspectionTextInput) (string, error) {
	areas := make([]string, 0, len(in.Areas))
	for _, a := range in.Areas {
		areas = append(areas, fmt.Sprintf("%s (mould on: %s)", areaLabel(a.AreaName), joinOr(a.MouldVisibility, "none")))
	}

	var b strings.Builder
	b.WriteString("As a professional mould inspector, analyze the root cause of mould growth based on these findings:\n\n")
	fmt.Fprintf(&b, "Areas affected: %s\n", joinOr(areas, "No areas specified"))
	fmt.Fprintf(&b, "Outdoor temperature: %s°C\n", formatReading(in.OutdoorTemperature))
	fmt.Fprintf(&b, "Outdoor humidity: %s%%\n", formatReading(in.OutdoorHumidity))
	if strings.TrimSpace(in.Observations) != "" {
		fmt.Fprintf(&b, "Subfloor observations: %s\n", in.Observations)
	}
	b.WriteString("\nProvide a professional 2-3 paragraph analysis of the root cause and contributing factors.")

	return g.complete(ctx, "cause_of_mould", b.String(), func(ctx context.Context) (string, error) {
		return g.fallback.CauseOfMould(ctx, in)
	})
}

func (g *OpenAIGenerator) SubfloorComments(ctx context.Context, in ports.InspectionTextInput) (string, error) {
	var b strings.Builder
	b.WriteString("As a professional mould inspector, summarise this subfloor inspection:\n\n")
	fmt.Fprintf(&b, "Observations: %s\n", joinOr([]string{strings.TrimSpace(in.Observations)}, "none recorded"))
	fmt.Fprintf(&b, "Landscape: %s\n", joinOr([]string{strings.TrimSpace(in.Landscape)}, "not recorded"))
	fmt.Fprintf(&b, "Sanitation required: %t\nRacking required: %t\n", in.Sanitation, in.Racking)
	if len(in.ReadingValues) > 0 {
		fmt.Fprintf(&b, "Highest moisture reading: %.1f%%\n", maxValue(in.ReadingValues))
	}
	b.WriteString("\nProvide one professional paragraph.")

	return g.complete(ctx, "subfloor_comments", b.String(), func(ctx context.Context) (string, error) {
		return g.fallback.SubfloorComments(ctx, in)
	})
}

func (g *OpenAIGenerator) complete(ctx context.Context, kind, prompt string, fallback func(context.Context) (string, error)) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "infrastructure.aitext"),
		slog.String("kind", kind),
		slog.String("model", g.model),
	)

	resp, err := g.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err == nil && resp != nil && len(resp.Choices) > 0 {
		if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
			return text, nil
		}
		err = errors.New("empty completion")
	}
	if err == nil {
		err = errors.New("no completion choices")
	}
	if ctx.Err() != nil {
		return "", errs.Wrap(ctx.Err(), "generate text")
	}

	logging.Warn(logCtx, "openai completion failed, using template text", slog.Any("err", errs.Loggable(err)))
	return fallback(ctx)
}

func joinOr(values []string, empty string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return empty
	}
	return strings.Join(parts, ", ")
}
