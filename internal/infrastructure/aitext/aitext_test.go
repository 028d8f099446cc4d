package aitext

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mrcfield/internal/ports"
)

type fakeChat struct {
	content string
	err     error
	calls   int
	last    openai.ChatCompletionNewParams
}

func (f *fakeChat) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.calls++
	f.last = body
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: f.content},
		}},
	}, nil
}

func floatPtr(v float64) *float64 { return &v }

func TestTemplateAreaComments(t *testing.T) {
	got, err := NewTemplateGenerator().AreaComments(context.Background(), ports.AreaTextInput{
		AreaName:        "Bathroom",
		MouldVisibility: []string{"Ceiling", "Walls"},
		Temperature:     floatPtr(22.5),
		Humidity:        floatPtr(65),
		DewPoint:        floatPtr(15.6),
	})
	if err != nil {
		t.Fatalf("AreaComments() error = %v", err)
	}
	for _, want := range []string{"Bathroom", "Ceiling, Walls", "22.5°C", "65.0%", "15.6°C"} {
		if !strings.Contains(got, want) {
			t.Fatalf("AreaComments() = %q, missing %q", got, want)
		}
	}
}

func TestTemplateHandlesUnknownReadings(t *testing.T) {
	got, err := NewTemplateGenerator().CauseOfMould(context.Background(), ports.InspectionTextInput{})
	if err != nil {
		t.Fatalf("CauseOfMould() error = %v", err)
	}
	if !strings.Contains(got, "unknown°C") || !strings.Contains(got, "0 areas") {
		t.Fatalf("CauseOfMould() = %q", got)
	}
}

func TestTemplateDemolitionListsMaterials(t *testing.T) {
	got, err := NewTemplateGenerator().DemolitionDescription(context.Background(), ports.AreaTextInput{
		AreaName:        "Laundry",
		MouldVisibility: []string{"Skirting"},
		DemolitionTime:  45,
	})
	if err != nil {
		t.Fatalf("DemolitionDescription() error = %v", err)
	}
	if !strings.HasPrefix(got, "Demolition Work Order - Laundry") || !strings.Contains(got, "affected skirting") || !strings.Contains(got, "45 minutes") {
		t.Fatalf("DemolitionDescription() = %q", got)
	}
}

func TestTemplateSubfloorComments(t *testing.T) {
	got, err := NewTemplateGenerator().SubfloorComments(context.Background(), ports.InspectionTextInput{
		Landscape:     "Sloping",
		Sanitation:    true,
		ReadingValues: []float64{12, 31.5, 18},
	})
	if err != nil {
		t.Fatalf("SubfloorComments() error = %v", err)
	}
	for _, want := range []string{"Standard observations noted", "sloping", "31.5%", "Sanitation treatment"} {
		if !strings.Contains(got, want) {
			t.Fatalf("SubfloorComments() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "Racking") {
		t.Fatalf("SubfloorComments() mentions racking: %q", got)
	}
}

func TestTemplateRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTemplateGenerator().AreaComments(ctx, ports.AreaTextInput{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("AreaComments() error = %v, want context.Canceled", err)
	}
}

func TestOpenAIGeneratorUsesCompletion(t *testing.T) {
	chat := &fakeChat{content: "  Model text.  "}
	gen := &OpenAIGenerator{chat: chat, model: "gpt-test", fallback: NewTemplateGenerator()}

	got, err := gen.CauseOfMould(context.Background(), ports.InspectionTextInput{
		Areas:        []ports.AreaTextInput{{AreaName: "Kitchen", MouldVisibility: []string{"Ceiling"}}},
		Observations: "Pooling water",
	})
	if err != nil {
		t.Fatalf("CauseOfMould() error = %v", err)
	}
	if got != "Model text." {
		t.Fatalf("CauseOfMould() = %q", got)
	}
	if chat.calls != 1 || string(chat.last.Model) != "gpt-test" || len(chat.last.Messages) != 2 {
		t.Fatalf("unexpected request: calls=%d model=%s", chat.calls, chat.last.Model)
	}
}

func TestOpenAIGeneratorFallsBackOnError(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}
	gen := &OpenAIGenerator{chat: chat, model: DefaultModel, fallback: NewTemplateGenerator()}

	got, err := gen.SubfloorComments(context.Background(), ports.InspectionTextInput{Observations: "Damp soil"})
	if err != nil {
		t.Fatalf("SubfloorComments() error = %v", err)
	}
	if !strings.HasPrefix(got, "Subfloor inspection findings: Damp soil.") {
		t.Fatalf("SubfloorComments() = %q", got)
	}
}

func TestOpenAIGeneratorFallsBackOnEmptyText(t *testing.T) {
	gen := &OpenAIGenerator{chat: &fakeChat{content: "   "}, model: DefaultModel, fallback: NewTemplateGenerator()}

	got, err := gen.DemolitionDescription(context.Background(), ports.AreaTextInput{AreaName: "Garage"})
	if err != nil {
		t.Fatalf("DemolitionDescription() error = %v", err)
	}
	if !strings.Contains(got, "Assess and remove affected materials") {
		t.Fatalf("DemolitionDescription() = %q", got)
	}
}

func TestNewSelectsGenerator(t *testing.T) {
	gen, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := gen.(TemplateGenerator); !ok {
		t.Fatalf("New() without key = %T", gen)
	}

	gen, err = New(context.Background(), Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	oa, ok := gen.(*OpenAIGenerator)
	if !ok || oa.model != DefaultModel {
		t.Fatalf("New() with key = %#v", gen)
	}
}
