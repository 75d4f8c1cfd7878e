package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"educast/internal/llm"
	"educast/pkg/prompts"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateStructured(_ context.Context, _, _, _ string) (string, error) {
	return f.response, f.err
}

func newTestGenerator(t *testing.T, client llm.Client) *Generator {
	t.Helper()
	p, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load() error = %v", err)
	}
	selector := NewSelector([]Backend{BackendGroqLlama, BackendGroqMixtral})
	return NewGenerator(selector, llm.Registry{"groq": client}, p)
}

func gravityRequest() Request {
	return Request{
		Topic:       "Gravity",
		Difficulty:  DifficultyBeginner,
		Audience:    AudienceStudents,
		ContentType: TypeEducational,
	}
}

func TestGenerateParsesBackendResponse(t *testing.T) {
	response := "```json\n" + `{
		"summary": "Gravity explained simply.",
		"sections": [
			{
				"title": "🌍 What Is Gravity?",
				"subheading": "**Why do things fall?**",
				"content": "Gravity pulls objects toward each other. On Earth it pulls things down. That is why dropped objects fall.",
				"key_points": ["• Pulls objects together", "• Depends on mass", "• Acts at a distance"],
				"visual_description": "Visual: An apple falling from a tree",
				"duration_estimate": 40,
			}
		],
		"full_explanation": "Gravity is the force that pulls objects toward each other.",
		"estimated_duration": 40
	}` + "\n```"

	g := newTestGenerator(t, &fakeClient{response: response})
	bundle, err := g.Generate(context.Background(), gravityRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(bundle.Sections) != 1 {
		t.Fatalf("Generate() returned %d sections, want 1", len(bundle.Sections))
	}
	if bundle.Sections[0].Title != "🌍 What Is Gravity?" {
		t.Errorf("section title = %q", bundle.Sections[0].Title)
	}
	if bundle.Topic != "Gravity" {
		t.Errorf("topic = %q, want Gravity", bundle.Topic)
	}
}

func TestGenerateFallsBackOnBackendError(t *testing.T) {
	g := newTestGenerator(t, &fakeClient{err: errors.New("backend down")})

	bundle, err := g.Generate(context.Background(), gravityRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v, want fallback bundle", err)
	}

	if !strings.Contains(bundle.Sections[0].Title, "Gravity") {
		t.Errorf("fallback title = %q, want topic in title", bundle.Sections[0].Title)
	}
	if !strings.Contains(bundle.FullNarration, "Gravity") {
		t.Error("fallback narration does not mention the topic")
	}
	if len(bundle.Sections) == 0 {
		t.Fatal("fallback bundle has no sections")
	}
	for i, s := range bundle.Sections {
		if len(s.KeyPoints) < 3 || len(s.KeyPoints) > 4 {
			t.Errorf("section %d has %d key points, want 3-4", i, len(s.KeyPoints))
		}
		if s.Content == "" || s.Title == "" || s.Subheading == "" {
			t.Errorf("section %d has empty fields", i)
		}
	}
}

func TestGenerateFallsBackOnMalformedResponse(t *testing.T) {
	g := newTestGenerator(t, &fakeClient{response: "this is not json at all"})

	bundle, err := g.Generate(context.Background(), gravityRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v, want fallback bundle", err)
	}
	if !strings.Contains(bundle.Sections[0].Title, "Gravity") {
		t.Errorf("fallback title = %q", bundle.Sections[0].Title)
	}
}

func TestGeneratePropagatesNoBackend(t *testing.T) {
	p, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load() error = %v", err)
	}
	g := NewGenerator(NewSelector(nil), llm.Registry{}, p)

	_, err = g.Generate(context.Background(), gravityRequest())
	if !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("Generate() error = %v, want ErrNoBackendAvailable", err)
	}
}

func TestGenerateNormalizesSparseResponse(t *testing.T) {
	// Six+ sections with missing fields: the bundle is clamped and repaired,
	// never rejected.
	response := `{"sections": [
		{"title": "One"}, {"title": ""}, {"title": "Three"},
		{"title": "Four"}, {"title": "Five"}, {"title": "Six"}, {"title": "Seven"}
	]}`

	g := newTestGenerator(t, &fakeClient{response: response})
	bundle, err := g.Generate(context.Background(), gravityRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(bundle.Sections) != 6 {
		t.Fatalf("sections = %d, want clamp to 6", len(bundle.Sections))
	}
	for i, s := range bundle.Sections {
		if s.Title == "" || s.Content == "" || s.VisualDescription == "" {
			t.Errorf("section %d not repaired: %+v", i, s)
		}
		if len(s.KeyPoints) < 3 {
			t.Errorf("section %d has %d key points", i, len(s.KeyPoints))
		}
		if s.DurationEstimate <= 0 {
			t.Errorf("section %d duration = %d", i, s.DurationEstimate)
		}
	}
	if bundle.FullNarration == "" {
		t.Error("narration not synthesized from sections")
	}
	if bundle.EstimatedDuration <= 0 {
		t.Error("estimated duration not summed")
	}
}

func TestFallbackBundleClassification(t *testing.T) {
	tests := []struct {
		topic string
		want  topicClass
	}{
		{"Machine Learning", classTechnology},
		{"Gravity", classScience},
		{"The Roman Empire", classHistory},
		{"Cooking Pasta", classGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := classifyTopic(tt.topic); got != tt.want {
				t.Errorf("classifyTopic(%q) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}
