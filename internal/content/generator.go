package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"educast/internal/llm"
	"educast/pkg/prompts"
)

// Generator produces a Bundle for a topic. It never fails on malformed or
// absent backend output; the only error it returns is ErrNoBackendAvailable
// from selection.
type Generator struct {
	selector *Selector
	clients  llm.Registry
	prompts  *prompts.Prompts
}

func NewGenerator(selector *Selector, clients llm.Registry, p *prompts.Prompts) *Generator {
	return &Generator{
		selector: selector,
		clients:  clients,
		prompts:  p,
	}
}

func (g *Generator) Generate(ctx context.Context, req Request) (*Bundle, error) {
	backend, err := g.selector.Select(req.ContentType, req.SpeedPriority, req.Difficulty)
	if err != nil {
		return nil, err
	}

	raw, err := g.call(ctx, backend, req)
	if err != nil {
		slog.Warn("Content generation failed, using fallback",
			"provider", backend.Provider, "model", backend.Model, "error", err)
		return fallbackBundle(req), nil
	}

	bundle, err := parseBundle(raw)
	if err != nil {
		slog.Warn("Malformed generation response, using fallback",
			"provider", backend.Provider, "error", err)
		return fallbackBundle(req), nil
	}

	normalizeBundle(bundle, req)
	return bundle, nil
}

func (g *Generator) call(ctx context.Context, backend Backend, req Request) (string, error) {
	client, ok := g.clients.For(backend.Provider)
	if !ok {
		return "", fmt.Errorf("no client for provider %q", backend.Provider)
	}

	prompt, err := g.prompts.RenderContent(prompts.ContentParams{
		Topic:      req.Topic,
		Difficulty: string(req.Difficulty),
		Audience:   string(req.Audience),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	if req.TargetMinutes > 0 {
		prompt += fmt.Sprintf("\nAim for roughly %d minutes of total narration.", req.TargetMinutes)
	}

	return client.GenerateStructured(ctx, backend.Model, g.prompts.System.Content, prompt)
}

func parseBundle(raw string) (*Bundle, error) {
	repaired := RepairJSON(raw)

	var bundle Bundle
	if err := json.Unmarshal([]byte(repaired), &bundle); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(bundle.Sections) == 0 {
		return nil, fmt.Errorf("response has no sections")
	}
	return &bundle, nil
}

// normalizeBundle makes every invariant hold on backend output: 1-6 sections,
// 3-4 key points each, no empty field. A section is repaired in place rather
// than dropped so slide order is preserved.
func normalizeBundle(b *Bundle, req Request) {
	if len(b.Sections) > maxSections {
		b.Sections = b.Sections[:maxSections]
	}

	for i := range b.Sections {
		s := &b.Sections[i]
		if strings.TrimSpace(s.Title) == "" {
			s.Title = fmt.Sprintf("🌍 %s, Part %d", req.Topic, i+1)
		}
		if strings.TrimSpace(s.Subheading) == "" {
			s.Subheading = fmt.Sprintf("**What about %s?**", req.Topic)
		}
		if strings.TrimSpace(s.Content) == "" {
			s.Content = fmt.Sprintf("This slide covers an important aspect of %s. "+
				"It builds on what came before. Together the slides give a complete picture.", req.Topic)
		}
		s.KeyPoints = normalizeKeyPoints(s.KeyPoints, req.Topic)
		if strings.TrimSpace(s.VisualDescription) == "" {
			s.VisualDescription = fmt.Sprintf("Visual: Simple diagram illustrating %s", req.Topic)
		}
		if s.DurationEstimate <= 0 {
			s.DurationEstimate = defaultDuration
		}
	}

	if strings.TrimSpace(b.Summary) == "" {
		b.Summary = fmt.Sprintf("An explanation of %s for %s.", req.Topic, req.Audience)
	}
	if len(b.KeyConcepts) == 0 {
		for _, s := range b.Sections {
			b.KeyConcepts = append(b.KeyConcepts, strings.TrimSpace(strings.Trim(s.Subheading, "*")))
		}
	}
	if strings.TrimSpace(b.FullNarration) == "" {
		var parts []string
		for _, s := range b.Sections {
			parts = append(parts, s.Content)
		}
		b.FullNarration = strings.Join(parts, " ")
	}
	if b.EstimatedDuration <= 0 {
		for _, s := range b.Sections {
			b.EstimatedDuration += s.DurationEstimate
		}
	}
	if b.Topic == "" {
		b.Topic = req.Topic
	}
}

func normalizeKeyPoints(points []string, topic string) []string {
	var kept []string
	for _, p := range points {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	defaults := []string{
		fmt.Sprintf("• %s matters in daily life", topic),
		"• Built on a few key principles",
		"• Used in many real applications",
		"• Worth understanding in depth",
	}
	for len(kept) < minKeyPoints {
		kept = append(kept, defaults[len(kept)%len(defaults)])
	}
	if len(kept) > maxKeyPoints {
		kept = kept[:maxKeyPoints]
	}
	return kept
}
