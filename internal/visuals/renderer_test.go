package visuals

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"educast/internal/content"
)

func sampleSections() []content.Section {
	return []content.Section{
		{
			Title:             "🌍 What Is Gravity?",
			Subheading:        "**Why do things fall down?**",
			Content:           "Gravity is the force that pulls objects toward each other. On Earth it pulls everything toward the planet's center, which is why dropped objects fall.",
			KeyPoints:         []string{"Gravity pulls objects together", "Mass determines the strength", "It acts over any distance", "Earth's gravity gives us weight"},
			VisualDescription: "Visual: An apple falling from a tree toward the ground",
		},
		{
			Title:      "🌍 Gravity in Space",
			Subheading: "**Does gravity exist in orbit?**",
			Content:    "Astronauts float not because gravity is absent but because they are in continuous free fall around the planet.",
			KeyPoints:  []string{"Orbit is free fall", "Gravity extends into space", "The Moon is held by Earth's pull"},
		},
	}
}

func TestRenderSlidesWritesOnePNGPerSection(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	dir := t.TempDir()
	paths, err := renderer.RenderSlides(sampleSections(), StyleGradient, dir)
	if err != nil {
		t.Fatalf("RenderSlides() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("RenderSlides() returned %d paths, want 2", len(paths))
	}

	for i, path := range paths {
		want := filepath.Join(dir, fmt.Sprintf("slide_%d.png", i+1))
		if path != want {
			t.Errorf("slide %d path = %q, want %q", i, path, want)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("slide %d missing: %v", i, err)
		}
		img, err := png.Decode(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("slide %d is not a valid PNG: %v", i, err)
		}
		bounds := img.Bounds()
		if bounds.Dx() != slideWidth || bounds.Dy() != slideHeight {
			t.Errorf("slide %d size = %dx%d, want %dx%d", i, bounds.Dx(), bounds.Dy(), slideWidth, slideHeight)
		}
	}
}

func TestRenderSlidesEmptySections(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	paths, err := renderer.RenderSlides(nil, StyleGradient, t.TempDir())
	if err != nil {
		t.Fatalf("RenderSlides() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("RenderSlides() returned %d paths, want 0", len(paths))
	}
}

func TestRenderSlidesPlainStyle(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	paths, err := renderer.RenderSlides(sampleSections()[:1], StylePlain, t.TempDir())
	if err != nil {
		t.Fatalf("RenderSlides() error = %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("RenderSlides() returned %d paths, want 1", len(paths))
	}
}

func TestValidStyle(t *testing.T) {
	for _, ok := range []string{"", "gradient", "plain"} {
		if !ValidStyle(ok) {
			t.Errorf("ValidStyle(%q) = false", ok)
		}
	}
	if ValidStyle("neon") {
		t.Error("ValidStyle(neon) = true")
	}
}

func TestCaptionText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"prefix stripped once", "Visual: A falling apple", "Visual: A falling apple"},
		{"bare description", "A falling apple", "Visual: A falling apple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := captionText(tt.input); got != tt.want {
				t.Errorf("captionText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
