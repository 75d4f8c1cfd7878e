package visuals

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"educast/internal/content"
)

const (
	slideWidth  = 1920
	slideHeight = 1080

	maxBulletPoints = 4
	maxCaptionChars = 100
)

// Style selects the slide background treatment.
type Style string

const (
	StyleGradient Style = "gradient"
	StylePlain    Style = "plain"
)

func ValidStyle(s string) bool {
	switch Style(s) {
	case "", StyleGradient, StylePlain:
		return true
	}
	return false
}

// Renderer draws one slide image per explanation section. Slides carry the
// section title, subheading, body text, bullet points and the visual cue,
// laid out on a vertical gradient so the video has something to show even
// when no richer imagery exists.
type Renderer struct {
	faces *faceSet
}

func NewRenderer() (*Renderer, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &Renderer{faces: faces}, nil
}

// RenderSlides writes slide_<n>.png for each section into outputDir and
// returns the paths of the slides that rendered. A section whose slide fails
// is skipped with a warning; downstream assembly tolerates gaps.
func (r *Renderer) RenderSlides(sections []content.Section, style Style, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slide directory: %w", err)
	}

	paths := make([]string, 0, len(sections))
	for i, section := range sections {
		path := filepath.Join(outputDir, fmt.Sprintf("slide_%d.png", i+1))
		if err := r.renderSlide(section, style, i+1, len(sections), path); err != nil {
			slog.Warn("Slide render failed", "section", i+1, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 && len(sections) > 0 {
		return nil, fmt.Errorf("no slides rendered for %d sections", len(sections))
	}
	return paths, nil
}

func (r *Renderer) renderSlide(section content.Section, style Style, number, total int, path string) error {
	dc := gg.NewContext(slideWidth, slideHeight)
	drawBackground(dc, style)

	// Title, centered near the top with a drop shadow.
	dc.SetFontFace(r.faces.title)
	drawShadowedCentered(dc, section.Title, slideWidth/2, 130)

	if section.Subheading != "" {
		dc.SetFontFace(r.faces.subtitle)
		dc.SetRGB255(250, 204, 21)
		sub := strings.Trim(section.Subheading, "*")
		dc.DrawStringAnchored(sub, slideWidth/2, 210, 0.5, 0.5)
		w, _ := dc.MeasureString(sub)
		dc.SetLineWidth(3)
		dc.DrawLine(slideWidth/2-w/2, 235, slideWidth/2+w/2, 235)
		dc.Stroke()
	}

	// Content box: white panel with the body text wrapped inside.
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawRoundedRectangle(150, 280, 1620, 360, 12)
	dc.Fill()
	dc.SetFontFace(r.faces.body)
	dc.SetRGB255(15, 23, 42)
	dc.DrawStringWrapped(section.Content, 180, 310, 0, 0, 1560, 1.4, gg.AlignLeft)

	// Key points in the lower half.
	dc.SetFontFace(r.faces.bullet)
	dc.SetRGB255(250, 204, 21)
	y := 700.0
	for i, point := range section.KeyPoints {
		if i >= maxBulletPoints {
			break
		}
		dc.DrawString("• "+strings.TrimLeft(point, "• *"), 150, y)
		y += 55
	}

	if caption := captionText(section.VisualDescription); caption != "" {
		dc.SetFontFace(r.faces.caption)
		dc.SetRGB255(147, 197, 253)
		dc.DrawString(caption, 150, 990)
	}

	dc.SetFontFace(r.faces.caption)
	dc.SetRGB255(226, 232, 240)
	dc.DrawStringAnchored(fmt.Sprintf("Slide %d of %d", number, total), 1770, 1020, 1, 0.5)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save slide: %w", err)
	}
	return nil
}

func drawBackground(dc *gg.Context, style Style) {
	if style == StylePlain {
		dc.SetRGB255(30, 41, 59)
		dc.Clear()
		return
	}
	drawGradient(dc)
}

// drawGradient fills the canvas with a vertical dark-to-light blue ramp.
func drawGradient(dc *gg.Context) {
	for y := 0; y < slideHeight; y++ {
		t := float64(y) / slideHeight
		r := 25 + int(75*t)
		g := 50 + int(100*t)
		b := 100 + int(100*t)
		dc.SetRGB255(r, g, b)
		dc.DrawLine(0, float64(y), slideWidth, float64(y))
		dc.Stroke()
	}
}

func drawShadowedCentered(dc *gg.Context, text string, x, y float64) {
	dc.SetRGB255(0, 0, 0)
	dc.DrawStringAnchored(text, x+2, y+2, 0.5, 0.5)
	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func captionText(visual string) string {
	visual = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(visual), "Visual:"))
	if visual == "" {
		return ""
	}
	if len(visual) > maxCaptionChars {
		visual = visual[:maxCaptionChars] + "..."
	}
	return "Visual: " + visual
}
