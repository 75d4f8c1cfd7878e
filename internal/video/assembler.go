package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	defaultFFmpegPath = "ffmpeg"

	targetWidth        = 1920
	targetHeight       = 1080
	transitionDuration = 0.5
	durationTolerance  = 0.1
	frameRate          = 15
	videoBitrate       = "2000k"
	audioBitrate       = "128k"
	audioSampleRate    = "44100"
	encodePreset       = "ultrafast"
	encodeCRF          = "28"

	// backgroundColor is the slide-less fill, RGB 30,41,59.
	backgroundColor = "0x1E293B"

	// fallbackDuration caps the degraded single-slide video.
	fallbackDuration = 30.0
)

// Outcome tags what kind of artifact Assemble produced. A placeholder is not
// a video; callers must not treat the three cases as interchangeable.
type Outcome int

const (
	OutcomeVideo Outcome = iota
	OutcomeDegradedVideo
	OutcomePlaceholder
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVideo:
		return "video"
	case OutcomeDegradedVideo:
		return "degraded-video"
	case OutcomePlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// Request describes one assembly. Topic, SectionTitles and Narration are
// only consumed by the placeholder writer.
type Request struct {
	AudioPath     string
	SlidePaths    []string
	OutputPath    string
	Topic         string
	SectionTitles []string
	Narration     string
}

// Result always points at an existing artifact; Outcome and Reason say what
// it is and, when degraded, why.
type Result struct {
	Path    string
	Outcome Outcome
	Reason  string
}

// Assembler combines narration audio and slide images into a final video.
// Assemble never returns an error: it descends primary → degraded →
// placeholder until something exists on disk.
type Assembler struct {
	ffmpegPath  string
	ffprobePath string
}

func NewAssembler() *Assembler {
	return &Assembler{
		ffmpegPath:  defaultFFmpegPath,
		ffprobePath: defaultFFprobePath,
	}
}

// SetToolPaths overrides the binaries, for tests.
func (a *Assembler) SetToolPaths(ffmpeg, ffprobe string) {
	a.ffmpegPath = ffmpeg
	a.ffprobePath = ffprobe
}

func (a *Assembler) Assemble(ctx context.Context, req Request) Result {
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		slog.Error("Cannot create video directory", "error", err)
	}

	primaryErr := a.assemblePrimary(ctx, req)
	if primaryErr == nil {
		return Result{Path: req.OutputPath, Outcome: OutcomeVideo}
	}
	slog.Warn("Primary video assembly failed", "error", primaryErr)

	fallbackErr := a.assembleFallback(ctx, req)
	if fallbackErr == nil {
		return Result{
			Path:    req.OutputPath,
			Outcome: OutcomeDegradedVideo,
			Reason:  primaryErr.Error(),
		}
	}
	slog.Warn("Fallback video assembly failed", "error", fallbackErr)

	placeholderPath := a.writePlaceholder(req, primaryErr, fallbackErr)
	return Result{
		Path:    placeholderPath,
		Outcome: OutcomePlaceholder,
		Reason:  fmt.Sprintf("primary: %v; fallback: %v", primaryErr, fallbackErr),
	}
}

// assemblePrimary builds the full slideshow: every slide scaled to the
// target resolution, shown for an equal share of the audio duration, with
// the narration attached and the video clamped to the audio length.
func (a *Assembler) assemblePrimary(ctx context.Context, req Request) error {
	audioDuration, err := probeDuration(ctx, a.ffprobePath, req.AudioPath)
	if err != nil {
		return fmt.Errorf("probe audio: %w", err)
	}

	slides := existingSlides(req.SlidePaths)
	if len(slides) == 0 {
		return a.encodeColorBackground(ctx, req.AudioPath, audioDuration, req.OutputPath)
	}

	perSlide := (audioDuration - float64(len(slides)-1)*transitionDuration) / float64(len(slides))
	if perSlide <= 0 {
		// Audio shorter than the transition budget; give every slide an equal
		// raw share instead.
		perSlide = audioDuration / float64(len(slides))
	}

	listPath := filepath.Join(filepath.Dir(req.OutputPath), "slides.ffconcat")
	if err := writeSlideList(listPath, slides, perSlide); err != nil {
		return err
	}
	defer func() { _ = os.Remove(listPath) }()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", req.AudioPath,
	}
	args = append(args, a.encodeArgs(audioDuration)...)
	args = append(args,
		"-vf", scaleFilter(),
		req.OutputPath,
	)

	return a.runFFmpeg(ctx, args)
}

// encodeColorBackground substitutes a fixed-color clip sized to the audio.
func (a *Assembler) encodeColorBackground(ctx context.Context, audioPath string, duration float64, outputPath string) error {
	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%.2f", backgroundColor, targetWidth, targetHeight, frameRate, duration),
		"-i", audioPath,
	}
	args = append(args, a.encodeArgs(duration)...)
	args = append(args, outputPath)

	return a.runFFmpeg(ctx, args)
}

// assembleFallback loops the first slide for a capped duration, muxing the
// audio when present.
func (a *Assembler) assembleFallback(ctx context.Context, req Request) error {
	slides := existingSlides(req.SlidePaths)
	if len(slides) == 0 {
		return fmt.Errorf("no slide available for fallback")
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-i", slides[0],
	}
	hasAudio := fileExists(req.AudioPath)
	if hasAudio {
		args = append(args, "-i", req.AudioPath)
	}
	args = append(args,
		"-t", fmt.Sprintf("%.0f", fallbackDuration),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-vf", scaleFilter(),
		"-r", "1",
	)
	if hasAudio {
		args = append(args,
			"-c:a", "aac",
			"-b:a", audioBitrate,
			"-ar", audioSampleRate,
			"-ac", "2",
			"-shortest",
		)
	}
	args = append(args, req.OutputPath)

	return a.runFFmpeg(ctx, args)
}

// writePlaceholder is the last resort: a textual artifact describing what
// the video would have contained and why assembly failed.
func (a *Assembler) writePlaceholder(req Request, primaryErr, fallbackErr error) string {
	path := strings.TrimSuffix(req.OutputPath, filepath.Ext(req.OutputPath)) + ".txt"

	var b strings.Builder
	b.WriteString("Automated video assembly failed.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if len(req.SectionTitles) > 0 {
		b.WriteString("Sections:\n")
		for _, title := range req.SectionTitles {
			fmt.Fprintf(&b, "  - %s\n", title)
		}
	}
	if req.Narration != "" {
		excerpt := req.Narration
		if len(excerpt) > 500 {
			excerpt = excerpt[:500] + "..."
		}
		fmt.Fprintf(&b, "\nNarration excerpt:\n%s\n", excerpt)
	}
	fmt.Fprintf(&b, "\nPrimary assembly error: %v\n", primaryErr)
	fmt.Fprintf(&b, "Fallback assembly error: %v\n", fallbackErr)
	fmt.Fprintf(&b, "Audio file: %s\n", req.AudioPath)
	fmt.Fprintf(&b, "Slide files: %s\n", strings.Join(req.SlidePaths, ", "))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		slog.Error("Failed to write placeholder artifact", "error", err)
	}
	return path
}

func (a *Assembler) encodeArgs(audioDuration float64) []string {
	return []string{
		// Clamping to the audio duration keeps the tracks within tolerance
		// even when slide durations round differently.
		"-t", fmt.Sprintf("%.2f", audioDuration+durationTolerance),
		"-c:v", "libx264",
		"-preset", encodePreset,
		"-crf", encodeCRF,
		"-b:v", videoBitrate,
		"-r", fmt.Sprintf("%d", frameRate),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-ar", audioSampleRate,
		"-ac", "2",
		"-shortest",
	}
}

func (a *Assembler) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, a.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, output: %s", err, truncate(string(output), 400))
	}
	return nil
}

func scaleFilter() string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		targetWidth, targetHeight, targetWidth, targetHeight)
}

// writeSlideList emits an ffconcat list with per-slide durations. The last
// entry is repeated without a duration, as the demuxer requires.
func writeSlideList(path string, slides []string, perSlide float64) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, slide := range slides {
		abs, err := filepath.Abs(slide)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		fmt.Fprintf(&b, "file '%s'\nduration %.3f\n", abs, perSlide)
	}
	abs, err := filepath.Abs(slides[len(slides)-1])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	fmt.Fprintf(&b, "file '%s'\n", abs)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write slide list: %w", err)
	}
	return nil
}

func existingSlides(paths []string) []string {
	var existing []string
	for _, p := range paths {
		if fileExists(p) {
			existing = append(existing, p)
		}
	}
	return existing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
