package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"educast/internal/content"
	"educast/internal/speech"
	"educast/internal/video"
	"educast/internal/visuals"
)

// Stage interfaces keep the coordinator testable: each names only the one
// call the pipeline makes against that dependency.
type (
	ContentStage interface {
		Generate(ctx context.Context, req content.Request) (*content.Bundle, error)
	}
	VisualStage interface {
		RenderSlides(sections []content.Section, style visuals.Style, outputDir string) ([]string, error)
	}
	SpeechStage interface {
		Synthesize(ctx context.Context, text string, opts speech.VoiceOptions, path string) speech.Result
	}
	VideoStage interface {
		Assemble(ctx context.Context, req video.Request) video.Result
	}
	Workspace interface {
		JobDir(jobID string) (string, error)
		SlideDir(jobID string) string
		AudioPath(jobID string) string
		VideoPath(jobID string) string
		WriteExplanation(jobID, text string) (string, error)
	}
	Archiver interface {
		ArchiveJob(ctx context.Context, jobID string, localPaths []string) ([]string, error)
	}
)

// Limits caps concurrent use of each external dependency across all jobs.
type Limits struct {
	Text   int64
	Speech int64
	FFmpeg int64
}

func DefaultLimits() Limits {
	return Limits{Text: 4, Speech: 2, FFmpeg: 2}
}

func (l Limits) normalized() Limits {
	if l.Text <= 0 {
		l.Text = 1
	}
	if l.Speech <= 0 {
		l.Speech = 1
	}
	if l.FFmpeg <= 0 {
		l.FFmpeg = 1
	}
	return l
}

const (
	maxTopicLength     = 200
	maxDurationMinutes = 30
)

// Request describes one submission. DurationMinutes of zero means no
// preference; AnimationStyle of "" means the default slide style.
type Request struct {
	Topic           string
	Difficulty      content.Difficulty
	Audience        content.Audience
	ContentType     content.ContentType
	SpeedPriority   bool
	Voice           speech.VoiceOptions
	AnimationStyle  string
	DurationMinutes int
}

func (r Request) validate() error {
	if r.Topic == "" {
		return fmt.Errorf("empty topic")
	}
	if len(r.Topic) > maxTopicLength {
		return fmt.Errorf("topic exceeds %d characters", maxTopicLength)
	}
	if r.DurationMinutes < 0 || r.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("duration preference must be 1-%d minutes", maxDurationMinutes)
	}
	if !visuals.ValidStyle(r.AnimationStyle) {
		return fmt.Errorf("unknown animation style %q", r.AnimationStyle)
	}
	return nil
}

// Coordinator owns the job registry and drives each job through the
// pipeline in a background goroutine. Outbound work is gated by
// per-dependency semaphores so a burst of submissions queues instead of
// overwhelming the backends.
type Coordinator struct {
	content   ContentStage
	visuals   VisualStage
	speech    SpeechStage
	video     VideoStage
	workspace Workspace
	archive   Archiver

	textSem   *semaphore.Weighted
	speechSem *semaphore.Weighted
	ffmpegSem *semaphore.Weighted

	mu   sync.RWMutex
	jobs map[string]*Snapshot
}

func NewCoordinator(contentStage ContentStage, visuals VisualStage, speechStage SpeechStage, videoStage VideoStage, workspace Workspace, limits Limits) *Coordinator {
	limits = limits.normalized()
	return &Coordinator{
		content:   contentStage,
		visuals:   visuals,
		speech:    speechStage,
		video:     videoStage,
		workspace: workspace,
		textSem:   semaphore.NewWeighted(limits.Text),
		speechSem: semaphore.NewWeighted(limits.Speech),
		ffmpegSem: semaphore.NewWeighted(limits.FFmpeg),
		jobs:      make(map[string]*Snapshot),
	}
}

// SetArchiver enables best-effort artifact archival after completion.
func (c *Coordinator) SetArchiver(a Archiver) {
	c.archive = a
}

// Submit registers the job and returns its id immediately; the pipeline
// runs in the background.
func (c *Coordinator) Submit(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now()
	c.mu.Lock()
	c.jobs[id] = &Snapshot{
		ID:        id,
		Topic:     req.Topic,
		State:     StateCreated,
		Message:   "Job accepted",
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.mu.Unlock()

	go c.run(ctx, id, req)
	return id, nil
}

// Status returns a copy of the job's current position.
func (c *Coordinator) Status(jobID string) (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	job, ok := c.jobs[jobID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	snap := *job
	if job.Result != nil {
		result := *job.Result
		result.SlidePaths = append([]string(nil), job.Result.SlidePaths...)
		result.Reasons = append([]string(nil), job.Result.Reasons...)
		snap.Result = &result
	}
	return snap, nil
}

// List returns snapshots of every known job, in no particular order.
func (c *Coordinator) List() []Snapshot {
	c.mu.RLock()
	ids := make([]string, 0, len(c.jobs))
	for id := range c.jobs {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		if snap, err := c.Status(id); err == nil {
			out = append(out, snap)
		}
	}
	return out
}

func (c *Coordinator) run(ctx context.Context, id string, req Request) {
	log := slog.With("job", id, "topic", req.Topic)

	if _, err := c.workspace.JobDir(id); err != nil {
		c.fail(id, fmt.Errorf("workspace: %w", err))
		return
	}

	// Text generation: the only stage whose error fails the job outright.
	c.advance(id, StateGeneratingText, 10, "Generating explanation")
	bundle, err := c.generateText(ctx, req)
	if err != nil {
		log.Error("Text generation failed", "error", err)
		c.fail(id, err)
		return
	}
	explanationPath, err := c.workspace.WriteExplanation(id, bundle.FullNarration)
	if err != nil {
		log.Warn("Could not persist explanation", "error", err)
	}

	// Slides: a render failure degrades the video, it does not fail the job.
	c.advance(id, StateRenderingVisuals, 30, "Rendering slides")
	slidePaths, slideErr := c.visuals.RenderSlides(bundle.Sections, visuals.Style(req.AnimationStyle), c.workspace.SlideDir(id))
	if slideErr != nil {
		log.Warn("Slide rendering failed", "error", slideErr)
	}

	c.advance(id, StateGeneratingAudio, 50, "Synthesizing narration")
	audioResult, err := c.synthesize(ctx, bundle.FullNarration, req.Voice, c.workspace.AudioPath(id))
	if err != nil {
		c.fail(id, err)
		return
	}

	c.advance(id, StateAssemblingVideo, 80, "Assembling video")
	videoResult, err := c.assemble(ctx, video.Request{
		AudioPath:     audioResult.Path,
		SlidePaths:    slidePaths,
		OutputPath:    c.workspace.VideoPath(id),
		Topic:         req.Topic,
		SectionTitles: sectionTitles(bundle.Sections),
		Narration:     bundle.FullNarration,
	})
	if err != nil {
		c.fail(id, err)
		return
	}

	result := buildResult(audioResult, videoResult, explanationPath, slidePaths, slideErr)
	c.complete(id, result)
	log.Info("Job completed", "outcome", result.Outcome.String(), "video", result.VideoPath)

	if c.archive != nil {
		c.archiveArtifacts(ctx, id, result, log)
	}
}

func (c *Coordinator) generateText(ctx context.Context, req Request) (*content.Bundle, error) {
	if err := c.textSem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("text gate: %w", err)
	}
	defer c.textSem.Release(1)

	return c.content.Generate(ctx, content.Request{
		Topic:         req.Topic,
		Difficulty:    req.Difficulty,
		Audience:      req.Audience,
		ContentType:   req.ContentType,
		SpeedPriority: req.SpeedPriority,
		TargetMinutes: req.DurationMinutes,
	})
}

func (c *Coordinator) synthesize(ctx context.Context, text string, voice speech.VoiceOptions, path string) (speech.Result, error) {
	if err := c.speechSem.Acquire(ctx, 1); err != nil {
		return speech.Result{}, fmt.Errorf("speech gate: %w", err)
	}
	defer c.speechSem.Release(1)

	return c.speech.Synthesize(ctx, text, voice, path), nil
}

func (c *Coordinator) assemble(ctx context.Context, req video.Request) (video.Result, error) {
	if err := c.ffmpegSem.Acquire(ctx, 1); err != nil {
		return video.Result{}, fmt.Errorf("ffmpeg gate: %w", err)
	}
	defer c.ffmpegSem.Release(1)

	return c.video.Assemble(ctx, req), nil
}

func (c *Coordinator) archiveArtifacts(ctx context.Context, id string, result *Result, log *slog.Logger) {
	paths := append([]string{}, result.SlidePaths...)
	for _, p := range []string{result.ExplanationPath, result.AudioPath, result.VideoPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if _, err := c.archive.ArchiveJob(ctx, id, paths); err != nil {
		log.Warn("Artifact archival failed", "error", err)
	}
}

// buildResult folds the speech tier and the video outcome into one tagged
// result. Degradation reasons accumulate rather than overwrite.
func buildResult(audio speech.Result, vid video.Result, explanationPath string, slidePaths []string, slideErr error) *Result {
	result := &Result{
		Outcome:         OutcomeSuccess,
		VideoPath:       vid.Path,
		AudioPath:       audio.Path,
		ExplanationPath: explanationPath,
		SlidePaths:      slidePaths,
		SpeechTier:      audio.Tier.String(),
		VideoKind:       vid.Outcome.String(),
	}

	if audio.Tier.Degraded() {
		result.Reasons = append(result.Reasons, fmt.Sprintf("speech fell back to %s tier", audio.Tier))
	}
	if slideErr != nil {
		result.Reasons = append(result.Reasons, fmt.Sprintf("slide rendering: %v", slideErr))
	}
	if vid.Outcome != video.OutcomeVideo {
		result.Reasons = append(result.Reasons, fmt.Sprintf("video assembly produced %s: %s", vid.Outcome, vid.Reason))
	}
	if len(result.Reasons) > 0 {
		result.Outcome = OutcomeDegradedSuccess
	}
	return result
}

func (c *Coordinator) advance(id string, state State, progress int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok || job.State.Terminal() {
		return
	}
	job.State = state
	job.Progress = progress
	job.Message = message
	job.UpdatedAt = time.Now()
}

func (c *Coordinator) complete(id string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok || job.State.Terminal() {
		return
	}
	job.State = StateCompleted
	job.Progress = 100
	job.Message = "Completed"
	job.Result = result
	job.UpdatedAt = time.Now()
}

func (c *Coordinator) fail(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok || job.State.Terminal() {
		return
	}
	job.State = StateFailed
	job.Message = "Failed"
	job.Err = err.Error()
	job.Result = &Result{Outcome: OutcomeFailed, Reasons: []string{err.Error()}}
	job.UpdatedAt = time.Now()
}

func sectionTitles(sections []content.Section) []string {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	return titles
}
