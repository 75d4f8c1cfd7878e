package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"educast/internal/app"
	"educast/internal/content"
	"educast/internal/job"
	"educast/internal/speech"
	"educast/pkg/config"
)

var (
	genTopic      string
	genDifficulty string
	genAudience   string
	genType       string
	genVoice      string
	genStyle      string
	genMinutes    int
	genFast       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single educational video",
	Long:  `Generate one video for a topic and wait for the pipeline to finish.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTopic, "topic", "t", "", "Topic to explain")
	generateCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", string(content.DifficultyIntermediate), "Difficulty: beginner, intermediate, advanced")
	generateCmd.Flags().StringVarP(&genAudience, "audience", "a", string(content.AudienceAdults), "Audience: children, students, adults, professionals")
	generateCmd.Flags().StringVar(&genType, "type", string(content.TypeEducational), "Content type: technical, creative, educational, analytical")
	generateCmd.Flags().StringVar(&genVoice, "voice", "", "Narration voice name (see 'educast voices')")
	generateCmd.Flags().StringVar(&genStyle, "style", "", "Slide style: gradient, plain")
	generateCmd.Flags().IntVar(&genMinutes, "minutes", 0, "Target narration length in minutes, 1-30 (0 = no preference)")
	generateCmd.Flags().BoolVar(&genFast, "fast", false, "Prefer the fastest text backend")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genTopic == "" {
		return errors.New("please provide --topic")
	}

	req, err := buildRequest()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.Load()

	built, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer built.Cleanup()

	id, err := built.Coordinator.Submit(ctx, req)
	if err != nil {
		return err
	}
	slog.Info("Job submitted", "job", id, "topic", genTopic)

	snap, err := waitForJob(built.Coordinator, id)
	if err != nil {
		return err
	}

	if snap.State == job.StateFailed {
		return fmt.Errorf("generation failed: %s", snap.Err)
	}

	slog.Info("Generation finished",
		"outcome", snap.Result.Outcome.String(),
		"video", snap.Result.VideoPath,
		"explanation", snap.Result.ExplanationPath,
	)
	for _, reason := range snap.Result.Reasons {
		slog.Warn("Degraded", "reason", reason)
	}
	return nil
}

func buildRequest() (job.Request, error) {
	difficulty := content.Difficulty(strings.ToLower(genDifficulty))
	if !difficulty.Valid() {
		return job.Request{}, fmt.Errorf("unknown difficulty %q", genDifficulty)
	}
	audience := content.Audience(strings.ToLower(genAudience))
	if !audience.Valid() {
		return job.Request{}, fmt.Errorf("unknown audience %q", genAudience)
	}
	contentType := content.ContentType(strings.ToLower(genType))
	if !contentType.Valid() {
		return job.Request{}, fmt.Errorf("unknown content type %q", genType)
	}
	if genVoice != "" && !speech.ValidVoiceName(genVoice) {
		return job.Request{}, fmt.Errorf("unknown voice %q", genVoice)
	}

	return job.Request{
		Topic:           genTopic,
		Difficulty:      difficulty,
		Audience:        audience,
		ContentType:     contentType,
		SpeedPriority:   genFast,
		Voice:           speech.VoiceOptions{Voice: genVoice},
		AnimationStyle:  strings.ToLower(genStyle),
		DurationMinutes: genMinutes,
	}, nil
}

func waitForJob(c *job.Coordinator, id string) (job.Snapshot, error) {
	lastProgress := -1
	for {
		snap, err := c.Status(id)
		if err != nil {
			return job.Snapshot{}, err
		}
		if snap.Progress != lastProgress {
			slog.Info("Progress", "state", snap.State.String(), "percent", snap.Progress, "message", snap.Message)
			lastProgress = snap.Progress
		}
		if snap.State.Terminal() {
			return snap, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}
