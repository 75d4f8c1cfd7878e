package app

import (
	"context"
	"fmt"
	"log/slog"

	"educast/internal/content"
	"educast/internal/job"
	"educast/internal/llm"
	"educast/internal/speech"
	"educast/internal/storage"
	"educast/internal/video"
	"educast/internal/visuals"
	"educast/pkg/config"
	"educast/pkg/prompts"
)

// BuildResult bundles the wired coordinator with the resources the caller
// must release.
type BuildResult struct {
	Coordinator *job.Coordinator
	Cleanup     func()
}

// Build wires the full pipeline from configuration: llm clients and the
// selector from the credential set, the speech tier chain from what is
// reachable, and the optional GCS archive.
func Build(ctx context.Context, cfg *config.Config) (*BuildResult, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	registry, backends, err := buildTextBackends(cfg)
	if err != nil {
		return nil, err
	}

	generator := content.NewGenerator(content.NewSelector(backends), registry, p)
	renderer, err := visuals.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("visuals: %w", err)
	}

	synthesizer := buildSynthesizer(cfg)
	assembler := video.NewAssembler()
	assembler.SetToolPaths(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)

	workspace := storage.NewWorkspace(cfg.Output.Dir)
	coordinator := job.NewCoordinator(generator, renderer, synthesizer, assembler, workspace, job.Limits{
		Text:   cfg.Limits.Text,
		Speech: cfg.Limits.Speech,
		FFmpeg: cfg.Limits.FFmpeg,
	})

	cleanup := func() {}
	if cfg.ArchiveEnabled() {
		archive, err := storage.NewArchive(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
		if err != nil {
			slog.Warn("GCS archive unavailable, continuing without it", "error", err)
		} else {
			coordinator.SetArchiver(archive)
			cleanup = func() { _ = archive.Close() }
		}
	}

	return &BuildResult{Coordinator: coordinator, Cleanup: cleanup}, nil
}

func buildTextBackends(cfg *config.Config) (llm.Registry, []content.Backend, error) {
	registry := llm.Registry{}
	var backends []content.Backend

	if cfg.GroqAPIKey != "" {
		client, err := llm.NewGroqClient(cfg.GroqAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("groq client: %w", err)
		}
		registry["groq"] = client
		backends = append(backends,
			content.BackendGroqLlama,
			content.BackendGroqGemma,
			content.BackendGroqMixtral,
		)
	}
	if cfg.OpenAIAPIKey != "" {
		registry["openai"] = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		backends = append(backends,
			content.BackendGPT35,
			content.BackendGPT4,
			content.BackendGPT4Turbo,
		)
	}

	if len(backends) == 0 {
		slog.Warn("No text backend credentials configured; submissions will fail")
	}
	return registry, backends, nil
}

func buildSynthesizer(cfg *config.Config) *speech.Synthesizer {
	opts := speech.Options{
		LocalNeural: speech.NewLocalClient(speech.LocalOptions{ServerURL: cfg.Speech.LocalTTSURL}),
		CommandLine: buildEspeak(cfg),
		Hosted:      speech.NewHostedClient(),
	}
	if cfg.HasAzureSpeech() {
		opts.Cloud = speech.NewAzureClient(speech.AzureOptions{
			Key:    cfg.AzureSpeechKey,
			Region: cfg.AzureRegion,
			Voice:  cfg.Speech.Voice,
		})
	}

	s := speech.NewSynthesizer(opts)
	s.SetFFmpegPath(cfg.Tools.FFmpeg)
	return s
}

func buildEspeak(cfg *config.Config) speech.Backend {
	runner := speech.NewEspeakRunner()
	runner.SetBinPath(cfg.Tools.Espeak)
	return runner
}
