package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Backend is one synthesis strategy: it writes a playable audio file to path
// or reports why it could not.
type Backend interface {
	Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) error
}

type strategy struct {
	tier    Tier
	backend Backend
}

// Synthesizer converts narration text into an audio artifact. Synthesize
// never fails: the tier chain ends in synthetic silence, so some well-formed
// artifact always exists.
type Synthesizer struct {
	strategies []strategy
	ffmpegPath string
}

// Options lists the configured backends; nil entries are skipped, shortening
// the chain. The silence tier is always present.
type Options struct {
	Cloud       Backend
	LocalNeural Backend
	CommandLine Backend
	Hosted      Backend
}

func NewSynthesizer(opts Options) *Synthesizer {
	s := &Synthesizer{ffmpegPath: defaultFFmpegPath}
	add := func(tier Tier, b Backend) {
		if b != nil {
			s.strategies = append(s.strategies, strategy{tier: tier, backend: b})
		}
	}
	add(TierCloud, opts.Cloud)
	add(TierLocalNeural, opts.LocalNeural)
	add(TierCommandLine, opts.CommandLine)
	add(TierHosted, opts.Hosted)
	return s
}

// SetFFmpegPath overrides the concat binary, for tests.
func (s *Synthesizer) SetFFmpegPath(path string) {
	s.ffmpegPath = path
}

// Synthesize produces the narration artifact at path. Long text is chunked
// on sentence boundaries, each chunk synthesized independently, and the
// chunk files concatenated in order; intermediates are removed. If
// concatenation tooling fails, the first synthesized chunk is promoted to
// the final artifact instead of failing the call.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) Result {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.Error("Cannot create audio directory", "error", err)
	}

	chunks := ChunkText(text)
	if len(chunks) == 1 {
		return s.synthesizeOne(ctx, text, opts, path)
	}

	slog.Info("Chunking narration for synthesis", "chars", len(text), "chunks", len(chunks))

	chunkPaths := make([]string, 0, len(chunks))
	worst := TierCloud
	for i, chunk := range chunks {
		chunkPath := chunkFileName(path, i)
		result := s.synthesizeOne(ctx, chunk, opts, chunkPath)
		if result.Tier > worst {
			worst = result.Tier
		}
		chunkPaths = append(chunkPaths, result.Path)
	}

	if err := concatenate(ctx, s.ffmpegPath, chunkPaths, path); err != nil {
		slog.Warn("Audio concatenation failed, keeping first chunk", "error", err)
		removeAll(chunkPaths[1:])
		if renameErr := os.Rename(chunkPaths[0], path); renameErr != nil {
			// Rename across filesystems can fail; the chunk file itself is
			// still a valid artifact.
			path = chunkPaths[0]
		}
		return Result{Path: path, Tier: worst}
	}

	removeAll(chunkPaths)
	return Result{Path: path, Tier: worst}
}

// SynthesizeWithTiming wraps Synthesize with the word-count duration
// estimate used for slide timing downstream.
func (s *Synthesizer) SynthesizeWithTiming(ctx context.Context, text string, opts VoiceOptions, path string) TimedResult {
	result := s.Synthesize(ctx, text, opts, path)
	return TimedResult{
		Result:            result,
		EstimatedDuration: EstimateDuration(text),
		WordCount:         wordCount(text),
	}
}

// synthesizeOne walks the tier chain for one chunk. Each strategy is tried
// exactly once; a tier counts as success only when its artifact is
// non-trivially sized.
func (s *Synthesizer) synthesizeOne(ctx context.Context, text string, opts VoiceOptions, path string) Result {
	for _, st := range s.strategies {
		err := st.backend.Synthesize(ctx, text, opts, path)
		if err == nil && fileSize(path) >= minAudioBytes {
			if st.tier.Degraded() {
				slog.Warn("Speech synthesis degraded", "tier", st.tier.String())
			}
			return Result{Path: path, Tier: st.tier}
		}
		if err == nil {
			err = fmt.Errorf("artifact below %d bytes", minAudioBytes)
		}
		slog.Warn("Synthesis tier failed", "tier", st.tier.String(), "error", err)
	}

	if err := WriteSilentWAV(text, path); err != nil {
		slog.Error("Silent audio fallback failed", "error", err)
	}
	return Result{Path: path, Tier: TierSilence}
}

func chunkFileName(path string, index int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_chunk_%d%s", path[:len(path)-len(ext)], index, ext)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
