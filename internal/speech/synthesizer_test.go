package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeBackend struct {
	err   error
	size  int
	calls int
}

func (f *fakeBackend) Synthesize(_ context.Context, _ string, _ VoiceOptions, path string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, make([]byte, f.size), 0644)
}

func TestSynthesizeUsesFirstWorkingTier(t *testing.T) {
	cloud := &fakeBackend{size: 4096}
	local := &fakeBackend{size: 4096}
	s := NewSynthesizer(Options{Cloud: cloud, LocalNeural: local})

	path := filepath.Join(t.TempDir(), "out.wav")
	result := s.Synthesize(context.Background(), "Hello world.", VoiceOptions{}, path)

	if result.Tier != TierCloud {
		t.Errorf("tier = %v, want cloud", result.Tier)
	}
	if local.calls != 0 {
		t.Errorf("local backend called %d times, want 0", local.calls)
	}
	if result.Tier.Degraded() {
		t.Error("cloud tier reported as degraded")
	}
}

func TestSynthesizeFallsThroughTiers(t *testing.T) {
	cloud := &fakeBackend{err: errors.New("quota exceeded")}
	local := &fakeBackend{size: 100} // under minAudioBytes, counts as failure
	cli := &fakeBackend{size: 4096}
	s := NewSynthesizer(Options{Cloud: cloud, LocalNeural: local, CommandLine: cli})

	path := filepath.Join(t.TempDir(), "out.wav")
	result := s.Synthesize(context.Background(), "Hello world.", VoiceOptions{}, path)

	if result.Tier != TierCommandLine {
		t.Errorf("tier = %v, want command-line", result.Tier)
	}
	if cloud.calls != 1 || local.calls != 1 || cli.calls != 1 {
		t.Errorf("calls = %d/%d/%d, want one each", cloud.calls, local.calls, cli.calls)
	}
}

func TestSynthesizeAllTiersFailProducesSilence(t *testing.T) {
	failing := &fakeBackend{err: errors.New("down")}
	s := NewSynthesizer(Options{Cloud: failing, Hosted: failing})

	path := filepath.Join(t.TempDir(), "out.wav")
	result := s.Synthesize(context.Background(), "Some narration text.", VoiceOptions{}, path)

	if result.Tier != TierSilence {
		t.Fatalf("tier = %v, want silence", result.Tier)
	}
	info, err := os.Stat(result.Path)
	if err != nil {
		t.Fatalf("silence artifact missing: %v", err)
	}
	if info.Size() <= wavHeaderSize {
		t.Errorf("silence artifact is %d bytes, want audible length", info.Size())
	}
}

func TestSynthesizeChunkedReportsWorstTier(t *testing.T) {
	// Cloud succeeds on the first call only, so later chunks degrade; the
	// combined result must carry the worst tier that fired.
	cloud := &flakyBackend{successes: 1, size: 4096}
	local := &fakeBackend{size: 4096}
	s := NewSynthesizer(Options{Cloud: cloud, LocalNeural: local})
	s.SetFFmpegPath("/nonexistent/ffmpeg") // concat will fail, first chunk promoted

	long := strings.Repeat("Gravity pulls every object toward every other object. ", 60)
	path := filepath.Join(t.TempDir(), "out.wav")
	result := s.Synthesize(context.Background(), long, VoiceOptions{}, path)

	if result.Tier != TierLocalNeural {
		t.Errorf("tier = %v, want local-neural (worst across chunks)", result.Tier)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("no artifact at %s: %v", result.Path, err)
	}
}

func TestSynthesizeChunkedCleansIntermediates(t *testing.T) {
	cloud := &fakeBackend{size: 4096}
	s := NewSynthesizer(Options{Cloud: cloud})
	s.SetFFmpegPath("/nonexistent/ffmpeg")

	dir := t.TempDir()
	long := strings.Repeat("A sentence that pads the narration out considerably. ", 60)
	path := filepath.Join(dir, "out.wav")
	result := s.Synthesize(context.Background(), long, VoiceOptions{}, path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("left %d files %v, want only the final artifact", len(entries), names)
	}
	if filepath.Dir(result.Path) != dir {
		t.Errorf("result path %q outside working dir", result.Path)
	}
}

func TestSynthesizeWithTiming(t *testing.T) {
	s := NewSynthesizer(Options{Cloud: &fakeBackend{size: 4096}})

	text := strings.Repeat("word ", 300) // 300 words at 150 wpm = 120s
	path := filepath.Join(t.TempDir(), "out.wav")
	result := s.SynthesizeWithTiming(context.Background(), text, VoiceOptions{}, path)

	if result.WordCount != 300 {
		t.Errorf("word count = %d, want 300", result.WordCount)
	}
	if result.EstimatedDuration != 120 {
		t.Errorf("estimated duration = %v, want 120", result.EstimatedDuration)
	}
}

// flakyBackend succeeds for the first n calls, then fails.
type flakyBackend struct {
	successes int
	size      int
	calls     int
}

func (f *flakyBackend) Synthesize(_ context.Context, _ string, _ VoiceOptions, path string) error {
	f.calls++
	if f.calls > f.successes {
		return errors.New("flaked")
	}
	return os.WriteFile(path, make([]byte, f.size), 0644)
}
