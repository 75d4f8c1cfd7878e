package speech

import (
	"context"
	"fmt"
	"os/exec"
)

const (
	defaultEspeakPath = "espeak"

	// Fixed synthesis parameters; voice selection is not exposed at this tier.
	espeakRate  = "160"
	espeakVoice = "en+f3"
	espeakGap   = "10"
	espeakPitch = "50"
)

// EspeakRunner invokes the system speech synthesizer as a subprocess.
type EspeakRunner struct {
	binPath string
}

func NewEspeakRunner() *EspeakRunner {
	return &EspeakRunner{binPath: defaultEspeakPath}
}

// SetBinPath overrides the binary, for tests.
func (r *EspeakRunner) SetBinPath(path string) {
	r.binPath = path
}

func (r *EspeakRunner) Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) error {
	args := []string{
		"-s", espeakRate,
		"-v", espeakVoice,
		"-g", espeakGap,
		"-p", espeakPitch,
		"-w", path,
		text,
	}

	cmd := exec.CommandContext(ctx, r.binPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak failed: %w, output: %s", err, string(output))
	}
	return nil
}
