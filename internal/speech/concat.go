package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const defaultFFmpegPath = "ffmpeg"

// concatenate joins chunk audio files losslessly in order into outputPath
// using the ffmpeg concat demuxer. Chunk files may differ in container
// (cloud WAV vs hosted MP3), so the output is re-encoded to one PCM stream.
func concatenate(ctx context.Context, ffmpegPath string, chunkPaths []string, outputPath string) error {
	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	listContent := ""
	for _, p := range chunkPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		listContent += fmt.Sprintf("file '%s'\n", absPath)
	}
	if err := os.WriteFile(listPath, []byte(listContent), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer func() { _ = os.Remove(listPath) }()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-acodec", "pcm_s16le",
		"-ar", "22050",
		"-ac", "1",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w, output: %s", err, string(output))
	}
	return nil
}
