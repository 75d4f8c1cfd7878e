package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace lays out per-job artifact directories under a single root:
//
//	<root>/<jobID>/explanation.txt
//	<root>/<jobID>/narration.wav
//	<root>/<jobID>/slides/slide_<n>.png
//	<root>/<jobID>/video.mp4
type Workspace struct {
	root string
}

func NewWorkspace(root string) *Workspace {
	return &Workspace{root: root}
}

func (w *Workspace) Root() string {
	return w.root
}

// JobDir creates and returns the directory for one job's artifacts.
func (w *Workspace) JobDir(jobID string) (string, error) {
	dir := filepath.Join(w.root, jobID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job directory: %w", err)
	}
	return dir, nil
}

func (w *Workspace) SlideDir(jobID string) string {
	return filepath.Join(w.root, jobID, "slides")
}

func (w *Workspace) AudioPath(jobID string) string {
	return filepath.Join(w.root, jobID, "narration.wav")
}

func (w *Workspace) VideoPath(jobID string) string {
	return filepath.Join(w.root, jobID, "video.mp4")
}

func (w *Workspace) ExplanationPath(jobID string) string {
	return filepath.Join(w.root, jobID, "explanation.txt")
}

// WriteExplanation persists the narration text next to the media artifacts
// so a failed or degraded run still leaves the content readable.
func (w *Workspace) WriteExplanation(jobID, text string) (string, error) {
	if _, err := w.JobDir(jobID); err != nil {
		return "", err
	}
	path := w.ExplanationPath(jobID)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write explanation: %w", err)
	}
	return path, nil
}

// ListArtifacts returns the regular files currently present for a job,
// including slides.
func (w *Workspace) ListArtifacts(jobID string) ([]string, error) {
	dir := filepath.Join(w.root, jobID)
	var artifacts []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			artifacts = append(artifacts, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// RemoveJob deletes everything the job produced.
func (w *Workspace) RemoveJob(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("empty job id")
	}
	return os.RemoveAll(filepath.Join(w.root, jobID))
}
