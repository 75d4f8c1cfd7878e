package job

import (
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

// State is the coordinator's lifecycle position. Transitions are strictly
// forward; the only lateral move is any state to Failed.
type State int

const (
	StateCreated State = iota
	StateGeneratingText
	StateRenderingVisuals
	StateGeneratingAudio
	StateAssemblingVideo
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateGeneratingText:
		return "generating_text"
	case StateRenderingVisuals:
		return "rendering_visuals"
	case StateGeneratingAudio:
		return "generating_audio"
	case StateAssemblingVideo:
		return "assembling_video"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Outcome distinguishes a clean completion from one that leaned on fallback
// tiers somewhere in the pipeline.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeDegradedSuccess
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDegradedSuccess:
		return "degraded_success"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result is attached to a job once it reaches a terminal state. For degraded
// completions, Reasons names each fallback that fired.
type Result struct {
	Outcome         Outcome
	VideoPath       string
	AudioPath       string
	ExplanationPath string
	SlidePaths      []string
	SpeechTier      string
	VideoKind       string
	Reasons         []string
}

// Snapshot is the caller-visible copy of a job's current position. Mutating
// a snapshot has no effect on the job.
type Snapshot struct {
	ID        string
	Topic     string
	State     State
	Progress  int
	Message   string
	Result    *Result
	Err       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
