package content

import "errors"

// ErrNoBackendAvailable is returned when no generation backend is configured.
// It is the only selection error and it is never swallowed downstream.
var ErrNoBackendAvailable = errors.New("no generation backend available")

// Backend identifies one configured provider/model combination. The set of
// backends is built once at startup from present credentials and never
// changes for the process lifetime.
type Backend struct {
	Provider string
	Model    string
	Speed    Tier
	Quality  Tier
}

// Tier ranks backends within one dimension; higher is better.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// Known backend descriptors. Adding a provider model means adding one entry
// here and a matching client in internal/llm.
var (
	BackendGroqLlama   = Backend{Provider: "groq", Model: "llama-3.1-8b-instant", Speed: TierHigh, Quality: TierLow}
	BackendGroqGemma   = Backend{Provider: "groq", Model: "gemma2-9b-it", Speed: TierHigh, Quality: TierLow}
	BackendGroqMixtral = Backend{Provider: "groq", Model: "mixtral-8x7b-32768", Speed: TierMedium, Quality: TierMedium}
	BackendGPT35       = Backend{Provider: "openai", Model: "gpt-3.5-turbo", Speed: TierMedium, Quality: TierMedium}
	BackendGPT4        = Backend{Provider: "openai", Model: "gpt-4", Speed: TierLow, Quality: TierHigh}
	BackendGPT4Turbo   = Backend{Provider: "openai", Model: "gpt-4-turbo-preview", Speed: TierLow, Quality: TierHigh}
)

// speedLadder is consulted when the caller wants the fastest usable backend.
var speedLadder = []Backend{
	BackendGroqLlama,
	BackendGroqGemma,
	BackendGroqMixtral,
	BackendGPT35,
	BackendGPT4,
}

// qualityLadders rank backends per content type when quality wins over speed.
var qualityLadders = map[ContentType][]Backend{
	TypeTechnical:   {BackendGPT4Turbo, BackendGPT4, BackendGroqMixtral},
	TypeCreative:    {BackendGPT4Turbo, BackendGPT4, BackendGroqMixtral},
	TypeEducational: {BackendGroqMixtral, BackendGPT4, BackendGroqGemma},
	TypeAnalytical:  {BackendGPT4, BackendGroqMixtral, BackendGPT35},
}

// finalLadder is the catch-all when no per-type ladder entry is configured.
var finalLadder = []Backend{
	BackendGPT4Turbo,
	BackendGPT4,
	BackendGroqMixtral,
	BackendGroqLlama,
}

// Selector picks one backend from the configured set. It holds no state
// beyond the immutable set, so Select is a pure function of its arguments.
type Selector struct {
	configured []Backend
}

func NewSelector(configured []Backend) *Selector {
	return &Selector{configured: configured}
}

func (s *Selector) Configured() []Backend {
	return s.configured
}

// Select returns the backend for the given policy. Identical inputs always
// yield the identical choice; there is no randomness or time-based tie-break.
func (s *Selector) Select(contentType ContentType, speedPriority bool, difficulty Difficulty) (Backend, error) {
	if len(s.configured) == 0 {
		return Backend{}, ErrNoBackendAvailable
	}

	if speedPriority {
		if b, ok := s.firstConfigured(speedLadder); ok {
			return b, nil
		}
		return s.configured[0], nil
	}

	ladder := qualityLadders[contentType]
	if contentType == TypeTechnical && difficulty == DifficultyAdvanced {
		ladder = append([]Backend{BackendGPT4Turbo}, ladder...)
	}
	if b, ok := s.firstConfigured(ladder); ok {
		return b, nil
	}
	if b, ok := s.firstConfigured(finalLadder); ok {
		return b, nil
	}
	return s.configured[0], nil
}

func (s *Selector) firstConfigured(ladder []Backend) (Backend, bool) {
	for _, candidate := range ladder {
		for _, b := range s.configured {
			if b.Provider == candidate.Provider && b.Model == candidate.Model {
				return b, true
			}
		}
	}
	return Backend{}, false
}
