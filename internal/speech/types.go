package speech

import "strings"

const (
	// DefaultWordsPerMinute is the assumed narration rate for every duration
	// estimate; timing is never measured from the actual audio.
	DefaultWordsPerMinute = 150.0

	// Texts longer than chunkThreshold are split before synthesis; each chunk
	// stays under chunkBudget characters.
	chunkThreshold = 2000
	chunkBudget    = 1500

	// minAudioBytes separates a real artifact from a header-only or truncated
	// file when deciding whether a tier succeeded.
	minAudioBytes = 1000

	minSilenceSeconds = 5.0
)

// Tier names the synthesis strategy that produced an artifact, in descending
// order of quality.
type Tier int

const (
	TierCloud Tier = iota
	TierLocalNeural
	TierCommandLine
	TierHosted
	TierSilence
)

func (t Tier) String() string {
	switch t {
	case TierCloud:
		return "cloud"
	case TierLocalNeural:
		return "local-neural"
	case TierCommandLine:
		return "command-line"
	case TierHosted:
		return "hosted"
	case TierSilence:
		return "silence"
	}
	return "unknown"
}

// Degraded reports whether the artifact came from anything but the primary
// path.
func (t Tier) Degraded() bool {
	return t != TierCloud
}

// VoiceOptions carries caller preferences; zero value means defaults.
type VoiceOptions struct {
	Voice string
	Rate  float64
	Style string
}

// Result is the outcome of one Synthesize call. Path always points at an
// existing, well-formed audio file.
type Result struct {
	Path string
	Tier Tier
}

// TimedResult adds the word-count duration estimate used for slide timing.
type TimedResult struct {
	Result
	EstimatedDuration float64
	WordCount         int
}

// EstimateDuration returns the assumed narration length in seconds.
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	return float64(words) / DefaultWordsPerMinute * 60.0
}

// Voice describes one entry of the curated cloud voice catalog.
type Voice struct {
	Name        string
	DisplayName string
	Gender      string
	Locale      string
}

var voiceCatalog = []Voice{
	{Name: "en-US-AriaNeural", DisplayName: "Aria (Female, US English)", Gender: "Female", Locale: "en-US"},
	{Name: "en-US-DavisNeural", DisplayName: "Davis (Male, US English)", Gender: "Male", Locale: "en-US"},
	{Name: "en-US-JennyNeural", DisplayName: "Jenny (Female, US English)", Gender: "Female", Locale: "en-US"},
	{Name: "en-US-GuyNeural", DisplayName: "Guy (Male, US English)", Gender: "Male", Locale: "en-US"},
	{Name: "en-US-AmberNeural", DisplayName: "Amber (Female, US English)", Gender: "Female", Locale: "en-US"},
}

func Voices() []Voice {
	return voiceCatalog
}

func ValidVoiceName(name string) bool {
	for _, v := range voiceCatalog {
		if v.Name == name {
			return true
		}
	}
	return false
}
