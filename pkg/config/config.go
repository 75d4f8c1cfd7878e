package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath  = "config.yaml"
	defaultOutputDir   = "./output"
	defaultLocalTTSURL = "http://localhost:8020"
	defaultEspeakBin   = "espeak"
	defaultFFmpegBin   = "ffmpeg"
	defaultFFprobeBin  = "ffprobe"
	defaultAzureVoice  = "en-US-AriaNeural"
	defaultGCSPrefix   = "jobs"

	defaultTextLimit   = 4
	defaultSpeechLimit = 2
	defaultFFmpegLimit = 2
)

type Config struct {
	GroqAPIKey     string
	OpenAIAPIKey   string
	AzureSpeechKey string
	AzureRegion    string
	GCSBucket      string

	Output Output `yaml:"output"`
	Speech Speech `yaml:"speech"`
	Tools  Tools  `yaml:"tools"`
	Limits Limits `yaml:"limits"`
	GCS    GCS    `yaml:"gcs"`
}

type Output struct {
	Dir string `yaml:"dir"`
}

type Speech struct {
	Voice       string `yaml:"voice"`
	LocalTTSURL string `yaml:"local_tts_url"`
}

type Tools struct {
	Espeak  string `yaml:"espeak"`
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

type Limits struct {
	Text   int64 `yaml:"text"`
	Speech int64 `yaml:"speech"`
	FFmpeg int64 `yaml:"ffmpeg"`
}

type GCS struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		AzureSpeechKey: os.Getenv("AZURE_SPEECH_KEY"),
		AzureRegion:    os.Getenv("AZURE_SPEECH_REGION"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	return cfg
}

// HasTextBackend reports whether any text generation credential is set. The
// generator still produces fallback content when calls fail, but with zero
// credentials there is nothing to even attempt.
func (c *Config) HasTextBackend() bool {
	return c.GroqAPIKey != "" || c.OpenAIAPIKey != ""
}

func (c *Config) HasAzureSpeech() bool {
	return c.AzureSpeechKey != "" && c.AzureRegion != ""
}

func (c *Config) ArchiveEnabled() bool {
	return c.GCS.Enabled && c.GCSBucket != ""
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = defaultAzureVoice
	}
	if cfg.Speech.LocalTTSURL == "" {
		cfg.Speech.LocalTTSURL = defaultLocalTTSURL
	}
	if cfg.Tools.Espeak == "" {
		cfg.Tools.Espeak = defaultEspeakBin
	}
	if cfg.Tools.FFmpeg == "" {
		cfg.Tools.FFmpeg = defaultFFmpegBin
	}
	if cfg.Tools.FFprobe == "" {
		cfg.Tools.FFprobe = defaultFFprobeBin
	}
	if cfg.Limits.Text == 0 {
		cfg.Limits.Text = defaultTextLimit
	}
	if cfg.Limits.Speech == 0 {
		cfg.Limits.Speech = defaultSpeechLimit
	}
	if cfg.Limits.FFmpeg == 0 {
		cfg.Limits.FFmpeg = defaultFFmpegLimit
	}
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}
