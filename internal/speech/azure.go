package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"educast/pkg/httputil"
)

const (
	azureEndpointFormat = "https://%s.tts.speech.microsoft.com/cognitiveservices/v1"
	azureOutputFormat   = "riff-24khz-16bit-mono-pcm"
	azureDefaultVoice   = "en-US-AriaNeural"

	// cloudTimeout bounds one synthesis call wall-clock; expiry advances the
	// fallback chain.
	cloudTimeout = 60 * time.Second
)

// AzureClient talks to the Azure Cognitive Services TTS REST endpoint.
type AzureClient struct {
	key        string
	httpClient *httputil.RetryClient
	endpoint   string
	voice      string
}

type AzureOptions struct {
	Key    string
	Region string
	Voice  string
}

func NewAzureClient(opts AzureOptions) *AzureClient {
	voice := opts.Voice
	if voice == "" {
		voice = azureDefaultVoice
	}
	return &AzureClient{
		key: opts.Key,
		httpClient: httputil.NewRetryClient(
			&http.Client{Timeout: cloudTimeout},
			httputil.DefaultRetryConfig(),
		),
		endpoint: fmt.Sprintf(azureEndpointFormat, opts.Region),
		voice:    voice,
	}
}

// SetEndpoint overrides the endpoint, for tests.
func (c *AzureClient) SetEndpoint(url string) {
	c.endpoint = url
}

// Synthesize writes one chunk of narration to path. The request body is the
// markup-annotated SSML, never the raw text.
func (c *AzureClient) Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) error {
	ctx, cancel := context.WithTimeout(ctx, cloudTimeout)
	defer cancel()

	voice := opts.Voice
	if voice == "" {
		voice = c.voice
	}
	ssml := BuildSSML(text, voice, opts.Rate)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(ssml))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(ssml)), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("azure tts error: %s: %s", resp.Status, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("empty response from azure tts")
	}

	if err := os.WriteFile(path, audio, 0644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}
