package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultLocalServerURL = "http://localhost:8020"
	localTimeout          = 120 * time.Second
)

// LocalClient drives a locally hosted neural TTS server over HTTP. It is the
// first fallback tier when the cloud backend is unreachable.
type LocalClient struct {
	serverURL  string
	httpClient *http.Client
}

type LocalOptions struct {
	ServerURL string
}

type localVoice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type localRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func NewLocalClient(opts LocalOptions) *LocalClient {
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = defaultLocalServerURL
	}
	return &LocalClient{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: localTimeout,
		},
	}
}

func (c *LocalClient) Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) error {
	voice, err := c.pickVoice(ctx)
	if err != nil {
		voice = ""
	}

	data, err := json.Marshal(localRequest{Text: text, Voice: voice})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/tts", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("local tts unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("local tts error: %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("empty response from local tts")
	}

	if err := os.WriteFile(path, audio, 0644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}

// pickVoice prefers a female-labeled voice when the server exposes one.
func (c *LocalClient) pickVoice(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/voices", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("voices error: %s", resp.Status)
	}

	var voices []localVoice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return "", err
	}
	if len(voices) == 0 {
		return "", fmt.Errorf("no voices")
	}

	for _, v := range voices {
		if strings.EqualFold(v.Gender, "female") || strings.Contains(strings.ToLower(v.Name), "female") {
			return v.ID, nil
		}
	}
	return voices[0].ID, nil
}
