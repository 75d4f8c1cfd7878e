package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"educast/pkg/httputil"
)

const (
	defaultHostedURL = "https://translate.google.com/translate_tts"
	hostedTimeout    = 30 * time.Second

	// The free endpoint rejects long inputs; chunking upstream keeps requests
	// under this anyway.
	hostedMaxChars = 200
)

// HostedClient uses a free-tier hosted synthesis endpoint. Quality and
// reliability are poor; it sits just above the silence tier.
type HostedClient struct {
	baseURL    string
	httpClient *httputil.RetryClient
}

func NewHostedClient() *HostedClient {
	return &HostedClient{
		baseURL: defaultHostedURL,
		httpClient: httputil.NewRetryClient(
			&http.Client{Timeout: hostedTimeout},
			httputil.DefaultRetryConfig(),
		),
	}
}

// SetBaseURL overrides the endpoint, for tests.
func (c *HostedClient) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *HostedClient) Synthesize(ctx context.Context, text string, opts VoiceOptions, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer func() { _ = out.Close() }()

	// The endpoint caps request length, so long chunks go over in pieces
	// appended to one file.
	for _, piece := range splitByBudget(text, hostedMaxChars) {
		if err := c.fetchPiece(ctx, piece, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *HostedClient) fetchPiece(ctx context.Context, text string, out io.Writer) error {
	query := url.Values{
		"ie":     {"UTF-8"},
		"client": {"tw-ob"},
		"tl":     {"en"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hosted tts unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hosted tts error: %s", resp.Status)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to stream audio: %w", err)
	}
	return nil
}

func splitByBudget(text string, budget int) []string {
	if len(text) <= budget {
		return []string{text}
	}

	sentences := splitSentences(text)
	var pieces []string
	current := ""
	for _, s := range sentences {
		if current != "" && len(current)+len(s)+1 > budget {
			pieces = append(pieces, current)
			current = ""
		}
		if current != "" {
			current += " "
		}
		current += s
	}
	if current != "" {
		pieces = append(pieces, current)
	}
	return pieces
}
