package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAzureClientSynthesize(t *testing.T) {
	var gotBody string
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotHeaders = r.Header.Clone()
		_, _ = w.Write([]byte("RIFF-fake-audio-data"))
	}))
	defer server.Close()

	client := NewAzureClient(AzureOptions{Key: "test-key", Region: "westeurope"})
	client.SetEndpoint(server.URL)

	path := filepath.Join(t.TempDir(), "out.wav")
	err := client.Synthesize(context.Background(), "Hello there.", VoiceOptions{Voice: "en-US-JennyNeural"}, path)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if gotHeaders.Get("Ocp-Apim-Subscription-Key") != "test-key" {
		t.Error("subscription key header not set")
	}
	if gotHeaders.Get("Content-Type") != "application/ssml+xml" {
		t.Errorf("content type = %q", gotHeaders.Get("Content-Type"))
	}
	if !strings.Contains(gotBody, `<voice name="en-US-JennyNeural">`) {
		t.Errorf("request body not SSML with requested voice: %q", gotBody)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != "RIFF-fake-audio-data" {
		t.Errorf("artifact = %q", data)
	}
}

func TestAzureClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewAzureClient(AzureOptions{Key: "wrong", Region: "westeurope"})
	client.SetEndpoint(server.URL)

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := client.Synthesize(context.Background(), "Hi.", VoiceOptions{}, path); err == nil {
		t.Error("Synthesize() succeeded on 401")
	}
}

func TestLocalClientPrefersFemaleVoice(t *testing.T) {
	var gotVoice string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/voices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]localVoice{
			{ID: "v1", Name: "Deep Male", Gender: "male"},
			{ID: "v2", Name: "Warm", Gender: "Female"},
		})
	})
	mux.HandleFunc("/api/tts", func(w http.ResponseWriter, r *http.Request) {
		var req localRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotVoice = req.Voice
		_, _ = w.Write(make([]byte, 2048))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL})
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := client.Synthesize(context.Background(), "Hello.", VoiceOptions{}, path); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if gotVoice != "v2" {
		t.Errorf("picked voice %q, want v2 (female)", gotVoice)
	}
}

func TestLocalClientVoiceListUnavailable(t *testing.T) {
	// Voice discovery failing must not block synthesis.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/voices", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/tts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL})
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := client.Synthesize(context.Background(), "Hello.", VoiceOptions{}, path); err != nil {
		t.Errorf("Synthesize() error = %v", err)
	}
}

func TestHostedClientSplitsLongText(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if q := r.URL.Query().Get("q"); len(q) > hostedMaxChars {
			t.Errorf("request %d carries %d chars, over the %d cap", requests, len(q), hostedMaxChars)
		}
		_, _ = w.Write([]byte("mp3-piece"))
	}))
	defer server.Close()

	client := NewHostedClient()
	client.SetBaseURL(server.URL)

	long := strings.Repeat("A modest sentence for the narration. ", 20) // ~740 chars
	path := filepath.Join(t.TempDir(), "out.mp3")
	if err := client.Synthesize(context.Background(), long, VoiceOptions{}, path); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if requests < 2 {
		t.Errorf("made %d requests, want the text split into several", requests)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != int64(requests*len("mp3-piece")) {
		t.Errorf("artifact size %d, want pieces appended (%d)", info.Size(), requests*len("mp3-piece"))
	}
}
