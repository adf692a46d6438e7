package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"audio-insight-be/pkg/alm"
	"audio-insight-be/pkg/transport"
)

// Provider talks to the model runner sidecar over HTTP. The runner fronts
// the actual audio-language model: a long-lived process that loads the
// transcription and diarization weights once and exposes them as endpoints.
type Provider struct {
	BaseURL string
	Client  *http.Client

	// Chat availability is read from the runner's health endpoint and
	// cached briefly so the flag does not cost a round trip per request.
	mu            sync.Mutex
	chatAvailable bool
	chatCheckedAt time.Time
}

var _ alm.Provider = &Provider{}

const healthCacheTTL = 30 * time.Second

func NewProvider(baseURL string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 10 * time.Minute // audio processing is slow on long files
	}
	return &Provider{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type chatRequest struct {
	Question string          `json:"question"`
	Results  transport.Value `json:"results"`
}

type healthResponse struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	ChatAvailable bool   `json:"chat_available"`
}

// --- Interface implementation ---

func (p *Provider) ProcessAudio(ctx context.Context, path string, opts ...alm.Option) (json.RawMessage, error) {
	options := &alm.Options{
		MinSpeakers: 1,
		MaxSpeakers: 10,
	}
	for _, opt := range opts {
		opt(options)
	}

	body, contentType, err := buildProcessRequest(path, options)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/process", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runner request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runner error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

func (p *Provider) Chat(ctx context.Context, question string, results transport.Value) (*alm.ChatResult, error) {
	payload, err := json.Marshal(chatRequest{Question: question, Results: results})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/chat", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runner request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runner error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result alm.ChatResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}

func (p *Provider) ChatAvailable(ctx context.Context) bool {
	p.mu.Lock()
	if time.Since(p.chatCheckedAt) < healthCacheTTL {
		available := p.chatAvailable
		p.mu.Unlock()
		return available
	}
	p.mu.Unlock()

	available := p.probeChat(ctx)

	p.mu.Lock()
	p.chatAvailable = available
	p.chatCheckedAt = time.Now()
	p.mu.Unlock()

	return available
}

func (p *Provider) probeChat(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.ChatAvailable
}

func buildProcessRequest(path string, options *alm.Options) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fileWriter, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fileWriter, file); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}

	fields := map[string]string{
		"min_speakers":          strconv.Itoa(options.MinSpeakers),
		"max_speakers":          strconv.Itoa(options.MaxSpeakers),
		"save_preprocessed_wav": strconv.FormatBool(options.SavePreprocessed),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
