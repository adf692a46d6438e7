package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"audio-insight-be/internal/bootstrap"
	"audio-insight-be/internal/config"
	"audio-insight-be/internal/controller"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/internal/repository/memory"
	"audio-insight-be/internal/server"
	"audio-insight-be/internal/service"
	"audio-insight-be/pkg/alm"
	"audio-insight-be/pkg/transport"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
)

// stubALM answers in place of the model runner sidecar.
type stubALM struct {
	processOut    json.RawMessage
	chatAnswer    string
	chatAvailable bool
}

func (s *stubALM) ProcessAudio(ctx context.Context, path string, opts ...alm.Option) (json.RawMessage, error) {
	return s.processOut, nil
}

func (s *stubALM) Chat(ctx context.Context, question string, results transport.Value) (*alm.ChatResult, error) {
	return &alm.ChatResult{Question: question, Answer: s.chatAnswer, ModelUsed: "stub"}, nil
}

func (s *stubALM) ChatAvailable(ctx context.Context) bool {
	return s.chatAvailable
}

func newTestApp(t *testing.T, provider alm.Provider) *server.Server {
	t.Helper()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(filepath.Join(t.TempDir(), "app.log"), false)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	sessionRepo := memory.NewSessionRepository()

	publisherService := service.NewPublisherService(cfg.Events.SessionTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.SessionTopic, sysLogger)

	audioService := service.NewAudioService(provider, sessionRepo, publisherService, sysLogger)
	chatService := service.NewChatService(provider, sessionRepo, sysLogger)

	container := &bootstrap.Container{
		HealthController: controller.NewHealthController(provider, sessionRepo, consumerService),
		AudioController:  controller.NewAudioController(audioService),
		ChatController:   controller.NewChatController(chatService),
		ConsumerService:  consumerService,
		Logger:           sysLogger,
	}

	return server.New(cfg, container)
}

func multipartUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestAudioSessionLifecycle(t *testing.T) {
	provider := &stubALM{
		processOut:    json.RawMessage(`{"transcript":[{"speaker":"SPEAKER_00","text":"hello"}],"num_speakers":1,"language":"en"}`),
		chatAnswer:    "one speaker said hello",
		chatAvailable: true,
	}
	srv := newTestApp(t, provider)
	app := srv.GetApp()

	// 1. Upload audio
	body, contentType := multipartUpload(t, "file", "meeting.wav", "audio/wav", []byte("RIFFfakewav"))
	req := httptest.NewRequest("POST", "/process-audio", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "Success process audio", env.Message)

	var processData struct {
		SessionId string          `json:"session_id"`
		Filename  string          `json:"filename"`
		Results   json.RawMessage `json:"results"`
		Cached    bool            `json:"cached"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &processData))
	assert.NotEmpty(t, processData.SessionId)
	assert.Equal(t, "meeting.wav", processData.Filename)
	assert.False(t, processData.Cached)

	// Model output keys come back in the order the model emitted them.
	results := string(processData.Results)
	assert.Less(t, strings.Index(results, "transcript"), strings.Index(results, "num_speakers"))
	assert.Less(t, strings.Index(results, "num_speakers"), strings.Index(results, "language"))

	// 2. Ask a follow-up against the session
	chatBody, _ := json.Marshal(map[string]string{
		"session_id": processData.SessionId,
		"question":   "how many speakers?",
	})
	req = httptest.NewRequest("POST", "/chat", bytes.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env = decodeEnvelope(t, resp)
	var chatData struct {
		Question  string `json:"question"`
		Answer    string `json:"answer"`
		ModelUsed string `json:"model_used"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &chatData))
	assert.Equal(t, "how many speakers?", chatData.Question)
	assert.Equal(t, "one speaker said hello", chatData.Answer)

	// 3. Delete the session
	req = httptest.NewRequest("DELETE", "/session/"+processData.SessionId, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env = decodeEnvelope(t, resp)
	var deleteData struct {
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &deleteData))
	assert.Contains(t, deleteData.Message, processData.SessionId)

	// 4. A second delete reports not found
	req = httptest.NewRequest("DELETE", "/session/"+processData.SessionId, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env = decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, processData.SessionId)

	// 5. Chat against the deleted session reports not found too
	req = httptest.NewRequest("POST", "/chat", bytes.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProcessAudioValidation(t *testing.T) {
	srv := newTestApp(t, &stubALM{processOut: json.RawMessage(`{}`)})
	app := srv.GetApp()

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/process-audio", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-audio content type", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "notes.txt", "text/plain", []byte("hello"))
		req := httptest.NewRequest("POST", "/process-audio", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Contains(t, env.Message, "audio")
	})

	t.Run("empty file", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "empty.wav", "audio/wav", nil)
		req := httptest.NewRequest("POST", "/process-audio", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Contains(t, env.Message, "empty")
	})
}

func TestChatValidation(t *testing.T) {
	srv := newTestApp(t, &stubALM{chatAvailable: true})
	app := srv.GetApp()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/chat", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing question", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"session_id":"s1"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestEndpointsWithoutModelRunner(t *testing.T) {
	srv := newTestApp(t, nil)
	app := srv.GetApp()

	body, contentType := multipartUpload(t, "file", "meeting.wav", "audio/wav", []byte("RIFFfakewav"))
	req := httptest.NewRequest("POST", "/process-audio", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	chatBody := `{"session_id":"s1","question":"hi"}`
	req = httptest.NewRequest("POST", "/chat", strings.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestApp(t, &stubALM{chatAvailable: true})
	app := srv.GetApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var root struct {
		Status      string `json:"status"`
		Message     string `json:"message"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, "ok", root.Status)
	assert.True(t, root.ModelLoaded)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status        string `json:"status"`
		ModelLoaded   bool   `json:"model_loaded"`
		ChatAvailable bool   `json:"chat_available"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ChatAvailable)
}
