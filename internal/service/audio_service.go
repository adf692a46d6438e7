package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-insight-be/internal/constant"
	"audio-insight-be/internal/dto"
	"audio-insight-be/internal/pkg/apperror"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/internal/repository/memory"
	"audio-insight-be/pkg/alm"
	"audio-insight-be/pkg/fingerprint"
	"audio-insight-be/pkg/transport"

	"github.com/google/uuid"
)

// IAudioService orchestrates one upload into a durable session and owns
// explicit session removal.
type IAudioService interface {
	Process(ctx context.Context, content []byte, filename, contentType string) (*dto.ProcessAudioResponse, error)
	DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error)
}

type audioService struct {
	provider    alm.Provider
	sessionRepo *memory.SessionRepository
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewAudioService(
	provider alm.Provider,
	sessionRepo *memory.SessionRepository,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IAudioService {
	return &audioService{
		provider:    provider,
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      sysLogger,
	}
}

// Process stages the artifact, invokes the model, normalizes the result and
// registers it under a fresh session id. The staged file is removed on both
// the success and the failure path; a partial result is never stored.
func (s *audioService) Process(ctx context.Context, content []byte, filename, contentType string) (*dto.ProcessAudioResponse, error) {
	if s.provider == nil {
		return nil, apperror.Unavailable("models not loaded, please try again later")
	}
	if contentType != "" && !strings.HasPrefix(contentType, "audio/") {
		return nil, apperror.Validation("file must be an audio file")
	}
	if len(content) == 0 {
		return nil, apperror.Validation("empty file uploaded")
	}

	// Content identity. Recorded only: every upload is processed fresh and
	// gets its own session, even for bytes seen before.
	digest := fingerprint.Sum(content)

	sessionID := uuid.NewString()

	stagedPath := filepath.Join(os.TempDir(), fmt.Sprintf("audio_%s_%s", sessionID, filepath.Base(filename)))
	if err := os.WriteFile(stagedPath, content, 0o600); err != nil {
		return nil, apperror.Upstream("error processing audio: staging failed", err)
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn(constant.ModuleAudio, "Failed to remove staged file", map[string]interface{}{
				"path":  stagedPath,
				"error": err.Error(),
			})
		}
	}()

	s.logger.Info(constant.ModuleAudio, "Processing audio file", map[string]interface{}{
		"filename":    filename,
		"session_id":  sessionID,
		"fingerprint": digest,
		"bytes":       len(content),
	})

	raw, err := s.provider.ProcessAudio(ctx, stagedPath,
		alm.WithSpeakerBounds(constant.DiarizationMinSpeakers, constant.DiarizationMaxSpeakers),
		alm.WithPreprocessedCopy(false),
	)
	if err != nil {
		return nil, apperror.Upstream("error processing audio", err)
	}

	results, err := transport.Normalize(raw)
	if err != nil {
		return nil, apperror.Upstream("error processing audio: malformed model output", err)
	}

	s.sessionRepo.Save(sessionID, results)
	s.logger.Info(constant.ModuleAudio, "Stored results in memory", map[string]interface{}{
		"session_id":      sessionID,
		"sessions_active": s.sessionRepo.Count(),
	})

	if s.publisher != nil {
		s.publisher.PublishSessionProcessed(ctx, sessionID, filename, digest)
	}

	return &dto.ProcessAudioResponse{
		SessionId: sessionID,
		Filename:  filename,
		Results:   results,
		Cached:    false,
	}, nil
}

// DeleteSession removes a session's stored results. Deleting an id that was
// never issued, or one already deleted, reports not-found.
func (s *audioService) DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error) {
	if !s.sessionRepo.Delete(sessionID) {
		return nil, apperror.NotFound("session ID not found: %s", sessionID)
	}

	s.logger.Info(constant.ModuleAudio, "Deleted session", map[string]interface{}{
		"session_id": sessionID,
	})

	if s.publisher != nil {
		s.publisher.PublishSessionDeleted(ctx, sessionID)
	}

	return &dto.DeleteSessionResponse{
		Message: fmt.Sprintf("Session %s deleted successfully", sessionID),
	}, nil
}
