package service

import (
	"context"

	"audio-insight-be/internal/constant"
	"audio-insight-be/internal/dto"
	"audio-insight-be/internal/pkg/apperror"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/internal/repository/memory"
	"audio-insight-be/pkg/alm"
)

// IChatService resolves a session's stored results and forwards them with
// the caller's question to the model's conversational entrypoint.
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	provider    alm.Provider
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewChatService(
	provider alm.Provider,
	sessionRepo *memory.SessionRepository,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		provider:    provider,
		sessionRepo: sessionRepo,
		logger:      sysLogger,
	}
}

func (s *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if s.provider == nil {
		return nil, apperror.Unavailable("models not loaded, please try again later")
	}
	if !s.provider.ChatAvailable(ctx) {
		return nil, apperror.Unavailable("chat model not available, please check reasoning engine credentials")
	}

	// The lookup always uses the id the caller supplied.
	results, found := s.sessionRepo.Get(request.SessionId)
	if !found {
		return nil, apperror.NotFound("session ID not found: %s, please process audio first", request.SessionId)
	}

	s.logger.Info(constant.ModuleChat, "Chat request received", map[string]interface{}{
		"session_id": request.SessionId,
		"question":   request.Question,
	})

	result, err := s.provider.Chat(ctx, request.Question, results)
	if err != nil {
		return nil, apperror.Upstream("error during chat", err)
	}

	// A well-formed response can still carry a model-side failure.
	if result.Error != "" {
		return nil, apperror.Upstream(result.Error, nil)
	}

	return &dto.ChatResponse{
		Question:  result.Question,
		Answer:    result.Answer,
		ModelUsed: result.ModelUsed,
	}, nil
}
