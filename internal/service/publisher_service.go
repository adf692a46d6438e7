package service

import (
	"context"
	"encoding/json"
	"time"

	"audio-insight-be/internal/constant"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService emits session lifecycle events on the in-process bus.
// Publishing is best-effort: a bus failure is logged, never propagated into
// the request path.
type IPublisherService interface {
	PublishSessionProcessed(ctx context.Context, sessionID, filename, fingerprint string)
	PublishSessionDeleted(ctx context.Context, sessionID string)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, sysLogger logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    sysLogger,
	}
}

func (ps *publisherService) PublishSessionProcessed(ctx context.Context, sessionID, filename, fingerprint string) {
	ps.publish(events.BaseEvent{
		Type: events.TypeSessionProcessed,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"filename":    filename,
			"fingerprint": fingerprint,
		},
		OccurredAt: time.Now(),
	})
}

func (ps *publisherService) PublishSessionDeleted(ctx context.Context, sessionID string) {
	ps.publish(events.BaseEvent{
		Type: events.TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	})
}

func (ps *publisherService) publish(evt events.BaseEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		ps.logger.Error(constant.ModuleEvents, "Failed to marshal event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		ps.logger.Error(constant.ModuleEvents, "Failed to publish event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}
