package service

import (
	"context"
	"encoding/json"
	"sync"

	"audio-insight-be/internal/constant"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionStats are running counters over session lifecycle events, surfaced
// by the detailed health endpoint.
type SessionStats struct {
	Processed int64 `json:"processed"`
	Deleted   int64 `json:"deleted"`
}

type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() SessionStats
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger

	mu    sync.Mutex
	stats SessionStats
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, sysLogger logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error(constant.ModuleEvents, "Failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	switch evt.Type {
	case events.TypeSessionProcessed:
		cs.mu.Lock()
		cs.stats.Processed++
		cs.mu.Unlock()
	case events.TypeSessionDeleted:
		cs.mu.Lock()
		cs.stats.Deleted++
		cs.mu.Unlock()
	default:
		cs.logger.Warn(constant.ModuleEvents, "Unknown event type", map[string]interface{}{
			"type": evt.Type,
		})
		msg.Ack()
		return
	}

	cs.logger.Info(constant.ModuleEvents, "Session event", map[string]interface{}{
		"type":    evt.Type,
		"payload": evt.Data,
	})
	msg.Ack()
}

func (cs *consumerService) Stats() SessionStats {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.stats
}
