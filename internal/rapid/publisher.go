package rapid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

const defaultPublishTimeout = 5 * time.Second

// Publisher puts events back on the rapid.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer           MessageWriter
	logger           *slog.Logger
	publishTimeout   time.Duration
	onPublishFailure func()
}

func NewKafkaPublisher(writer MessageWriter, logger *slog.Logger, publishTimeout time.Duration, onPublishFailure func()) *KafkaPublisher {
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	return &KafkaPublisher{
		writer:           writer,
		logger:           logger,
		publishTimeout:   publishTimeout,
		onPublishFailure: onPublishFailure,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rapid: encode event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(publishCtx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("failed to publish event", "error", err)
		if p.onPublishFailure != nil {
			p.onPublishFailure()
		}
		return fmt.Errorf("rapid: publish event: %w", err)
	}
	return nil
}
