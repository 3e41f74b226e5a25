package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tinylink-io/linklite/internal/app/model"
	"github.com/tinylink-io/linklite/internal/app/repository"
	"go.uber.org/zap"
)

// ClickConsumer drains click audit events from JetStream into the store.
type ClickConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.ClickEventRepository
}

// NewClickConsumer creates a click event consumer.
func NewClickConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.ClickEventRepository) *ClickConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickConsumer{js: js, logger: logger, repo: repo}
}

// Start ensures the stream and durable consumer exist, then drains in the
// background until the process exits.
func (c *ClickConsumer) Start() error {
	if _, err := c.js.StreamInfo(model.ClickStreamName); err != nil {
		if _, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ClickStreamName,
			Subjects: []string{model.ClickStreamSubject},
			MaxBytes: model.ClickStreamMaxBytes,
		}); err != nil {
			return fmt.Errorf("create click stream: %w", err)
		}
	}

	if _, err := c.js.ConsumerInfo(model.ClickStreamName, model.ClickConsumerName); err != nil {
		if _, err = c.js.AddConsumer(model.ClickStreamName, &nats.ConsumerConfig{
			Durable:   model.ClickConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		}); err != nil {
			return fmt.Errorf("create click consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ClickStreamSubject, model.ClickConsumerName)
	if err != nil {
		return fmt.Errorf("subscribe clicks: %w", err)
	}

	go c.drain(sub)
	return nil
}

func (c *ClickConsumer) drain(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && !errors.Is(err, nats.ErrTimeout) {
			c.logger.Error("fetch click events failed", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ClickEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("unmarshal click event failed", zap.Error(err))
				_ = msg.Nak()
				continue
			}

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("store click event failed",
					zap.String("id", event.ID),
					zap.String("link_code", event.LinkCode),
					zap.Error(err))
				_ = msg.Nak()
				continue
			}

			_ = msg.Ack()
		}
	}
}
