package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/tinylink-io/linklite/internal/app/model"
)

// ClickPublisher pushes click audit events onto the JetStream stream. It is
// fire-and-forget from the resolver's point of view; losing an event never
// affects a redirect.
type ClickPublisher struct {
	js nats.JetStreamContext
}

// NewClickPublisher creates a click event publisher.
func NewClickPublisher(js nats.JetStreamContext) *ClickPublisher {
	return &ClickPublisher{js: js}
}

// Publish emits one event for a resolved short code.
func (p *ClickPublisher) Publish(linkCode, ip, userAgent string) error {
	event := model.ClickEvent{
		ID:        uuid.New().String(),
		LinkCode:  linkCode,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ClickStreamSubject, data)
	return err
}
