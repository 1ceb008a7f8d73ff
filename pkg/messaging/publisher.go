package messaging

import (
	"context"
	"time"
)

// Publisher публикует события во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Message конверт события
type Message struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewMessage создает конверт события с текущим временем
func NewMessage(eventType string, payload interface{}) Message {
	return Message{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// NopPublisher используется, когда публикация событий выключена
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
