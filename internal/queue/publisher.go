package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event TodoEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event TodoEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s todo=%d msgID=%s",
		stream, event.Type, event.TodoID, messageID)

	return messageID, nil
}

// PublishReminderDue is a convenience method for reminder firings.
func (p *RedisPublisher) PublishReminderDue(ctx context.Context, todoID, userID int64, title string) (string, error) {
	event := NewReminderDueEvent(todoID, userID, title)
	return p.Publish(ctx, StreamReminders, event)
}

// PublishTodoCreated is a convenience method for todo creation events.
func (p *RedisPublisher) PublishTodoCreated(ctx context.Context, todoID, userID int64, title string) (string, error) {
	event := NewTodoCreatedEvent(todoID, userID, title)
	return p.Publish(ctx, StreamReminders, event)
}

// PublishTodoCompleted is a convenience method for completion events.
func (p *RedisPublisher) PublishTodoCompleted(ctx context.Context, todoID, userID int64, title string) (string, error) {
	event := NewTodoCompletedEvent(todoID, userID, title)
	return p.Publish(ctx, StreamReminders, event)
}
