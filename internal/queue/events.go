package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the reminder stream
const (
	EventReminderDue   = "reminder_due"
	EventTodoCreated   = "todo_created"
	EventTodoCompleted = "todo_completed"
)

// Stream names
const (
	StreamReminders = "stream:reminders"
)

// Consumer group name for notification workers
const (
	ConsumerGroupReminders = "reminder_workers"
)

// TodoEvent represents an event published to the reminder stream.
// All notification-triggering events share this structure.
type TodoEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	TodoID int64  `json:"todo_id,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
	Title  string `json:"title,omitempty"`
}

// NewReminderDueEvent creates an event for a reminder timer firing.
// Worker will push "due now" to all of the owner's devices.
func NewReminderDueEvent(todoID, userID int64, title string) TodoEvent {
	return TodoEvent{
		Type:      EventReminderDue,
		Timestamp: time.Now().Unix(),
		TodoID:    todoID,
		UserID:    userID,
		Title:     title,
	}
}

// NewTodoCreatedEvent creates an event for a freshly created todo.
func NewTodoCreatedEvent(todoID, userID int64, title string) TodoEvent {
	return TodoEvent{
		Type:      EventTodoCreated,
		Timestamp: time.Now().Unix(),
		TodoID:    todoID,
		UserID:    userID,
		Title:     title,
	}
}

// NewTodoCompletedEvent creates an event for a todo marked completed.
func NewTodoCompletedEvent(todoID, userID int64, title string) TodoEvent {
	return TodoEvent{
		Type:      EventTodoCompleted,
		Timestamp: time.Now().Unix(),
		TodoID:    todoID,
		UserID:    userID,
		Title:     title,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e TodoEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseTodoEvent parses a TodoEvent from Redis stream message values.
func ParseTodoEvent(values map[string]interface{}) (TodoEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return TodoEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event TodoEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return TodoEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
