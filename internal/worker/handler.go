package worker

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"taskmate/internal/model"
	"taskmate/internal/queue"
)

// DeviceTokenProvider defines the interface for fetching device tokens.
// This abstracts the repository layer so workers don't depend on DB directly.
type DeviceTokenProvider interface {
	// GetByUserID returns all device tokens registered by a user.
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
}

// PushSender defines the interface for dispatching push notifications.
type PushSender interface {
	// SendToTokens delivers a notification to the given device tokens.
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// Handler processes todo events from the queue and fans out pushes.
type Handler struct {
	deviceTokens DeviceTokenProvider
	push         PushSender // Can be nil if push not configured
}

// NewHandler creates a new event handler.
func NewHandler(deviceTokens DeviceTokenProvider, push PushSender) *Handler {
	return &Handler{
		deviceTokens: deviceTokens,
		push:         push,
	}
}

// HandleEvent routes an event to the appropriate notification based on type.
// Dispatch failures are logged and swallowed so a bad token batch never
// wedges the stream.
func (h *Handler) HandleEvent(ctx context.Context, event queue.TodoEvent) error {
	var title, body string

	switch event.Type {
	case queue.EventReminderDue:
		title = "Reminder"
		body = fmt.Sprintf("%q is due now", event.Title)
	case queue.EventTodoCreated:
		title = "Todo created"
		body = fmt.Sprintf("%q has been added to your list", event.Title)
	case queue.EventTodoCompleted:
		title = "Todo completed"
		body = fmt.Sprintf("%q is done", event.Title)
	default:
		log.Printf("[Handler] Unknown event type: %s", event.Type)
		return nil
	}

	return h.notify(ctx, event, title, body)
}

// notify fetches the owner's device tokens and dispatches the push.
func (h *Handler) notify(ctx context.Context, event queue.TodoEvent, title, body string) error {
	tokens, err := h.deviceTokens.GetByUserID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("get device tokens for user %d: %w", event.UserID, err)
	}

	if len(tokens) == 0 {
		log.Printf("[Handler] No devices registered: user=%d type=%s", event.UserID, event.Type)
		return nil
	}

	if h.push == nil {
		log.Printf("[Handler] Push not configured, dropping: user=%d type=%s", event.UserID, event.Type)
		return nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	data := map[string]string{
		"type":    event.Type,
		"todo_id": strconv.FormatInt(event.TodoID, 10),
	}

	if err := h.push.SendToTokens(ctx, tokenStrings, title, body, data); err != nil {
		log.Printf("[Handler] Push FAILED: user=%d type=%s err=%v", event.UserID, event.Type, err)
		return nil
	}

	return nil
}
