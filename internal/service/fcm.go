package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient wraps the Firebase Cloud Messaging client used for reminder
// and todo lifecycle notifications.
//
// The credentials (project ID, client email, private key) come from Firebase
// Console: Project Settings -> Service Accounts -> Generate New Private Key.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient creates a new FCM client from environment credentials.
// The private key in .env has literal "\n" strings, so we replace them with
// actual newlines before handing it to the SDK.
func NewFCMClient(ctx context.Context, projectID, clientEmail, privateKey string) (*FCMClient, error) {
	privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")

	credsJSON := fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, projectID, privateKey, clientEmail)

	opt := option.WithCredentialsJSON([]byte(credsJSON))
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Printf("[FCM] Initialized for project: %s", projectID)
	return &FCMClient{client: client}, nil
}

// SendToTokens sends a push notification to multiple device tokens.
// FCM caps multicast at 500 tokens per request; per-user device counts
// stay far below that.
func (c *FCMClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if data != nil {
		message.Data = data
	}

	response, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("send multicast: %w", err)
	}

	log.Printf("[FCM] Sent to %d tokens: %d success, %d failure",
		len(tokens), response.SuccessCount, response.FailureCount)

	for i, resp := range response.Responses {
		if !resp.Success {
			log.Printf("[FCM] Token %d failed: %v", i, resp.Error)
		}
	}

	return nil
}

// SendToToken sends a push notification to a single device token.
func (c *FCMClient) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	return c.SendToTokens(ctx, []string{token}, title, body, data)
}
