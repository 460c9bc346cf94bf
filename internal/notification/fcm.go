// Package notification sends push notifications through Firebase Cloud
// Messaging. The reminder job is the only producer; everything here is
// best-effort — a failed push is logged and dropped, never retried into
// the user's face.
package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Pusher is what the reminder job needs. *FCMService implements it; tests
// and credential-less deployments use a no-op.
type Pusher interface {
	SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string) (invalid []string, err error)
}

// FCMService wraps the Firebase messaging client.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService initializes the messaging client. Credentials come from
// the FCM_SERVICE_ACCOUNT_JSON environment variable (base64-encoded
// service account JSON) or, failing that, from the given key file path.
func NewFCMService(ctx context.Context, localFilePath string) (*FCMService, error) {
	var opt option.ClientOption

	if encoded := os.Getenv("FCM_SERVICE_ACCOUNT_JSON"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Info("FCM: using credentials from environment")
	} else {
		if _, err := os.Stat(localFilePath); err != nil {
			return nil, fmt.Errorf("FCM credentials file %q not usable and FCM_SERVICE_ACCOUNT_JSON unset: %w", localFilePath, err)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.WithField("file", localFilePath).Info("FCM: using credentials file")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendPush delivers one notification per token, individually — batch sends
// fail wholesale on a single bad token. Tokens FCM rejects as unregistered
// are returned so the caller can purge them.
func (s *FCMService) SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var invalid []string
	sent, failed := 0, 0

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		}

		if _, err := s.client.Send(ctx, message); err != nil {
			failed++
			if messaging.IsUnregistered(err) {
				invalid = append(invalid, token)
				continue
			}
			log.WithError(err).Debug("FCM send failed")
			continue
		}
		sent++
	}

	log.WithFields(log.Fields{"sent": sent, "failed": failed}).Debug("FCM push batch done")

	if sent == 0 && failed > 0 {
		return invalid, fmt.Errorf("all %d push sends failed", failed)
	}
	return invalid, nil
}

// NoopPusher is used when FCM credentials are not configured; reminders
// are silently skipped.
type NoopPusher struct{}

// SendPush implements Pusher by doing nothing.
func (NoopPusher) SendPush(context.Context, []string, string, string, map[string]string) ([]string, error) {
	return nil, nil
}
