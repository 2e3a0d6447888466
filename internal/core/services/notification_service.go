package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// NotificationService posts workflow events to a webhook. Delivery is
// fire-and-forget: a failed post is logged and dropped, it never fails
// the operation that triggered it.
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service. An empty
// webhook URL disables delivery.
func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// Notify posts one event for a user
func (s *NotificationService) Notify(userID uint, event, detail string) {
	if !s.enabled {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"user_id": userID,
		"event":   event,
		"detail":  detail,
	})
	if err != nil {
		log.Printf("⚠️ Failed to encode notification: %v", err)
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("⚠️ Failed to deliver notification %q for user %d: %v", event, userID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("⚠️ Notification webhook returned %d for event %q", resp.StatusCode, event)
	}
}

// NopNotifier discards all events
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(userID uint, event, detail string) {}
