// Package events publishes domain events to Redis pub/sub channels for
// downstream consumers (SSE gateway, notification workers). Publishing is
// best-effort; callers treat failures as non-fatal.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"apptracker/internal/lifecycle"
)

// Channel names, one per event type.
const (
	ChannelStatusChanged = "EVENT_STATUS_CHANGED"
	ChannelReminderDue   = "EVENT_REMINDER_DUE"
)

// Publisher writes events to Redis.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher returns a Publisher on the given client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// StatusChanged announces a committed status transition.
func (p *Publisher) StatusChanged(ctx context.Context, app *lifecycle.Application, change *lifecycle.StatusChange) error {
	payload, err := json.Marshal(map[string]string{
		"type":          ChannelStatusChanged,
		"applicationId": app.ID,
		"ownerId":       app.OwnerID,
		"from":          string(change.OldStatus),
		"to":            string(change.NewStatus),
		"at":            change.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	return p.rdb.Publish(ctx, ChannelStatusChanged, payload).Err()
}

// ReminderDue announces a follow-up reminder that has come due.
func (p *Publisher) ReminderDue(ctx context.Context, app *lifecycle.Application) error {
	payload, err := json.Marshal(map[string]string{
		"type":          ChannelReminderDue,
		"applicationId": app.ID,
		"ownerId":       app.OwnerID,
		"companyName":   app.CompanyName,
		"jobTitle":      app.JobTitle,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder event: %w", err)
	}
	return p.rdb.Publish(ctx, ChannelReminderDue, payload).Err()
}
