// Package events publishes material lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	MaterialCreated = "material.created"
	MaterialUpdated = "material.updated"
	MaterialDeleted = "material.deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	MaterialID uint      `json:"material_id"`
	Name       string    `json:"name,omitempty"`
	Category   string    `json:"category,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, materialID uint, name, category string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		MaterialID: materialID,
		Name:       name,
		Category:   category,
		OccurredAt: time.Now().UTC(),
	}
}

// Key partitions events of one material onto the same partition.
func (e Event) Key() []byte {
	return []byte(strconv.FormatUint(uint64(e.MaterialID), 10))
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
