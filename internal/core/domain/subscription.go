package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: subscriber follows channel.
type Subscription struct {
	SubscriberID uuid.UUID `json:"subscriber_id"`
	ChannelID    uuid.UUID `json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}
