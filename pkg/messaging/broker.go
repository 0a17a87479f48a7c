package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels the scheduler publishes on. The ATS collaborator consumes
// interview lifecycle events; the delivery collaborator consumes sms/push
// reminder hand-offs.
const (
	ChannelInterviewEvents = "interviews.lifecycle"
	ChannelReminderSMS     = "reminders.sms"
	ChannelReminderPush    = "reminders.push"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
