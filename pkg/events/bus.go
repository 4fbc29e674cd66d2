package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic is the single in-process topic all platform events flow through.
const Topic = "platform.events"

// envelope is the wire shape of an event on the bus.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Bus is an in-process event bus over a watermill gochannel. Services
// publish to it; bridges (NATS, future mail/payment collaborators)
// subscribe and fan out.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

// Publish puts one event on the bus. Failures are returned, not fatal:
// events are auxiliary to the request that produced them.
func (b *Bus) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubsub.Publish(Topic, msg)
}

// Subscribe returns a channel of decoded events. Each subscriber gets its
// own watermill subscription.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", Topic, err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
			select {
			case out <- BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the underlying pubsub down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
