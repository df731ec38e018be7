package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const EventsChannel = "talentmatch:events"

// RelayedEvent is the pub/sub frame used to hand realtime events from the
// worker process to the API process that owns the websocket connections.
type RelayedEvent struct {
	UserID  uuid.UUID       `json:"user_id"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventPublisher implements the usecase notifier over redis pub/sub.
type EventPublisher struct {
	redis   *Redis
	channel string
}

func NewEventPublisher(r *Redis, channel string) *EventPublisher {
	if channel == "" {
		channel = EventsChannel
	}
	return &EventPublisher{redis: r, channel: channel}
}

func (p *EventPublisher) Notify(userID uuid.UUID, event string, payload any) {
	if p == nil || p.redis.isUnavailable() {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		p.redis.logf("cache=redis op=publish event=%s status=error err=%v", event, err)
		return
	}
	b, err := json.Marshal(RelayedEvent{UserID: userID, Event: event, Payload: raw})
	if err != nil {
		return
	}
	if err := p.redis.client.Publish(context.Background(), p.channel, b).Err(); err != nil {
		p.redis.warnUnavailableOnce(err)
	}
}

// Relay subscribes to channel and hands every well-formed event to fn until
// ctx is done.
func (r *Redis) Relay(ctx context.Context, channel string, fn func(RelayedEvent)) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	if channel == "" {
		channel = EventsChannel
	}

	sub := r.client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("redis subscription closed")
			}
			var evt RelayedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil || evt.UserID == uuid.Nil {
				r.logf("cache=redis op=relay status=rejected err=%v", err)
				continue
			}
			fn(evt)
		}
	}
}
