package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// envelope is the wire form of an event on the Redis channel. Origin lets an
// instance skip its own messages, which it has already delivered locally.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisDispatcher delivers events locally and fans them out to other
// instances over a Redis pub/sub channel.
type RedisDispatcher struct {
	local   Dispatcher
	client  *redis.Client
	channel string
	origin  string
	logger  *zap.Logger
}

// NewRedisDispatcher wraps local with a Redis fan-out on channel.
func NewRedisDispatcher(local Dispatcher, client *redis.Client, channel string, logger *zap.Logger) *RedisDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDispatcher{
		local:   local,
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

// Publish delivers locally, then broadcasts. A broadcast failure is logged and
// swallowed.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	_ = d.local.Publish(ctx, event)

	payload, err := encodeEnvelope(d.origin, event)
	if err != nil {
		d.logger.Warn("encode event", zap.String("event_type", string(event.Type)), zap.Error(err))
		return nil
	}
	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		d.logger.Warn("redis publish failed", zap.String("channel", d.channel), zap.Error(err))
	}
	return nil
}

func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) func() {
	return d.local.Subscribe(eventType, handler)
}

func (d *RedisDispatcher) SubscribeTopic(topic Topic, handler EventHandler) func() {
	return d.local.SubscribeTopic(topic, handler)
}

// Run relays events published by other instances to local subscribers until
// ctx is cancelled.
func (d *RedisDispatcher) Run(ctx context.Context) error {
	sub := d.client.Subscribe(ctx, d.channel)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", d.channel, err)
	}
	d.logger.Info("relaying change events", zap.String("channel", d.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			env, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				d.logger.Warn("discarding malformed event", zap.Error(err))
				continue
			}
			if env.Origin == d.origin {
				continue
			}
			_ = d.local.Publish(ctx, env.Event)
		}
	}
}

func encodeEnvelope(origin string, event Event) ([]byte, error) {
	return json.Marshal(envelope{Origin: origin, Event: event})
}

// decodeEnvelope leaves the payload as raw JSON; remote consumers only rely
// on type and subject.
func decodeEnvelope(data []byte) (envelope, error) {
	var wire struct {
		Origin string `json:"origin"`
		Event  struct {
			Event
			Payload json.RawMessage `json:"payload,omitempty"`
		} `json:"event"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return envelope{}, err
	}
	if wire.Event.Type == "" {
		return envelope{}, fmt.Errorf("event type missing")
	}
	event := wire.Event.Event
	event.Payload = wire.Event.Payload
	return envelope{Origin: wire.Origin, Event: event}, nil
}
