package events

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "tiletree:events"

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *backend.Client
	channel string
	owned   bool
}

// NewRedisPublisher connects to the Redis server at addr.
// Close releases the connection.
func NewRedisPublisher(addr, channel string) *RedisPublisher {
	p := NewRedisPublisherFromClient(backend.NewClient(&backend.Options{Addr: addr}), channel)
	p.owned = true
	return p
}

// NewRedisPublisherFromClient publishes through an existing client.
// Close leaves the client open.
func NewRedisPublisherFromClient(client *backend.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Channel returns the channel events are published on.
func (p *RedisPublisher) Channel() string { return p.channel }

// Ping checks that the server is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Publish encodes e as JSON and publishes it.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}

// Subscribe streams events from channel until ctx is done. Messages that
// fail to decode are skipped. The returned channel is closed when the
// subscription ends.
func Subscribe(ctx context.Context, client *backend.Client, channel string) (<-chan Event, error) {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				e, err := Decode([]byte(msg.Payload))
				if err != nil {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
