package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-api/internal/question"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// DefaultChannel is the Pub/Sub channel question events travel on.
const DefaultChannel = "trivia:questions"

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher pushes question events onto a Redis Pub/Sub channel.
type Publisher struct {
	redis   redisPublisher
	channel string
}

var _ question.EventPublisher = (*Publisher)(nil)

func NewPublisher(client redisPublisher, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{redis: client, channel: channel}
}

// Publish encodes evt as JSON and publishes it.
func (p *Publisher) Publish(ctx context.Context, evt question.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode question event: %w", err)
	}
	if err := p.redis.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish question event: %w", err)
	}
	return nil
}

// HubPublisher delivers events straight to the local feed hub. It is used
// when Redis is not configured, so a single instance still has a live feed.
type HubPublisher struct {
	hub *ws.Hub
}

var _ question.EventPublisher = (*HubPublisher)(nil)

func NewHubPublisher(hub *ws.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, evt question.Event) error {
	msg, err := ws.NewMessage(ws.TypeQuestionEvent, evt)
	if err != nil {
		return fmt.Errorf("encode question event: %w", err)
	}
	return p.hub.BroadcastAll(msg)
}
